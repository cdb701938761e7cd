package shell

import (
	"context"
	"strings"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

// Authorize loads the requester's rights once and checks that at least one of codes is held.
// A missing user and a user lacking the right both yield an authorization failure.
func Authorize(
	ctx context.Context,
	directory RightsDirectory,
	requesterID librarystore.UserIDInt64,
	codes ...librarystore.RightCode,
) (librarystore.Rights, error) {

	rights, err := directory.RightsOf(ctx, requesterID)
	if err != nil {
		return 0, Classify(err)
	}

	if !rights.HasAny(codes...) {
		return rights, core.AuthorizationFailure(unauthorizedMessage(codes))
	}

	return rights, nil
}

func unauthorizedMessage(codes []librarystore.RightCode) string {
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, code.Name())
	}

	return "not authorized, requires right: " + strings.Join(names, " or ")
}
