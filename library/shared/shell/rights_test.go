package shell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending/library/shared/core"
	"github.com/AntonStoeckl/library-lending/library/shared/shell"
	"github.com/AntonStoeckl/library-lending/librarystore"
)

type rightsDirectoryStub struct {
	rights map[librarystore.UserIDInt64]librarystore.Rights
	err    error
	calls  int
}

func (s *rightsDirectoryStub) RightsOf(_ context.Context, userID librarystore.UserIDInt64) (librarystore.Rights, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}

	return s.rights[userID], nil
}

func Test_Authorize(t *testing.T) {
	directory := &rightsDirectoryStub{rights: map[librarystore.UserIDInt64]librarystore.Rights{
		1: librarystore.NewRights(librarystore.RightLibrarian),
		2: librarystore.NewRights(librarystore.RightStudent),
		3: librarystore.NewRights(librarystore.RightAdmin, librarystore.RightStudent),
	}}

	testCases := []struct {
		name        string
		requesterID librarystore.UserIDInt64
		codes       []librarystore.RightCode
		allowed     bool
	}{
		{name: "librarian for librarian", requesterID: 1, codes: []librarystore.RightCode{librarystore.RightLibrarian}, allowed: true},
		{name: "student for librarian", requesterID: 2, codes: []librarystore.RightCode{librarystore.RightLibrarian}, allowed: false},
		{name: "admin for librarian or admin", requesterID: 3, codes: []librarystore.RightCode{librarystore.RightLibrarian, librarystore.RightAdmin}, allowed: true},
		{name: "unknown user", requesterID: 99, codes: []librarystore.RightCode{librarystore.RightStudent}, allowed: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := shell.Authorize(context.Background(), directory, tc.requesterID, tc.codes...)

			// assert
			if tc.allowed {
				assert.NoError(t, err)
				return
			}

			assert.Equal(t, core.KindAuthorization, core.KindOf(err))
		})
	}
}

func Test_Authorize_NamesTheRequiredRights(t *testing.T) {
	directory := &rightsDirectoryStub{}

	_, err := shell.Authorize(context.Background(), directory, 7, librarystore.RightLibrarian, librarystore.RightAdmin)

	require.Error(t, err)
	assert.Equal(t, "not authorized, requires right: librarian or admin", err.Error())
	assert.Equal(t, 1, directory.calls, "rights are loaded once per check")
}

func Test_Authorize_DirectoryError_IsInternal(t *testing.T) {
	cause := errors.Join(librarystore.ErrQueryingFailed, errors.New("connection refused"))
	directory := &rightsDirectoryStub{err: cause}

	_, err := shell.Authorize(context.Background(), directory, 1, librarystore.RightLibrarian)

	assert.Equal(t, core.KindInternal, core.KindOf(err))
	assert.ErrorIs(t, err, librarystore.ErrQueryingFailed)
}
