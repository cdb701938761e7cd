package librarystore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending/librarystore"
)

func Test_GetConsistencyLevel_DefaultsToStrong(t *testing.T) {
	assert.Equal(t, librarystore.StrongConsistency, librarystore.GetConsistencyLevel(context.Background()))
}

func Test_GetConsistencyLevel_ReadsContextValue(t *testing.T) {
	ctx := librarystore.WithEventualConsistency(context.Background())
	assert.Equal(t, librarystore.EventualConsistency, librarystore.GetConsistencyLevel(ctx))

	ctx = librarystore.WithStrongConsistency(ctx)
	assert.Equal(t, librarystore.StrongConsistency, librarystore.GetConsistencyLevel(ctx))
}

func Test_ConsistencyLevel_String(t *testing.T) {
	assert.Equal(t, "strong", librarystore.StrongConsistency.String())
	assert.Equal(t, "eventual", librarystore.EventualConsistency.String())
	assert.Equal(t, "unknown", librarystore.ConsistencyLevel(99).String())
}
