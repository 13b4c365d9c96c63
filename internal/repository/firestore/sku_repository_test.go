package firestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	_, err := NewClient(ctx, config.FirestoreConfig{})
	require.ErrorContains(err, "project id is required")

	_, err = NewClient(ctx, config.FirestoreConfig{
		ProjectID:       "roasboard",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	require.ErrorContains(err, "unable to read firestore credentials")

	_, err = NewClient(ctx, config.FirestoreConfig{ProjectID: "roasboard", CredentialsJSON: "{not json"})
	require.ErrorContains(err, "unable to parse firestore credentials")
}
