package source

import (
	"context"
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestOpenMock(t *testing.T) {
	require := require.New(t)

	repo, closeFn, err := Open(context.Background(), &config.Config{Source: config.SourceConfig{MockSeed: 3}})
	require.NoError(err)
	require.NoError(closeFn())
	require.IsType(&repository.MockRepository{}, repo)

	skus, err := repo.ListSKUs(context.Background())
	require.NoError(err)
	require.Len(skus, 100)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Source: config.SourceConfig{Driver: "mongo"}})
	require.ErrorIs(t, err, domain.ErrUnknownSource)
}

func TestOpenFirestoreRequiresProject(t *testing.T) {
	_, _, err := Open(context.Background(), &config.Config{Source: config.SourceConfig{Driver: "firestore"}})
	require.ErrorContains(t, err, "project id")
}
