package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/mockdata"
	"github.com/stretchr/testify/require"
)

func TestLoadSKUsGenerated(t *testing.T) {
	require := require.New(t)

	skus, err := loadSKUs("", 9)
	require.NoError(err)
	want := mockdata.New(9).SKUs()
	require.Len(skus, len(want))
	for i := range want {
		require.Equal(want[i].ID, skus[i].ID)
		require.Equal(want[i].AdSpend, skus[i].AdSpend)
	}
}

func TestLoadSKUsFromSnapshot(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	want := mockdata.New(2).SKUs()[:10]
	require.NoError(export.WriteSKUs(&buf, want, nil))
	path := filepath.Join(t.TempDir(), "skus.csv")
	require.NoError(os.WriteFile(path, buf.Bytes(), 0o644))

	skus, err := loadSKUs(path, 0)
	require.NoError(err)
	require.Len(skus, 10)
	require.Equal(want[0].ID, skus[0].ID)

	_, err = loadSKUs(filepath.Join(t.TempDir(), "missing.csv"), 0)
	require.ErrorContains(err, "failed to open file")
}
