package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andresuchdata/roasboard/backend-go/internal/config"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvSnapshot = "SKU ID,Product Name,Category,Ad Spend,Revenue,Inventory\n" +
	"SKU-A,Alpha,Shoes,100,400,25\n" +
	"SKU-B,Beta,Shoes,50,50,0\n"

type fakeSource struct {
	files     []*File
	content   map[string][]byte
	downloads int
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeSource) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	data, ok := f.content[fileID]
	if !ok {
		return errors.New("missing content")
	}
	f.downloads++
	_, err := w.Write(data)
	return err
}

func xlsxSnapshot(t *testing.T) []byte {
	t.Helper()
	wb := excelize.NewFile()
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"id", "name", "category", "adSpend", "revenue", "inventory", "marginPercent", "costOfGoods"},
		{"SKU-X", "Xray", "Hats", 200, 900, 12, 45, 10},
		{"SKU-Y", "Yankee", "Hats", 10, 5, 3},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cell, &row))
	}

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newFixture(t *testing.T) (*fakeSource, *repository.MockRepository) {
	source := &fakeSource{
		files: []*File{
			{ID: "old", Name: "skus-old.csv", ModifiedTime: "2024-01-01T00:00:00Z"},
			{ID: "notes", Name: "notes.txt", ModifiedTime: "2024-06-01T00:00:00Z"},
			{ID: "new", Name: "skus-new.xlsx", ModifiedTime: "2024-03-01T00:00:00Z"},
		},
		content: map[string][]byte{
			"old":   []byte(csvSnapshot),
			"new":   xlsxSnapshot(t),
			"notes": []byte("hello"),
		},
	}
	return source, repository.NewMockRepository(1)
}

func TestFilesNewestFirst(t *testing.T) {
	require := require.New(t)
	source, repo := newFixture(t)

	files, err := NewIngestService(source, "folder", repo, nil).Files(context.Background())
	require.NoError(err)
	require.Len(files, 2)
	require.Equal("new", files[0].ID)
	require.Equal("old", files[1].ID)
}

func TestIngestLatestConvertsXLSX(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	source, repo := newFixture(t)

	hooked := 0
	svc := NewIngestService(source, "folder", repo, func(context.Context) error {
		hooked++
		return nil
	})

	result, err := svc.IngestLatest(ctx)
	require.NoError(err)
	require.Equal("new", result.File.ID)
	require.Equal(2, result.SKUs)
	require.Equal(1, hooked)

	skus, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.Len(skus, 2)
	require.Equal("SKU-X", skus[0].ID)
	require.InDelta(4.5, skus[0].ROAS, 1e-9)
	require.NotNil(skus[0].Margin)
	require.InDelta(0.45, skus[0].Margin.MarginPercent, 1e-9)
	require.Nil(skus[1].Margin)
	require.Equal(domain.StockLow, skus[1].StockStatus)
}

func TestIngestByID(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	source, repo := newFixture(t)
	svc := NewIngestService(source, "folder", repo, nil)

	result, err := svc.IngestByID(ctx, "old")
	require.NoError(err)
	require.Equal(2, result.SKUs)

	skus, err := repo.ListSKUs(ctx)
	require.NoError(err)
	require.Equal(domain.StockOut, skus[1].StockStatus)

	_, err = svc.IngestByID(ctx, "missing")
	require.ErrorIs(err, ErrFileNotFound)

	_, err = svc.IngestByID(ctx, "notes")
	require.ErrorIs(err, ErrUnsupportedFile)
}

func TestIngestEmptySnapshot(t *testing.T) {
	source := &fakeSource{
		files:   []*File{{ID: "empty", Name: "empty.csv"}},
		content: map[string][]byte{"empty": []byte("SKU ID,Product Name\n")},
	}
	_, err := NewIngestService(source, "", repository.NewMockRepository(1), nil).IngestLatest(context.Background())
	require.ErrorIs(t, err, ErrEmptySnapshot)
}

func TestWatcherPollOnlyIngestsChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	source, repo := newFixture(t)
	w := NewWatcher(NewIngestService(source, "folder", repo, nil), 0)

	ingested, err := w.poll(ctx)
	require.NoError(err)
	require.True(ingested)

	ingested, err = w.poll(ctx)
	require.NoError(err)
	require.False(ingested)
	require.Equal(1, source.downloads)

	source.files[2].ModifiedTime = "2024-04-01T00:00:00Z"
	ingested, err = w.poll(ctx)
	require.NoError(err)
	require.True(ingested)

	empty := NewWatcher(NewIngestService(&fakeSource{}, "", repo, nil), 0)
	ingested, err = empty.poll(ctx)
	require.NoError(err)
	require.False(ingested)
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	source, repo := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, NewWatcher(NewIngestService(source, "folder", repo, nil), 0).Run(ctx))
}

func TestHandler(t *testing.T) {
	require := require.New(t)
	source, repo := newFixture(t)
	router := mux.NewRouter()
	NewHandler(NewIngestService(source, "folder", repo, nil)).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/drive/files", nil))
	require.Equal(http.StatusOK, rec.Code)
	var files []File
	require.NoError(json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(files, 2)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/drive/ingest?fileId=old", nil))
	require.Equal(http.StatusOK, rec.Code)
	require.Contains(rec.Body.String(), `"skus":2`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/drive/ingest?fileId=nope", nil))
	require.Equal(http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/drive/ingest?fileId=notes", nil))
	require.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func TestConvertXLSXToCSV(t *testing.T) {
	require := require.New(t)

	var out bytes.Buffer
	require.NoError(convertXLSXToCSV(bytes.NewReader(xlsxSnapshot(t)), &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(lines, 3)
	require.True(strings.HasPrefix(lines[0], "id,name,category"))

	require.Error(convertXLSXToCSV(strings.NewReader("not a workbook"), &out))
}

func TestNewServiceRequiresCredentials(t *testing.T) {
	_, err := NewService(context.Background(), config.DriveConfig{})
	require.ErrorContains(t, err, "credentials are required")

	_, err = NewService(context.Background(), config.DriveConfig{CredentialsJSON: "{}"})
	require.ErrorContains(t, err, "unable to parse drive credentials")
}
