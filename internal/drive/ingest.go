package drive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/rs/zerolog/log"
)

var (
	ErrFileNotFound    = errors.New("drive file not found")
	ErrNoSnapshot      = errors.New("no snapshot file in folder")
	ErrUnsupportedFile = errors.New("unsupported snapshot file type")
	ErrEmptySnapshot   = errors.New("snapshot contains no skus")
)

// FileSource lists and downloads the files of a Drive folder.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

type IngestResult struct {
	File *File `json:"file"`
	SKUs int   `json:"skus"`
}

// IngestService loads SKU snapshots (CSV or XLSX) from one Drive folder into a repository.
type IngestService struct {
	source      FileSource
	folderID    string
	repo        repository.SKURepository
	afterIngest func(context.Context) error
}

// NewIngestService wires a folder to repo. afterIngest, when set, runs after every
// successful save, typically to drop cached dashboard results.
func NewIngestService(source FileSource, folderID string, repo repository.SKURepository, afterIngest func(context.Context) error) *IngestService {
	return &IngestService{
		source:      source,
		folderID:    folderID,
		repo:        repo,
		afterIngest: afterIngest,
	}
}

// Files lists the snapshot files in the folder, newest first.
func (s *IngestService) Files(ctx context.Context) ([]*File, error) {
	files, err := s.source.ListFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*File, 0, len(files))
	for _, f := range files {
		if snapshotKind(f.Name) != "" {
			snapshots = append(snapshots, f)
		}
	}
	sortNewestFirst(snapshots)
	return snapshots, nil
}

// Latest returns the most recently modified snapshot file.
func (s *IngestService) Latest(ctx context.Context) (*File, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSnapshot
	}
	return files[0], nil
}

func (s *IngestService) IngestLatest(ctx context.Context) (*IngestResult, error) {
	f, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return s.IngestFile(ctx, f)
}

func (s *IngestService) IngestByID(ctx context.Context, fileID string) (*IngestResult, error) {
	files, err := s.source.ListFiles(ctx, s.folderID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID == fileID {
			return s.IngestFile(ctx, f)
		}
	}
	return nil, fmt.Errorf("file %q: %w", fileID, ErrFileNotFound)
}

// IngestFile downloads f, parses it as a SKU snapshot and saves the SKUs.
func (s *IngestService) IngestFile(ctx context.Context, f *File) (*IngestResult, error) {
	kind := snapshotKind(f.Name)
	if kind == "" {
		return nil, fmt.Errorf("file %q: %w", f.Name, ErrUnsupportedFile)
	}

	start := time.Now()
	var raw bytes.Buffer
	if err := s.source.DownloadFile(ctx, f.ID, &raw); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
	}

	var snapshot io.Reader = &raw
	if kind == ".xlsx" {
		var converted bytes.Buffer
		if err := convertXLSXToCSV(&raw, &converted); err != nil {
			return nil, fmt.Errorf("failed to convert %s to csv: %w", f.Name, err)
		}
		snapshot = &converted
	}

	skus, err := export.ReadSKUs(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.Name, err)
	}
	if len(skus) == 0 {
		return nil, fmt.Errorf("file %q: %w", f.Name, ErrEmptySnapshot)
	}

	if err := s.repo.SaveSKUs(ctx, skus); err != nil {
		return nil, fmt.Errorf("failed to save skus from %s: %w", f.Name, err)
	}
	if s.afterIngest != nil {
		if err := s.afterIngest(ctx); err != nil {
			log.Warn().Err(err).Str("file", f.Name).Msg("drive: post-ingest hook failed")
		}
	}

	log.Info().
		Str("file", f.Name).
		Int("skus", len(skus)).
		Dur("took", time.Since(start)).
		Msg("drive: snapshot ingested")
	return &IngestResult{File: f, SKUs: len(skus)}, nil
}

func snapshotKind(name string) string {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".xlsx":
		return ext
	default:
		return ""
	}
}

func modifiedAt(f *File) time.Time {
	t, err := time.Parse(time.RFC3339, f.ModifiedTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

func sortNewestFirst(files []*File) {
	slices.SortStableFunc(files, func(a, b *File) int {
		return modifiedAt(b).Compare(modifiedAt(a))
	})
}
