package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/metrics"
	"github.com/andresuchdata/roasboard/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	csvContentType    = "text/csv; charset=utf-8"
	maxParallelRender = 4
)

// ExportRequest selects one report. ScenarioID is required for the simulation report.
type ExportRequest struct {
	Report     export.Report
	Filter     domain.SKUFilter
	ScenarioID string
}

// RenderedReport is a CSV payload ready for download or upload.
type RenderedReport struct {
	Report   export.Report
	Filename string
	Data     []byte
}

type ExportService struct {
	dashboard *DashboardService
	planning  *PlanningService
	storage   storage.ObjectStorage
	metrics   *metrics.Registry
	now       func() time.Time
}

// NewExportService wires the report exporter. store may be nil when uploads are disabled.
func NewExportService(dashboard *DashboardService, planning *PlanningService, store storage.ObjectStorage, reg *metrics.Registry) *ExportService {
	return &ExportService{
		dashboard: dashboard,
		planning:  planning,
		storage:   store,
		metrics:   reg,
		now:       time.Now,
	}
}

func (s *ExportService) Render(ctx context.Context, req ExportRequest) (*RenderedReport, error) {
	var buf bytes.Buffer
	if err := s.write(ctx, &buf, req); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ExportsWritten.WithLabelValues(string(req.Report)).Inc()
	}
	return &RenderedReport{
		Report:   req.Report,
		Filename: req.Report.Filename(s.now()),
		Data:     buf.Bytes(),
	}, nil
}

func (s *ExportService) write(ctx context.Context, buf *bytes.Buffer, req ExportRequest) error {
	switch req.Report {
	case export.ReportSKUs:
		skus, err := s.dashboard.SKUs(ctx, req.Filter)
		if err != nil {
			return err
		}
		return export.WriteSKUs(buf, skus, export.PredictionIndex(s.dashboard.forest.BatchPredict(skus)))
	case export.ReportCampaigns:
		campaigns, err := s.dashboard.Campaigns(ctx)
		if err != nil {
			return err
		}
		return export.WriteCampaigns(buf, campaigns)
	case export.ReportInventoryAlerts:
		skus, err := s.dashboard.SKUs(ctx, req.Filter)
		if err != nil {
			return err
		}
		return export.WriteInventoryAlerts(buf, skus, export.PredictionIndex(s.dashboard.forest.BatchPredict(skus)))
	case export.ReportRecommendations:
		recs, err := s.planning.Recommendations(ctx, req.Filter)
		if err != nil {
			return err
		}
		return export.WriteRecommendations(buf, recs)
	case export.ReportSimulation:
		result, err := s.planning.RunScenario(ctx, req.ScenarioID)
		if err != nil {
			return err
		}
		return export.WriteSimulation(buf, result)
	default:
		return fmt.Errorf("report %q: %w", req.Report, domain.ErrUnknownReport)
	}
}

// Publish renders every request concurrently and uploads the results under a dated
// folder. Nothing is uploaded when any report fails to render.
func (s *ExportService) Publish(ctx context.Context, reqs []ExportRequest) ([]storage.ObjectInfo, error) {
	if s.storage == nil {
		return nil, domain.ErrStorageDisabled
	}

	rendered := make([]*RenderedReport, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelRender)
	for i, req := range reqs {
		g.Go(func() error {
			r, err := s.Render(gctx, req)
			if err != nil {
				return fmt.Errorf("render %s: %w", req.Report, err)
			}
			rendered[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	folder := s.now().UTC().Format("2006-01-02")
	uploaded := make([]storage.ObjectInfo, 0, len(rendered))
	for _, r := range rendered {
		key := storage.JoinKey("reports", folder, r.Filename)
		if err := s.storage.UploadObject(ctx, key, r.Data, csvContentType); err != nil {
			return uploaded, err
		}
		uploaded = append(uploaded, storage.ObjectInfo{Key: key, Size: int64(len(r.Data))})
	}

	log.Info().Int("reports", len(uploaded)).Str("folder", folder).Msg("published reports")
	return uploaded, nil
}
