// cmd/analytics/main.go
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/roasboard/backend-go/internal/bidding"
	"github.com/andresuchdata/roasboard/backend-go/internal/cache"
	"github.com/andresuchdata/roasboard/backend-go/internal/domain"
	"github.com/andresuchdata/roasboard/backend-go/internal/export"
	"github.com/andresuchdata/roasboard/backend-go/internal/forecast"
	"github.com/andresuchdata/roasboard/backend-go/internal/mockdata"
	"github.com/andresuchdata/roasboard/backend-go/internal/repository"
	"github.com/andresuchdata/roasboard/backend-go/internal/service"
	"github.com/andresuchdata/roasboard/backend-go/internal/simulation"
	"github.com/andresuchdata/roasboard/backend-go/pkg/logger"
	"github.com/rs/zerolog/log"
)

type options struct {
	input       string
	seed        uint64
	outDir      string
	filter      domain.SKUFilter
	budget      float64
	sku         string
	spendChange float64
	now         time.Time
}

func main() {
	// Parse command line flags
	var opts options
	var category, stockStatus string
	flag.StringVar(&opts.input, "input", "", "SKU snapshot CSV (defaults to generated data)")
	flag.Uint64Var(&opts.seed, "seed", 42, "Random seed for generated SKU data")
	flag.StringVar(&opts.outDir, "out-dir", "./data/output/reports", "Directory for the generated reports")
	flag.StringVar(&category, "category", "", "Restrict reports to one category")
	flag.StringVar(&stockStatus, "stock-status", "", "Restrict reports to one stock status")
	flag.Float64Var(&opts.budget, "budget", 0, "Reallocate recommended spend to this total budget")
	flag.StringVar(&opts.sku, "sku", "", "SKU to simulate a spend change for")
	flag.Float64Var(&opts.spendChange, "spend-change", 0, "Spend delta applied to -sku")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	logger.SetLevel(*logLevel)
	opts.filter = domain.SKUFilter{Category: category, StockStatus: domain.StockStatus(stockStatus)}
	opts.now = time.Now()

	if err := run(context.Background(), opts); err != nil {
		log.Fatal().Err(err).Msg("analytics run failed")
	}
}

func run(ctx context.Context, opts options) error {
	repo := repository.NewMockRepository(opts.seed)
	if opts.input != "" {
		skus, err := readSnapshot(opts.input)
		if err != nil {
			return err
		}
		if err := repo.SaveSKUs(ctx, skus); err != nil {
			return err
		}
	}

	noCache := cache.NewNoopDashboardCache()
	dashboard := service.NewDashboardService(repo, noCache, forecast.NewForest(), mockdata.New(opts.seed), nil)
	planning := service.NewPlanningService(repo, noCache, bidding.DefaultConfig(), simulation.DefaultConfig(), nil)
	exports := service.NewExportService(dashboard, planning, nil, nil)

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.outDir, err)
	}

	for _, report := range []export.Report{export.ReportSKUs, export.ReportCampaigns, export.ReportInventoryAlerts, export.ReportRecommendations} {
		start := time.Now()
		rendered, err := exports.Render(ctx, service.ExportRequest{Report: report, Filter: opts.filter})
		if err != nil {
			return fmt.Errorf("render %s: %w", report, err)
		}
		if err := writeFile(opts.outDir, rendered.Filename, rendered.Data); err != nil {
			return err
		}
		log.Info().Str("report", string(report)).Dur("took", time.Since(start)).Msg("report written")
	}

	if opts.budget > 0 {
		recs, err := planning.Reallocate(ctx, opts.filter, opts.budget)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := export.WriteRecommendations(&buf, recs); err != nil {
			return err
		}
		name := fmt.Sprintf("reallocation-%s.csv", opts.now.Format("2006-01-02"))
		if err := writeFile(opts.outDir, name, buf.Bytes()); err != nil {
			return err
		}
		log.Info().Float64("budget", opts.budget).Int("skus", len(recs)).Msg("budget reallocation written")
	}

	if opts.sku != "" && opts.spendChange != 0 {
		result, err := planning.SimulateSpendChange(ctx, opts.sku, opts.spendChange)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := export.WriteSimulation(&buf, result); err != nil {
			return err
		}
		if err := writeFile(opts.outDir, export.ReportSimulation.Filename(opts.now), buf.Bytes()); err != nil {
			return err
		}
		log.Info().Str("sku", opts.sku).Float64("spend_change", opts.spendChange).Msg("simulation written")
	}

	return nil
}

func readSnapshot(path string) ([]domain.SKU, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()
	return export.ReadSKUs(f)
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
