package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"plancharts/internal/charts"
	"plancharts/internal/config"
	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/host"
	"plancharts/internal/logging"
	"plancharts/internal/protocol"
	"plancharts/internal/tabular"
)

// Demo:
// - Build every chart domain from the default datasets
// - Render each one's default request on its own unit, concurrently
// - Print a summary per domain and optionally export every table as CSV
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	concurrency := flag.Int("concurrency", 4, "Units rendering at once (0=unbounded)")
	outDir := flag.String("out", "", "Optional directory to write one CSV per domain (e.g. results/)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	ds, err := defaults.Load()
	if err != nil {
		panic(err)
	}
	if cfg.DatasetsFile != "" {
		if ds, err = defaults.LoadFile(cfg.DatasetsFile); err != nil {
			panic(err)
		}
	}
	catalog := charts.NewCatalog(defaults.NewStore(ds), format.New(cfg.Palette), charts.WithMilestone(cfg.Milestone))
	h := host.New(catalog, host.WithLogger(logger), host.WithConcurrency(*concurrency))

	var jobs []host.Job
	for _, name := range catalog.Names() {
		d, _ := catalog.Domain(name)
		req, err := protocol.NewRequest(d.Actions()[0], nil)
		if err != nil {
			panic(err)
		}
		jobs = append(jobs, host.Job{Domain: name, Request: req})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	start := time.Now()
	outcomes := h.RenderAll(ctx, jobs)

	failed := 0
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fmt.Printf("%-20s FAILED  %v\n", o.Domain, o.Err)
		case o.Response.IsError():
			failed++
			fmt.Printf("%-20s ERROR   %s\n", o.Domain, o.Response.Error)
		default:
			p := o.Response.ChartData
			fmt.Printf("%-20s %-18s series=%-2d rows=%-2d %s\n",
				o.Domain, o.Response.Action, len(p.Series), len(p.TableData.Rows), o.Response.Title)
			if *outDir != "" {
				path := filepath.Join(*outDir, o.Domain+".csv")
				if err := tabular.WriteTableCSV(path, p.TableData); err != nil {
					logger.Error("write csv", zap.String("path", path), zap.Error(err))
				}
			}
		}
	}

	fmt.Printf("\nDone. Rendered %d domains in %s (%d failed)\n", len(outcomes), time.Since(start).Round(time.Millisecond), failed)
	if *outDir != "" {
		fmt.Printf("Wrote CSVs to %s\n", *outDir)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
