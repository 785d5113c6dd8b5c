package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urbansense/siteimpact/internal/config"
	"github.com/urbansense/siteimpact/internal/database"
	"github.com/urbansense/siteimpact/internal/osm"
	"github.com/urbansense/siteimpact/internal/repository"
	"github.com/urbansense/siteimpact/internal/service"
	"github.com/urbansense/siteimpact/internal/uoapi"
	"github.com/urbansense/siteimpact/internal/viz"
)

func main() {
	var (
		importCSV   = flag.String("import", "", "import a readings CSV into the local archive before running")
		archiveOnly = flag.Bool("archive-only", false, "read time series from the local archive instead of the live API")
		outDir      = flag.String("out", "", "output directory for charts and the run summary (default OUTPUT_DIR)")
		timeout     = flag.Duration("timeout", 30*time.Minute, "overall pipeline deadline")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	readings := repository.NewReadingsRepository(db)

	if *importCSV != "" {
		imported, err := repository.ImportArchiveCSV(*importCSV, nil)
		if err != nil {
			log.Fatal("Failed to import archive CSV:", err)
		}
		if err := readings.Upsert(imported); err != nil {
			log.Fatal("Failed to store imported readings:", err)
		}
		log.Printf("imported %d readings from %s", len(imported), *importCSV)
	}

	source := uoapi.NewClient(nil, cfg.UOBaseURL, cfg.BoundaryURL)
	streets := osm.NewClient(cfg.OverpassURL, 0)

	svc := service.NewAnalysisService(cfg, source, streets, readings, repository.NewRunsRepository(db))
	if *archiveOnly {
		svc.UseArchiveOnly()
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatal("Analysis run failed:", err)
	}

	if err := writeOutputs(cfg.OutputDir, result); err != nil {
		log.Fatal("Failed to write outputs:", err)
	}

	log.Printf("run %s complete: %d sensors, %d roads, outputs in %s",
		result.RunID, len(result.Sensors), len(result.Roads), cfg.OutputDir)
	if len(result.FailedSensors) > 0 {
		log.Printf("sensors skipped after fetch failures: %s", strings.Join(result.FailedSensors, ", "))
	}
}

// writeOutputs renders the charts and a machine-readable summary into dir.
func writeOutputs(dir string, result *service.Result) error {
	if err := viz.WriteReport(dir, result.Correlation, result.Decomposition, result.Cleaned, journeyTimeColumns(result)); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "summary.json"))
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

func journeyTimeColumns(result *service.Result) []string {
	if result.Cleaned == nil {
		return nil
	}
	var out []string
	for _, name := range result.Cleaned.Columns {
		if strings.HasSuffix(name, "_Journey Time") {
			out = append(out, name)
		}
	}
	return out
}
