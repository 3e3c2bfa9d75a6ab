// retailstream runs the retail sales batch pipeline: normalize raw
// transactions, roll them up by day, category and region, persist the
// aggregate table as Parquet with a versioned metadata document, and report
// the analytical query catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/xelora/retailstream/internal/config"
	"github.com/xelora/retailstream/internal/ingest"
	"github.com/xelora/retailstream/internal/logging"
	"github.com/xelora/retailstream/internal/pipeline"
	"github.com/xelora/retailstream/internal/query"
	"github.com/xelora/retailstream/internal/report"
	"github.com/xelora/retailstream/internal/shell"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	input := flag.String("input", "", "input CSV path (overrides config)")
	dataDir := flag.String("data-dir", "", "output directory (overrides config)")
	codec := flag.String("compression", "", "parquet codec: snappy, zstd, lz4, gzip, none (overrides config)")
	seed := flag.Int("seed", 0, "generate N synthetic transactions into the input path first")
	interactive := flag.Bool("interactive", false, "open a SQL prompt over the stored table after the run")
	jsonLogs := flag.Bool("json-logs", false, "log as JSON")
	verbose := flag.Bool("verbose", false, "log at debug level")
	flag.Parse()

	// Load config, falling back to defaults when no file exists
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg = config.DefaultConfig()
		} else {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI overrides
	if *input != "" {
		cfg.Input.Path = *input
	}
	if *dataDir != "" {
		cfg.Storage.DataDir = *dataDir
	}
	if *codec != "" {
		cfg.Storage.Compression.Algorithm = *codec
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}
	if *jsonLogs {
		cfg.Logging.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logLevel(cfg.Logging.Level), cfg.Logging.JSON)
	log := logging.Component("main")
	log.Info("retailstream starting", "version", Version)

	if *seed > 0 {
		log.Info("seeding synthetic transactions", "path", cfg.Input.Path, "count", *seed)
		if err := ingest.Seed(cfg.Input.Path, *seed); err != nil {
			log.Error("seed failed", "error", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		log.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	report.RenderAll(os.Stdout, res.Results)
	fmt.Println()
	report.RenderSummary(os.Stdout, res.Summary)

	if *interactive {
		if !shell.Interactive() {
			log.Warn("stdin is not a terminal, skipping interactive shell")
			return
		}
		svc, err := query.New(cfg, res.ParquetPath)
		if err != nil {
			log.Error("open query service", "error", err)
			os.Exit(1)
		}
		defer svc.Close()

		if err := shell.New(svc).Run(ctx); err != nil {
			log.Error("shell failed", "error", err)
			os.Exit(1)
		}
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
