package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"

	"github.com/ironsheep/ocr-keyword-mcp/internal/config"
	"github.com/ironsheep/ocr-keyword-mcp/internal/imaging"
	"github.com/ironsheep/ocr-keyword-mcp/internal/intake"
	"github.com/ironsheep/ocr-keyword-mcp/internal/keyword"
	"github.com/ironsheep/ocr-keyword-mcp/internal/ocr"
	"github.com/ironsheep/ocr-keyword-mcp/internal/server"
	"github.com/ironsheep/ocr-keyword-mcp/internal/view"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("ocr-keyword-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Tesseract:  %s\n", ocr.TesseractVersion())
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg := config.Load()

	// Logging goes to stderr; stdout is for MCP protocol
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: "15:04:05",
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Runs until the client closes stdin.
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting OCR keyword MCP server",
		"version", Version,
		"commit", GitCommit,
		"language", cfg.OCR.Language,
		"workers", cfg.OCR.Workers,
	)

	scheduler := ocr.NewScheduler(ocr.WithSchedulerLogger(logger))
	defer func() {
		if err := scheduler.Terminate(); err != nil {
			logger.Warn("failed to terminate OCR workers", "error", err)
		}
	}()

	for i := 0; i < cfg.OCR.Workers; i++ {
		w := ocr.NewTesseractWorker(cfg.OCR.TessdataDir)
		if err := ocr.Setup(ctx, w, cfg.OCR.Language); err != nil {
			w.Terminate()
			return fmt.Errorf("set up OCR worker %d: %w", i, err)
		}
		if _, err := scheduler.AddWorker(w); err != nil {
			w.Terminate()
			return err
		}
	}

	surface := view.New()
	gallery := intake.NewGallery(surface)
	builder := imaging.NewBuilder(gallery,
		imaging.WithThumbnailSize(cfg.Intake.ThumbnailSize),
		imaging.WithMaxBytes(cfg.Intake.MaxFileBytes),
		imaging.WithLogger(logger),
	)
	controller := intake.New(surface, builder, scheduler, keyword.NewField(cfg.Keywords.MatchTimeout),
		intake.WithLogger(logger),
		intake.WithErrorFlash(cfg.Intake.ErrorFlash),
		intake.WithBatchHistory(cfg.Intake.BatchHistory),
	)
	defer controller.Wait()

	srv, err := server.New(controller, gallery,
		server.WithLogger(logger),
		server.WithVersion(Version),
		server.WithEngineInfo(func() ocr.Info {
			return scheduler.Info(cfg.OCR.Language)
		}),
	)
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}

func printHelp() {
	fmt.Println("ocr-keyword-mcp - MCP server that OCRs images and lists keyword matches")
	fmt.Println()
	fmt.Println("Usage: ocr-keyword-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %-24s Log level: debug, info, warn, error (default info)\n", config.EnvLogLevel)
	fmt.Printf("  %-24s Tesseract language, e.g. eng or eng+deu (default eng)\n", config.EnvLanguage)
	fmt.Printf("  %-24s Directory holding *.traineddata files\n", config.EnvTessdata)
	fmt.Printf("  %-24s Number of OCR workers (default 1)\n", config.EnvWorkers)
	fmt.Printf("  %-24s How long a failed batch shows the error state (default 3s)\n", config.EnvErrorFlash)
	fmt.Printf("  %-24s Longest thumbnail side in pixels (default 160)\n", config.EnvThumbnailSize)
	fmt.Printf("  %-24s Largest file accepted, in bytes (default 33554432)\n", config.EnvMaxFileBytes)
	fmt.Printf("  %-24s Keyword match time limit (default 2s)\n", config.EnvMatchTimeout)
	fmt.Printf("  %-24s Finished batch results kept for scan_state (default 100)\n", config.EnvBatchHistory)
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
