// Command converter reformats a downloaded "Gilts in Issue" workbook
// into the normalized CSV layout.
//
// Usage:
//
//	converter [workbook] [output-dir]
//
// With no arguments the most recently downloaded workbook in the data
// directory is converted. The output directory defaults to the CSV
// exports directory next to the executable.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"giltscli/internal/app"
	"giltscli/internal/config"
	"giltscli/internal/files"
	"giltscli/internal/infrastructure"
)

func main() {
	if len(os.Args) > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s [workbook] [output-dir]\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Printf("Error: Failed to initialize paths: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("converter.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	var workbook string
	if len(os.Args) > 1 {
		workbook = os.Args[1]
	} else {
		// No explicit workbook: convert the latest download.
		workbook, err = files.LatestWorkbook(paths.DownloadsDir)
		if err != nil {
			logger.Error("No workbook to convert",
				slog.String("downloads_dir", paths.DownloadsDir),
				slog.String("error", err.Error()))
			fmt.Println("Failed to create CSV file.")
			os.Exit(1)
		}
	}

	outputDir := paths.ExportsDir
	if len(os.Args) > 2 {
		outputDir = os.Args[2]
	}

	logger.Info("Converting workbook",
		slog.String("workbook", workbook),
		slog.String("output_dir", outputDir))

	csvPath, err := app.Convert(workbook, outputDir, time.Now)
	if err != nil {
		logger.Error("Conversion failed",
			slog.String("workbook", workbook),
			slog.String("error", err.Error()))
		fmt.Printf("Error converting file: %v\n", err)
		fmt.Println("Failed to create CSV file.")
		os.Exit(1)
	}

	logger.Info("Conversion complete", slog.String("csv_path", csvPath))
	fmt.Printf("CSV file created at: %s\n", csvPath)
}
