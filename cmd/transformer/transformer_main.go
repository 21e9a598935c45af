package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/AgPipeline/ua-cwl-transformer/internal/services/transformer"
	"github.com/AgPipeline/ua-cwl-transformer/internal/storage/output/csvfile"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/algorithm"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/channel"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/config"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/helper"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/logger"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/metadata"
)

func main() {

	// Parse command line arguments
	logLevel := flag.String("loglevel", "", "Logging level (debug, info, warn, error)")
	configPath := flag.String("config", "", "Path to optional YAML run configuration file")
	metadataPath := flag.String("metadata", "", "Path to check metadata JSON file (required)")
	csvPath := flag.String("csv_path", "", "The path to use when generating the CSV files")
	geoOn := flag.Bool("geostreams_csv", false, "Override to always create the TERRA REF Geostreams compatible CSV file")
	geoOff := flag.Bool("no_geostreams_csv", false, "Override to never create the TERRA REF Geostreams compatible CSV file")
	betyOn := flag.Bool("betydb_csv", false, "Override to always create the BETYdb compatible CSV file")
	betyOff := flag.Bool("no_betydb_csv", false, "Override to never create the BETYdb compatible CSV file")
	workers := flag.Int("workers", 0, "Number of worker threads (0 = one per CPU)")
	flag.Parse()

	// Show help if the metadata path is missing
	if *metadataPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load the optional run configuration
	cfg := &config.Config{}
	if *configPath != "" {
		if _, err := os.Stat(*configPath); os.IsNotExist(err) {
			logger.Error("Configuration file %s does not exist", *configPath)
			os.Exit(1)
		}
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Error("Error reading run config: %v", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if *logLevel != "" {
		logger.Initialize(*logLevel)
	} else {
		logger.Initialize(cfg.LogLevel)
	}

	if _, err := os.Stat(*metadataPath); os.IsNotExist(err) {
		logger.Error("Metadata file %s does not exist", *metadataPath)
		os.Exit(1)
	}
	md, err := metadata.Load(*metadataPath)
	if err != nil {
		logger.Error("Error loading check metadata: %v", err)
		os.Exit(1)
	}

	calc, err := algorithm.Registered()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	// Determine the CSV output directory: flag, then config, then the
	// working folder from the metadata
	csvDir := *csvPath
	if csvDir == "" {
		csvDir = helper.FirstExistingDir(cfg.CSVPaths)
	}
	if csvDir == "" {
		csvDir = md.WorkingFolder
	}
	if csvDir == "" {
		logger.Error("No CSV output path available; use -csv_path")
		os.Exit(1)
	}

	germplasm := flag.Arg(0)
	if germplasm == "" {
		germplasm = cfg.Germplasm
	}

	runWorkers := *workers
	if runWorkers == 0 {
		runWorkers = cfg.Workers
	}

	service := transformer.New(calc, csvfile.New(), transformer.Options{
		CSVDir:             csvDir,
		Germplasm:          germplasm,
		Sensor:             cfg.Sensor,
		GeostreamsOverride: resolveOverride(*geoOn, *geoOff, cfg.GeostreamsCSV),
		BetydbOverride:     resolveOverride(*betyOn, *betyOff, cfg.BetydbCSV),
		Workers:            runWorkers,
	})

	if err := service.CheckContinue(md); err != nil {
		logger.Error("Not continuing: %v", err)
		os.Exit(1)
	}

	// Record start time
	startTime := time.Now()
	result, err := service.Run(context.Background(), md)
	if err != nil {
		logger.Error("Transformer run failed: %v", err)
		os.Exit(1)
	}

	// Calculate and print execution time
	executionTime := time.Since(startTime)
	logger.Info("Processed %d of %d files, wrote %d rows in %s",
		result.ProcessedFiles, result.TotalFiles, result.RowsWritten, executionTime)
	logger.Info("Transformer completed successfully")
}

// resolveOverride folds the force-on/force-off flags and the config file
// setting into a channel override; the flags win over the config file
func resolveOverride(forceOn bool, forceOff bool, cfgSetting *bool) channel.Override {
	switch {
	case forceOn:
		return channel.OverrideOn
	case forceOff:
		return channel.OverrideOff
	case cfgSetting != nil && *cfgSetting:
		return channel.OverrideOn
	case cfgSetting != nil:
		return channel.OverrideOff
	}
	return channel.OverrideNone
}
