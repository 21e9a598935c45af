package transformer

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AgPipeline/ua-cwl-transformer/pkg/algorithm"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/channel"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/helper"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/logger"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/metadata"
	og "github.com/AgPipeline/ua-cwl-transformer/pkg/storage/output/generic"
)

// Options configure a transformer run
type Options struct {
	// CSVDir is the directory the channel files are written under
	CSVDir string

	// Germplasm is the cultivar name associated with the plots
	Germplasm string

	// Sensor the processed files were captured by
	Sensor string

	// Command line overrides for the optional channels
	GeostreamsOverride channel.Override
	BetydbOverride     channel.Override

	// Workers bounds per-file concurrency; 0 means one worker per CPU
	Workers int
}

// target pairs an enabled channel with its output path
type target struct {
	ch   channel.Channel
	path string
}

// Service runs a plot-level algorithm over the files named by the check
// metadata and appends its output to every enabled channel file
type Service struct {
	calc   algorithm.Calculator
	writer og.RowWriter
	opts   Options
}

// New creates a new transformer service instance
func New(calc algorithm.Calculator, writer og.RowWriter, opts Options) *Service {
	return &Service{
		calc:   calc,
		writer: writer,
		opts:   opts,
	}
}

// Result summarizes a completed run
type Result struct {
	TotalFiles     int
	ProcessedFiles int
	RowsWritten    int
	Sensor         string
	UTCTimestamp   string
	ProcessingTime string
}

// CheckContinue reports whether conditions are right for processing: at
// least one file in the metadata list must have a supported extension
func (s *Service) CheckContinue(md metadata.Check) error {
	def := s.calc.Definition()
	matched := helper.FilterFilesByExt(md.ListFiles(), def.SupportedFileExts)
	if len(matched) == 0 {
		logger.Debug("no supported file found in list of files; supported types are: %s",
			strings.Join(def.SupportedFileExts, ", "))
		return fmt.Errorf("unable to find a supported file in the list of files")
	}
	return nil
}

// targets resolves which channel files this run writes
func (s *Service) targets(def algorithm.Definition) []target {
	targets := []target{
		{ch: channel.ForGeneric(def)},
	}
	if channel.Enabled(channel.KindGeostreams, def.SuppressGeostreams(), s.opts.GeostreamsOverride) {
		targets = append(targets, target{ch: channel.ForGeostreams()})
	}
	if channel.Enabled(channel.KindBetydb, def.SuppressBetydb(), s.opts.BetydbOverride) {
		targets = append(targets, target{ch: channel.ForBetydb(def)})
	}
	for idx := range targets {
		targets[idx].path = targets[idx].ch.FileName(s.opts.CSVDir)
	}
	return targets
}

// Run executes the transformer service
func (s *Service) Run(ctx context.Context, md metadata.Check) (Result, error) {
	startTime := time.Now()
	def := s.calc.Definition()

	files := md.ListFiles()
	process := helper.FilterFilesByExt(files, def.SupportedFileExts)
	logger.Info("found %d files to process", len(process))

	date, localTime, err := metadata.SplitTimestamp(md.Timestamp)
	if err != nil {
		return Result{}, err
	}

	var contextList []map[string]interface{}
	if md.Context != nil {
		contextList = append(contextList, md.Context)
	}
	lat := metadata.FindValue(contextList, "lat", "latitude")
	lon := metadata.FindValue(contextList, "lon", "longitude")

	targets := s.targets(def)
	for _, tgt := range targets {
		logger.Debug("writing %s channel to %s", tgt.ch.Kind(), tgt.path)
		if err := s.writer.EnsureHeader(tgt.path, tgt.ch); err != nil {
			return Result{}, err
		}
	}

	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	processed := 0
	rowsWritten := 0

	for _, file := range process {
		file := file
		g.Go(func() error {
			plot := algorithm.PlotData{
				Path:      file,
				PlotName:  plotName(file),
				Germplasm: s.opts.Germplasm,
				Timestamp: md.Timestamp,
			}

			values, err := s.calc.Calculate(gctx, plot)
			if err != nil {
				return fmt.Errorf("calculating values for %s: %w", file, err)
			}
			if err := def.ValidateValues(values); err != nil {
				return err
			}

			rc := rowContext{plot: plot, date: date, localTime: localTime, lat: lat, lon: lon}
			wrote := 0
			for _, tgt := range targets {
				switch tgt.ch.Kind() {
				case channel.KindGeneric:
					if err := s.writer.WriteRow(tgt.path, tgt.ch, genericRow(def, rc, values)); err != nil {
						return err
					}
					wrote++
				case channel.KindGeostreams:
					for _, row := range geostreamsRows(def, rc, values) {
						if err := s.writer.WriteRow(tgt.path, tgt.ch, row); err != nil {
							return err
						}
						wrote++
					}
				case channel.KindBetydb:
					if err := s.writer.WriteRow(tgt.path, tgt.ch, betydbRow(def, rc, values)); err != nil {
						return err
					}
					wrote++
				}
			}

			mu.Lock()
			processed++
			rowsWritten += wrote
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		TotalFiles:     len(files),
		ProcessedFiles: processed,
		RowsWritten:    rowsWritten,
		Sensor:         s.opts.Sensor,
		UTCTimestamp:   time.Now().UTC().Format(time.RFC3339),
		ProcessingTime: time.Since(startTime).String(),
	}, nil
}

// plotName derives the plot name from the file location. Plot-level files
// live one folder per plot under the working folder; a file without such a
// folder falls back to its own base name.
func plotName(path string) string {
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		base := filepath.Base(path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return dir
}
