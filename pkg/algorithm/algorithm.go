package algorithm

import (
	"context"
	"fmt"
	"strings"

	"github.com/AgPipeline/ua-cwl-transformer/pkg/logger"
)

// Citation identifies the publication associated with an algorithm's output
type Citation struct {
	Author string
	Title  string
	Year   string
}

// Definition describes a plot-level algorithm to the runtime environment.
// A nil WriteGeostreamsCSV/WriteBetydbCSV flag means the file is written;
// setting the flag to false suppresses that file unless a command line
// override forces it back on.
type Definition struct {
	Name        string
	Version     string
	Description string
	Author      string
	AuthorEmail string
	Method      string

	// One entry per value the algorithm produces. Units and labels are
	// positional and optional; length mismatches are tolerated.
	VariableNames  []string
	VariableUnits  []string
	VariableLabels []string

	Citation Citation

	// File extensions (without the dot) the algorithm can process
	SupportedFileExts []string

	WriteGeostreamsCSV *bool
	WriteBetydbCSV     *bool
}

// DisplayName returns the algorithm name, or a placeholder when unset
func (d Definition) DisplayName() string {
	if strings.TrimSpace(d.Name) == "" {
		return "unknown algorithm"
	}
	return d.Name
}

// SuppressGeostreams reports whether the algorithm turned the Geostreams file off
func (d Definition) SuppressGeostreams() bool {
	return d.WriteGeostreamsCSV != nil && !*d.WriteGeostreamsCSV
}

// SuppressBetydb reports whether the algorithm turned the BETYdb file off
func (d Definition) SuppressBetydb() bool {
	return d.WriteBetydbCSV != nil && !*d.WriteBetydbCSV
}

// HeaderFields returns one header field per variable, decorated with the
// positional label and unit when present: "name label (unit)".
func (d Definition) HeaderFields() []string {
	if len(d.VariableUnits) > 0 && len(d.VariableUnits) != len(d.VariableNames) {
		logger.Warn("the number of variable units doesn't match the number of variable names")
		logger.Warn("continuing with defined variable units")
	}
	if len(d.VariableLabels) > 0 && len(d.VariableLabels) != len(d.VariableNames) {
		logger.Warn("the number of variable labels doesn't match the number of variable names")
		logger.Warn("continuing with defined variable labels")
	}

	fields := make([]string, 0, len(d.VariableNames))
	for idx, name := range d.VariableNames {
		field := name
		if idx < len(d.VariableLabels) {
			field += " " + d.VariableLabels[idx]
		}
		if idx < len(d.VariableUnits) {
			field += " (" + d.VariableUnits[idx] + ")"
		}
		fields = append(fields, field)
	}
	return fields
}

// ValidateValues checks that the algorithm produced exactly one value per
// declared variable
func (d Definition) ValidateValues(values []string) error {
	if len(values) != len(d.VariableNames) {
		return fmt.Errorf("incorrect number of values returned: expected %d and received %d",
			len(d.VariableNames), len(values))
	}
	return nil
}

// PlotData identifies one plot-level input file for an algorithm run
type PlotData struct {
	// Path of the file to process
	Path string
	// Name of the plot the file was clipped to
	PlotName string
	// Name of the cultivar associated with the plot
	Germplasm string
	// ISO timestamp of the capture
	Timestamp string
}

// Calculator is the contract downstream algorithm implementations fulfill.
// Calculate returns one value per Definition.VariableNames entry.
type Calculator interface {
	Definition() Definition
	Calculate(ctx context.Context, plot PlotData) ([]string, error)
}
