package transformer

import (
	"github.com/AgPipeline/ua-cwl-transformer/pkg/algorithm"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/channel"
)

// Mapping of default trait names to fixed values
var traitDefaults = map[string]string{
	"access_level":    "2",
	"species":         "Unknown",
	"citation_author": `"Unknown"`,
	"citation_year":   "0000",
	"citation_title":  "Unknown",
	"method":          "Unknown",
}

// defaultTrait returns the configured default value for a trait name, or an
// empty string when none is configured
func defaultTrait(name string) string {
	if value, ok := traitDefaults[name]; ok {
		return value
	}
	return ""
}

// rowContext carries the per-file values shared by every channel row
type rowContext struct {
	plot      algorithm.PlotData
	date      string
	localTime string
	lat       string
	lon       string
}

// citationTraits folds the algorithm's citation information over the
// compiled-in defaults
func citationTraits(def algorithm.Definition) map[string]string {
	traits := map[string]string{
		"citation_author": defaultTrait("citation_author"),
		"citation_year":   defaultTrait("citation_year"),
		"citation_title":  defaultTrait("citation_title"),
		"method":          defaultTrait("method"),
	}
	if def.Citation.Author != "" {
		traits["citation_author"] = def.Citation.Author
	}
	if def.Citation.Year != "" {
		traits["citation_year"] = def.Citation.Year
	}
	if def.Citation.Title != "" {
		traits["citation_title"] = def.Citation.Title
	}
	if def.Method != "" {
		traits["method"] = def.Method
	}
	return traits
}

// traitsList composes row values in field order, falling back to the trait
// defaults for fields the traits table does not carry
func traitsList(fields []string, traits map[string]string) []string {
	row := make([]string, 0, len(fields))
	for _, field := range fields {
		if value, ok := traits[field]; ok {
			row = append(row, value)
		} else {
			row = append(row, defaultTrait(field))
		}
	}
	return row
}

// genericRow builds one data row for the generic CSV file: the common trait
// columns followed by the calculated values
func genericRow(def algorithm.Definition, rc rowContext, values []string) []string {
	traits := citationTraits(def)
	traits["germplasmName"] = rc.plot.Germplasm
	traits["site"] = rc.plot.PlotName
	traits["timestamp"] = rc.localTime
	traits["lat"] = rc.lat
	traits["lon"] = rc.lon

	return append(traitsList(channel.CSVTraitNames(), traits), values...)
}

// geostreamsRows builds one Geostreams row per variable
func geostreamsRows(def algorithm.Definition, rc rowContext, values []string) [][]string {
	rows := make([][]string, 0, len(values))
	for idx, name := range def.VariableNames {
		traits := map[string]string{
			"site":      rc.plot.PlotName,
			"trait":     name,
			"lat":       rc.lat,
			"lon":       rc.lon,
			"dp_time":   rc.localTime,
			"source":    def.DisplayName(),
			"value":     values[idx],
			"timestamp": rc.date,
		}
		rows = append(rows, traitsList(channel.GeoTraitNames(), traits))
	}
	return rows
}

// betydbRow builds one data row for the BETYdb file: the BETYdb trait
// columns followed by the calculated values
func betydbRow(def algorithm.Definition, rc rowContext, values []string) []string {
	traits := citationTraits(def)
	traits["local_datetime"] = rc.localTime
	traits["site"] = rc.plot.PlotName

	return append(traitsList(channel.BetydbTraitNames(), traits), values...)
}
