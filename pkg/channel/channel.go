package channel

import (
	"path/filepath"

	"github.com/AgPipeline/ua-cwl-transformer/pkg/algorithm"
)

// Kind identifies one of the three output file schemas
type Kind int

const (
	// KindGeneric is the plain calculated-values CSV file; always written
	KindGeneric Kind = iota
	// KindGeostreams is the TERRA REF Geostreams compatible CSV file
	KindGeostreams
	// KindBetydb is the BETYdb compatible CSV file
	KindBetydb
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindGeostreams:
		return "geostreams"
	case KindBetydb:
		return "betydb"
	}
	return "unknown"
}

// Names of the files generated under the CSV path
const (
	FileNameCSV       = "plot.csv"
	FileNameGeoCSV    = "plot_geo.csv"
	FileNameBetydbCSV = "plot_betydb.csv"
)

// Trait names common to every algorithm, per target system
var (
	csvTraitNames = []string{"germplasmName", "site", "timestamp", "lat", "lon",
		"citation_author", "citation_year", "citation_title"}
	geoTraitNames = []string{"site", "trait", "lat", "lon", "dp_time", "source",
		"value", "timestamp"}
	betydbTraitNames = []string{"local_datetime", "access_level", "species", "site",
		"citation_author", "citation_year", "citation_title", "method"}
)

// CSVTraitNames returns the trait columns of the generic file, before the
// algorithm's variable columns
func CSVTraitNames() []string { return append([]string(nil), csvTraitNames...) }

// GeoTraitNames returns the Geostreams file columns
func GeoTraitNames() []string { return append([]string(nil), geoTraitNames...) }

// BetydbTraitNames returns the BETYdb trait columns, before the algorithm's
// variable columns
func BetydbTraitNames() []string { return append([]string(nil), betydbTraitNames...) }

// Channel pairs a schema kind with its ordered header fields
type Channel struct {
	kind   Kind
	fields []string
}

// New builds a channel with an explicit header
func New(kind Kind, fields []string) Channel {
	return Channel{kind: kind, fields: append([]string(nil), fields...)}
}

// ForGeneric builds the generic channel for an algorithm: the common trait
// columns followed by one decorated column per variable
func ForGeneric(def algorithm.Definition) Channel {
	return Channel{kind: KindGeneric, fields: append(CSVTraitNames(), def.HeaderFields()...)}
}

// ForGeostreams builds the fixed Geostreams channel
func ForGeostreams() Channel {
	return Channel{kind: KindGeostreams, fields: GeoTraitNames()}
}

// ForBetydb builds the BETYdb channel for an algorithm: the BETYdb trait
// columns followed by the raw variable names
func ForBetydb(def algorithm.Definition) Channel {
	return Channel{kind: KindBetydb, fields: append(BetydbTraitNames(), def.VariableNames...)}
}

// Kind returns the channel's schema kind
func (c Channel) Kind() Kind { return c.kind }

// Header returns the channel's ordered header fields
func (c Channel) Header() []string { return append([]string(nil), c.fields...) }

// Arity returns the number of fields a data row must carry
func (c Channel) Arity() int { return len(c.fields) }

// FileName returns the channel's output file path under the CSV directory
func (c Channel) FileName(dir string) string {
	switch c.kind {
	case KindGeostreams:
		return filepath.Join(dir, FileNameGeoCSV)
	case KindBetydb:
		return filepath.Join(dir, FileNameBetydbCSV)
	}
	return filepath.Join(dir, FileNameCSV)
}

// Override is a command line override of a channel's enablement
type Override int

const (
	// OverrideNone leaves the algorithm's setting in effect
	OverrideNone Override = iota
	// OverrideOn forces the file to be written
	OverrideOn
	// OverrideOff forces the file to be skipped
	OverrideOff
)

// Enabled resolves whether a channel's file gets written. An override wins
// over the algorithm's suppression flag; the generic channel cannot be
// turned off.
func Enabled(kind Kind, suppressed bool, override Override) bool {
	if kind == KindGeneric {
		return true
	}
	switch override {
	case OverrideOn:
		return true
	case OverrideOff:
		return false
	}
	return !suppressed
}
