package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	cases := []struct {
		name   string
		params CmdParams
		want   []string
	}{
		{
			name:   "minimal invocation",
			params: CmdParams{Loglevel: "info"},
			want:   []string{"-metadata", "md/check.json", "-loglevel", "info"},
		},
		{
			name: "all options",
			params: CmdParams{
				Loglevel:      "debug",
				CSVPath:       "/output/csv",
				ConfigPath:    "run.yaml",
				Germplasm:     "PI_152923",
				GeostreamsCSV: true,
				BetydbCSV:     true,
			},
			want: []string{
				"-metadata", "md/check.json",
				"-loglevel", "debug",
				"-csv_path", "/output/csv",
				"-config", "run.yaml",
				"-geostreams_csv",
				"-betydb_csv",
				"PI_152923",
			},
		},
		{
			name:   "unset options leave no empty flags",
			params: CmdParams{Loglevel: "info", BetydbCSV: true},
			want:   []string{"-metadata", "md/check.json", "-loglevel", "info", "-betydb_csv"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, buildArgs(&tc.params, "md/check.json"))
		})
	}
}

// The transformer's flag parsing stops at the first non-flag argument, so
// the positional germplasm name must always be the final argument.
func TestBuildArgs_GermplasmIsLast(t *testing.T) {
	params := CmdParams{
		Loglevel:      "info",
		CSVPath:       "/output/csv",
		Germplasm:     "PI_152923",
		GeostreamsCSV: true,
	}

	args := buildArgs(&params, "md/check.json")
	require.NotEmpty(t, args)
	assert.Equal(t, "PI_152923", args[len(args)-1])

	for _, arg := range args[:len(args)-1] {
		if !strings.HasPrefix(arg, "-") {
			assert.NotEqual(t, "PI_152923", arg, "germplasm must not appear before the flags end")
		}
	}
}
