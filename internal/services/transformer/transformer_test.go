package transformer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AgPipeline/ua-cwl-transformer/internal/mocks"
	"github.com/AgPipeline/ua-cwl-transformer/internal/storage/output/csvfile"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/algorithm"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/channel"
	"github.com/AgPipeline/ua-cwl-transformer/pkg/metadata"
)

type stubCalculator struct {
	def    algorithm.Definition
	values []string
}

func (s stubCalculator) Definition() algorithm.Definition { return s.def }

func (s stubCalculator) Calculate(_ context.Context, _ algorithm.PlotData) ([]string, error) {
	return s.values, nil
}

func testDefinition() algorithm.Definition {
	return algorithm.Definition{
		Name:              "canopy cover",
		Version:           "1.0",
		VariableNames:     []string{"canopy_cover"},
		VariableUnits:     []string{"%"},
		SupportedFileExts: []string{"tif"},
		Citation: algorithm.Citation{
			Author: "Tester",
			Title:  "Canopy Cover",
			Year:   "2020",
		},
	}
}

func testMetadata(files []string) metadata.Check {
	return metadata.Check{
		Timestamp: "2020-01-01T12:30:00-07:00",
		Season:    "Season 6",
		ListFiles: func() []string { return files },
	}
}

func TestCheckContinue(t *testing.T) {
	calc := stubCalculator{def: testDefinition(), values: []string{"0.85"}}
	service := New(calc, csvfile.New(), Options{})

	t.Run("supported file present", func(t *testing.T) {
		err := service.CheckContinue(testMetadata([]string{"plot1/a.tif", "notes.txt"}))
		assert.NoError(t, err)
	})

	t.Run("no supported file", func(t *testing.T) {
		err := service.CheckContinue(testMetadata([]string{"notes.txt"}))
		assert.Error(t, err)
	})
}

func TestRun_ChannelSelection(t *testing.T) {
	off := false
	files := []string{"plot1/a.tif"}

	t.Run("suppressed betydb is skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		def := testDefinition()
		def.WriteBetydbCSV = &off
		calc := stubCalculator{def: def, values: []string{"0.85"}}

		writer := mocks.NewMockRowWriter(ctrl)
		service := New(calc, writer, Options{CSVDir: "out", Workers: 1})

		genericPath := filepath.Join("out", channel.FileNameCSV)
		geoPath := filepath.Join("out", channel.FileNameGeoCSV)

		writer.EXPECT().EnsureHeader(genericPath, gomock.Any()).Return(nil)
		writer.EXPECT().EnsureHeader(geoPath, gomock.Any()).Return(nil)
		writer.EXPECT().WriteRow(genericPath, gomock.Any(), gomock.Any()).Return(nil)
		writer.EXPECT().WriteRow(geoPath, gomock.Any(), gomock.Any()).Return(nil)

		result, err := service.Run(context.Background(), testMetadata(files))
		require.NoError(t, err)
		assert.Equal(t, 1, result.ProcessedFiles)
		assert.Equal(t, 2, result.RowsWritten)
	})

	t.Run("override forces suppressed betydb on", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		def := testDefinition()
		def.WriteBetydbCSV = &off
		calc := stubCalculator{def: def, values: []string{"0.85"}}

		writer := mocks.NewMockRowWriter(ctrl)
		service := New(calc, writer, Options{
			CSVDir:         "out",
			Workers:        1,
			BetydbOverride: channel.OverrideOn,
		})

		writer.EXPECT().EnsureHeader(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		writer.EXPECT().WriteRow(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

		result, err := service.Run(context.Background(), testMetadata(files))
		require.NoError(t, err)
		assert.Equal(t, 3, result.RowsWritten)
	})

	t.Run("force-off override disables geostreams", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		calc := stubCalculator{def: testDefinition(), values: []string{"0.85"}}
		writer := mocks.NewMockRowWriter(ctrl)
		service := New(calc, writer, Options{
			CSVDir:             "out",
			Workers:            1,
			GeostreamsOverride: channel.OverrideOff,
		})

		genericPath := filepath.Join("out", channel.FileNameCSV)
		betyPath := filepath.Join("out", channel.FileNameBetydbCSV)

		writer.EXPECT().EnsureHeader(genericPath, gomock.Any()).Return(nil)
		writer.EXPECT().EnsureHeader(betyPath, gomock.Any()).Return(nil)
		writer.EXPECT().WriteRow(genericPath, gomock.Any(), gomock.Any()).Return(nil)
		writer.EXPECT().WriteRow(betyPath, gomock.Any(), gomock.Any()).Return(nil)

		_, err := service.Run(context.Background(), testMetadata(files))
		require.NoError(t, err)
	})
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	calc := stubCalculator{def: testDefinition(), values: []string{"0.85"}}
	service := New(calc, csvfile.New(), Options{
		CSVDir:    dir,
		Germplasm: "PI_152923",
		Workers:   2,
	})

	md := testMetadata([]string{"plot1/a.tif", "plot2/b.tif", "skipped.txt"})
	result, err := service.Run(context.Background(), md)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalFiles)
	assert.Equal(t, 2, result.ProcessedFiles)
	assert.Equal(t, 6, result.RowsWritten)

	genericLines := readLines(t, filepath.Join(dir, channel.FileNameCSV))
	require.Len(t, genericLines, 3)
	assert.Equal(t,
		"germplasmName,site,timestamp,lat,lon,citation_author,citation_year,citation_title,canopy_cover (%)",
		genericLines[0])
	assert.Contains(t, genericLines[1:], "PI_152923,plot1,2020-01-01T12:30:00,,,Tester,2020,Canopy Cover,0.85")
	assert.Contains(t, genericLines[1:], "PI_152923,plot2,2020-01-01T12:30:00,,,Tester,2020,Canopy Cover,0.85")

	geoLines := readLines(t, filepath.Join(dir, channel.FileNameGeoCSV))
	require.Len(t, geoLines, 3)
	assert.Equal(t, "site,trait,lat,lon,dp_time,source,value,timestamp", geoLines[0])
	assert.Contains(t, geoLines[1:], "plot1,canopy_cover,,,2020-01-01T12:30:00,canopy cover,0.85,2020-01-01")

	betyLines := readLines(t, filepath.Join(dir, channel.FileNameBetydbCSV))
	require.Len(t, betyLines, 3)
	assert.Equal(t,
		"local_datetime,access_level,species,site,citation_author,citation_year,citation_title,method,canopy_cover",
		betyLines[0])
	assert.Contains(t, betyLines[1:], "2020-01-01T12:30:00,2,Unknown,plot1,Tester,2020,Canopy Cover,Unknown,0.85")
}

func TestRun_ValueArityMismatch(t *testing.T) {
	dir := t.TempDir()
	calc := stubCalculator{def: testDefinition(), values: []string{"0.85", "extra"}}
	service := New(calc, csvfile.New(), Options{CSVDir: dir, Workers: 1})

	_, err := service.Run(context.Background(), testMetadata([]string{"plot1/a.tif"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect number of values")
}

func TestPlotName(t *testing.T) {
	assert.Equal(t, "plot1", plotName(filepath.Join("work", "plot1", "a.tif")))
	assert.Equal(t, "a", plotName("a.tif"))
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}
