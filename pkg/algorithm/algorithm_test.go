package algorithm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderFields(t *testing.T) {
	t.Run("names with labels and units", func(t *testing.T) {
		def := Definition{
			VariableNames:  []string{"canopy_cover", "height"},
			VariableUnits:  []string{"%", "m"},
			VariableLabels: []string{"ratio", "mean"},
		}
		assert.Equal(t, []string{"canopy_cover ratio (%)", "height mean (m)"}, def.HeaderFields())
	})

	t.Run("missing units and labels are tolerated", func(t *testing.T) {
		def := Definition{
			VariableNames: []string{"canopy_cover", "height"},
			VariableUnits: []string{"%"},
		}
		assert.Equal(t, []string{"canopy_cover (%)", "height"}, def.HeaderFields())
	})
}

func TestValidateValues(t *testing.T) {
	def := Definition{VariableNames: []string{"a", "b"}}

	assert.NoError(t, def.ValidateValues([]string{"1", "2"}))
	assert.Error(t, def.ValidateValues([]string{"1"}))
	assert.Error(t, def.ValidateValues(nil))
}

func TestSuppressionFlags(t *testing.T) {
	off := false
	on := true

	assert.False(t, Definition{}.SuppressGeostreams(), "unset means write enabled")
	assert.False(t, Definition{}.SuppressBetydb())
	assert.True(t, Definition{WriteGeostreamsCSV: &off}.SuppressGeostreams())
	assert.True(t, Definition{WriteBetydbCSV: &off}.SuppressBetydb())
	assert.False(t, Definition{WriteBetydbCSV: &on}.SuppressBetydb())
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "unknown algorithm", Definition{}.DisplayName())
	assert.Equal(t, "canopy cover", Definition{Name: "canopy cover"}.DisplayName())
}

type stubCalculator struct {
	def Definition
}

func (s stubCalculator) Definition() Definition { return s.def }

func (s stubCalculator) Calculate(context.Context, PlotData) ([]string, error) {
	return nil, nil
}

func TestRegistry(t *testing.T) {
	registered = nil
	_, err := Registered()
	require.ErrorIs(t, err, ErrNoAlgorithm)

	stub := stubCalculator{def: Definition{Name: "stub"}}
	Register(stub)
	calc, err := Registered()
	require.NoError(t, err)
	assert.Equal(t, "stub", calc.Definition().Name)
}
