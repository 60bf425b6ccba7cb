// Unit tests for layer planning
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earthpath/pkg/errors"
)

func TestPlanLayersCount(t *testing.T) {
	cases := []struct {
		name        string
		height      float64
		layerHeight float64
		want        int
	}{
		{"pod at 20mm", 3.2, 0.020, 160},
		{"wall at 20mm", 3.0, 0.020, 150},
		{"exact multiple", 1.0, 0.025, 40},
		{"ceil rounds up", 1.01, 0.025, 41},
		{"shorter than one layer", 0.005, 0.020, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			layers, err := PlanLayers(c.height, c.layerHeight)
			require.NoError(t, err)
			assert.Len(t, layers, c.want)
		})
	}
}

func TestPlanLayersZValues(t *testing.T) {
	layers, err := PlanLayers(3.2, 0.020)
	require.NoError(t, err)

	// z(i) = (i+1)*layerHeight, strictly increasing, no duplicates.
	prev := 0.0
	for i, l := range layers {
		assert.Equal(t, uint32(i), l.Index)
		assert.InDelta(t, float64(i+1)*0.020, l.ZM, 1e-9)
		assert.Greater(t, l.ZM, prev)
		prev = l.ZM
	}
}

func TestPlanLayersInvalidLayerHeight(t *testing.T) {
	for _, lh := range []float64{0, -0.02} {
		_, err := PlanLayers(3.0, lh)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrConfigLayerHeight), "layer height %g", lh)
	}
}

func TestPlanLayersInvalidHeight(t *testing.T) {
	_, err := PlanLayers(-1, 0.02)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrGeometryNegative))
}
