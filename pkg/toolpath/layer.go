// Layer planning
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"

	"earthpath/pkg/errors"
)

// Layer is one horizontal slice of the print.
type Layer struct {
	Index uint32
	ZM    float64
}

// countEpsilon absorbs float rounding so that heights which are exact
// multiples of the layer height do not gain a spurious extra layer.
const countEpsilon = 1e-9

// PlanLayers slices a vertical extent into discrete print layers.
// layer_count = ceil(height / layerHeight); z(i) = (i+1)*layerHeight,
// strictly increasing with no duplicates.
func PlanLayers(heightM, layerHeightM float64) ([]Layer, error) {
	if layerHeightM <= 0 || math.IsNaN(layerHeightM) {
		return nil, errors.InvalidLayerHeightError(layerHeightM)
	}
	if heightM <= 0 || math.IsNaN(heightM) {
		return nil, errors.NegativeDimensionError("height", heightM)
	}

	count := int(math.Ceil(heightM/layerHeightM - countEpsilon))
	if count < 1 {
		count = 1
	}

	layers := make([]Layer, count)
	for i := 0; i < count; i++ {
		layers[i] = Layer{
			Index: uint32(i),
			ZM:    float64(i+1) * layerHeightM,
		}
	}
	return layers, nil
}
