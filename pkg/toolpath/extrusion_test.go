// Unit tests for the volumetric extrusion model
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtruderVolumetric(t *testing.T) {
	// 20mm layers from a 40mm nozzle: bead cross-section is
	// h*w = 0.020*0.040 m2, feedstock reference area pi*(0.020)^2.
	ext := NewExtruder(0.020, 0.040)

	e1 := ext.Advance(1.0)
	want := 0.020 * 0.040 * 1.0 / (math.Pi * 0.020 * 0.020) * 1000
	assert.InDelta(t, want, e1, 1e-9)

	// Linear in pass length, accumulating absolutely.
	e2 := ext.Advance(2.0)
	assert.InDelta(t, 3*want, e2, 1e-9)
	assert.Equal(t, e2, ext.E())
}

func TestExtruderMonotonic(t *testing.T) {
	ext := NewExtruder(0.015, 0.035)
	prev := 0.0
	for i := 0; i < 50; i++ {
		e := ext.Advance(0.5)
		assert.Greater(t, e, prev)
		prev = e
	}
}

func TestExtruderProportionalToLayerHeight(t *testing.T) {
	thin := NewExtruder(0.010, 0.040)
	thick := NewExtruder(0.020, 0.040)
	assert.InDelta(t, 2*thin.Advance(1), thick.Advance(1), 1e-9)
}
