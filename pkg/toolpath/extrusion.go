// Volumetric extrusion model
//
// Extrusion amounts are derived from deposited bead volume, not layer
// counters: a pass of length L deposits a bead of width w (nozzle
// diameter) and height h (layer height), and the E axis advances by
// the feedstock length whose cross-section delivers that volume.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import "math"

// Extruder tracks the absolute E axis position (mm, M82 absolute
// extrusion mode) across a print.
type Extruder struct {
	layerHeightM float64
	beadWidthM   float64
	refAreaM2    float64 // feedstock cross-section at the nozzle

	eMM float64
}

// NewExtruder builds an extruder model for the given layer height and
// nozzle diameter. The bead width is taken as the nozzle diameter and
// the feedstock reference cross-section as the nozzle bore area, the
// standard paste-extrusion calibration.
func NewExtruder(layerHeightM, nozzleDiameterM float64) *Extruder {
	r := nozzleDiameterM / 2
	return &Extruder{
		layerHeightM: layerHeightM,
		beadWidthM:   nozzleDiameterM,
		refAreaM2:    math.Pi * r * r,
	}
}

// Advance moves the E axis for a deposition pass of the given length
// in meters and returns the new absolute E position in millimeters.
func (e *Extruder) Advance(lengthM float64) float64 {
	volume := e.layerHeightM * e.beadWidthM * lengthM
	e.eMM += volume / e.refAreaM2 * 1000
	return e.eMM
}

// E returns the current absolute E position in millimeters.
func (e *Extruder) E() float64 {
	return e.eMM
}
