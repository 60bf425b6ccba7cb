// Print time and material estimation
//
// Print time here is virtual: it advances with the motion queue at
// the commanded feed rates, with a fixed dwell added per layer for
// the bead to stabilize before the nozzle climbs.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

// Package estimate computes print duration and material quantities
// for a planned toolpath.
package estimate

import (
	"math"
	"time"

	"earthpath/pkg/material"
	"earthpath/pkg/profile"
	"earthpath/pkg/toolpath"
)

// Seconds of settle time added per layer. Wet earth beads need a
// moment before carrying the next layer's weight.
const layerDwellSec = 2.0

// Fallback feed when a move carries no F word, in mm/min.
const defaultFeedMMMin = 3000.0

// Summary is the estimate for one toolpath.
type Summary struct {
	Duration   time.Duration `json:"duration_ns"`
	LayerCount int           `json:"layer_count"`
	TravelM    float64       `json:"travel_m"`
	DepositedM float64       `json:"deposited_m"`
	VolumeM3   float64       `json:"volume_m3"`
	MaterialKg float64       `json:"material_kg"`
}

// Compute walks the toolpath and accumulates virtual print time and
// deposited material. Deposited volume uses the printer's bead
// cross-section (layer height by nozzle diameter).
func Compute(tp *toolpath.Toolpath, prof profile.Profile, layerHeightM float64) Summary {
	if layerHeightM <= 0 {
		layerHeightM = prof.DefaultLayerHeightM()
	}
	beadArea := layerHeightM * prof.NozzleDiameterM()

	var (
		seconds   float64
		travel    float64
		deposited float64
		x, y, z   float64
		feed      = defaultFeedMMMin
	)

	for _, step := range tp.Steps {
		for _, mv := range step.Moves {
			var lengthM float64
			var extrude bool

			switch m := mv.(type) {
			case toolpath.LinearMove:
				nz := z
				if m.HasZ {
					nz = m.Z
				}
				lengthM = dist3(x, y, z, m.X, m.Y, nz)
				x, y, z = m.X, m.Y, nz
				if m.Feed > 0 {
					feed = m.Feed
				}
				extrude = m.Extrude
			case toolpath.ArcMove:
				lengthM = arcLength(x, y, m)
				nz := z
				if m.HasZ {
					nz = m.Z
				}
				lengthM = math.Hypot(lengthM, nz-z)
				x, y, z = m.X, m.Y, nz
				if m.Feed > 0 {
					feed = m.Feed
				}
				extrude = m.Extrude
			default:
				continue
			}

			// feed is mm/min over a length in meters
			seconds += lengthM * 1000.0 / (feed / 60.0)
			if extrude {
				deposited += lengthM
			} else {
				travel += lengthM
			}
		}
		seconds += layerDwellSec
	}

	volume := deposited * beadArea
	return Summary{
		Duration:   time.Duration(seconds * float64(time.Second)),
		LayerCount: tp.LayerCount(),
		TravelM:    travel,
		DepositedM: deposited,
		VolumeM3:   volume,
		MaterialKg: volume * material.DensityKgM3,
	}
}

// arcLength returns the planar length of an arc from the current
// position. Coincident endpoints mean a full circle.
func arcLength(x, y float64, m toolpath.ArcMove) float64 {
	cx, cy := x+m.I, y+m.J
	r := math.Hypot(m.I, m.J)
	if r == 0 {
		return 0
	}

	if math.Abs(m.X-x) < 1e-12 && math.Abs(m.Y-y) < 1e-12 {
		return 2 * math.Pi * r
	}

	a0 := math.Atan2(y-cy, x-cx)
	a1 := math.Atan2(m.Y-cy, m.X-cx)
	sweep := a1 - a0
	if m.Direction == toolpath.CW {
		sweep = -sweep
	}
	for sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return r * sweep
}

func dist3(x0, y0, z0, x1, y1, z1 float64) float64 {
	dx, dy, dz := x1-x0, y1-y0, z1-z0
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
