// Honeycomb infill synthesis
//
// Generates concentric hexagonal rings filling the annulus between an
// inner and outer wall surface. Cell count scales with
// (outer - inner) / hex_size.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"fmt"
	"math"
)

// DefaultHexSizeM is the honeycomb cell size: 150mm hexagons.
const DefaultHexSizeM = 0.15

// ringStep is the radial distance between consecutive hex rings,
// as a multiple of the hex size.
const ringStep = 1.5

// HoneycombRings emits the concentric hexagonal ring moves for the
// annulus [innerR, outerR] at height z. Ring radii follow
// r0 = innerR + hex, r(k+1) = r(k) + 1.5*hex while r < outerR - hex/2.
// Each ring is 6 vertices at 60 degree increments plus a closing move
// back to the start. A degenerate annulus emits zero rings.
//
// The extruder accumulates absolute E across the ring perimeter; pass
// nil to emit travel-only rings.
func HoneycombRings(innerR, outerR, z, feed float64, hexSize float64, ext *Extruder) []MotionPrimitive {
	if hexSize <= 0 {
		hexSize = DefaultHexSizeM
	}

	moves := []MotionPrimitive{Comment("Honeycomb infill layer")}

	ring := 0
	for r := innerR + hexSize; r < outerR-hexSize/2; r += hexSize * ringStep {
		ring++
		moves = append(moves, Comment(fmt.Sprintf("Hex ring %d at r=%.3fm", ring, r)))

		// Hexagon side length equals the circumradius r.
		var prevX, prevY float64
		for i := 0; i <= 6; i++ {
			angle := float64(i) * math.Pi / 3
			x := r * math.Cos(angle)
			y := r * math.Sin(angle)

			move := LinearMove{X: x, Y: y}
			if i == 0 {
				// Travel to the ring start, restating Z.
				move.Z = z
				move.HasZ = true
				move.Feed = feed
			} else if ext != nil {
				side := math.Hypot(x-prevX, y-prevY)
				move.Extrusion = ext.Advance(side)
				move.Extrude = true
			}
			prevX, prevY = x, y
			moves = append(moves, move)
		}
	}

	if ring == 0 {
		// Degenerate annulus: nothing to fill, not an error.
		return nil
	}
	return moves
}

// RingCount returns the number of hexagonal rings HoneycombRings emits
// for the given bounds. Zero when the first ring does not fit.
func RingCount(innerR, outerR, hexSize float64) int {
	if hexSize <= 0 {
		hexSize = DefaultHexSizeM
	}
	span := (outerR - hexSize/2) - (innerR + hexSize)
	if span <= 0 {
		return 0
	}
	// Rings sit at k*step below span for integer k >= 0, strictly.
	return int(math.Ceil(span / (hexSize * ringStep)))
}
