// Unit tests for honeycomb infill synthesis
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countRings counts hex-ring comment markers in a move list.
func countRings(moves []MotionPrimitive) int {
	n := 0
	for _, m := range moves {
		if c, ok := m.(Comment); ok && strings.HasPrefix(string(c), "Hex ring") {
			n++
		}
	}
	return n
}

func TestHoneycombRingCountMatchesFormula(t *testing.T) {
	cases := []struct {
		name           string
		innerR, outerR float64
	}{
		{"pod annulus", 2.95, 3.25},
		{"wide annulus", 1.0, 3.0},
		{"narrow annulus", 2.0, 2.3},
		{"degenerate", 2.0, 2.1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			moves := HoneycombRings(c.innerR, c.outerR, 0.5, 1800, DefaultHexSizeM, nil)
			assert.Equal(t, RingCount(c.innerR, c.outerR, DefaultHexSizeM), countRings(moves))
		})
	}
}

func TestHoneycombDegenerateEmitsNothing(t *testing.T) {
	// inner + hex >= outer - hex/2: zero rings, not an error.
	moves := HoneycombRings(2.0, 2.2, 0.5, 1800, DefaultHexSizeM, nil)
	assert.Nil(t, moves)
	assert.Equal(t, 0, RingCount(2.0, 2.2, DefaultHexSizeM))
}

func TestHoneycombRingGeometry(t *testing.T) {
	moves := HoneycombRings(1.0, 3.0, 0.5, 1800, DefaultHexSizeM, nil)
	require.NotEmpty(t, moves)

	// First ring sits at r = inner + hex.
	r0 := 1.0 + DefaultHexSizeM

	var ringMoves []LinearMove
	for _, m := range moves {
		if lm, ok := m.(LinearMove); ok {
			ringMoves = append(ringMoves, lm)
		}
		if len(ringMoves) == 7 {
			break
		}
	}
	require.Len(t, ringMoves, 7, "hexagon is 6 vertices plus the closing move")

	// Vertices at 60 degree increments on the ring radius; the
	// closing move returns to the start vertex.
	for i, lm := range ringMoves {
		angle := float64(i) * math.Pi / 3
		assert.InDelta(t, r0*math.Cos(angle), lm.X, 1e-9, "vertex %d X", i)
		assert.InDelta(t, r0*math.Sin(angle), lm.Y, 1e-9, "vertex %d Y", i)
	}
	assert.InDelta(t, ringMoves[0].X, ringMoves[6].X, 1e-9)
	assert.InDelta(t, ringMoves[0].Y, ringMoves[6].Y, 1e-9)

	// Only the travel move restates Z.
	assert.True(t, ringMoves[0].HasZ)
	assert.False(t, ringMoves[1].HasZ)
}

func TestHoneycombExtrusionAccumulates(t *testing.T) {
	ext := NewExtruder(0.020, 0.040)
	moves := HoneycombRings(1.0, 3.0, 0.5, 1800, DefaultHexSizeM, ext)
	require.NotEmpty(t, moves)

	prev := 0.0
	for _, m := range moves {
		lm, ok := m.(LinearMove)
		if !ok || !lm.Extrude {
			continue
		}
		assert.Greater(t, lm.Extrusion, prev, "absolute E must increase")
		prev = lm.Extrusion
	}
	assert.Greater(t, prev, 0.0)
}
