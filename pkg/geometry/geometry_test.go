// Unit tests for geometry descriptors
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earthpath/pkg/errors"
)

func TestFromTypologyDefaults(t *testing.T) {
	desc, err := FromTypology(TypologySinglePod, Params{})
	require.NoError(t, err)

	pod, ok := desc.(CircularWall)
	require.True(t, ok)
	assert.Equal(t, DefaultPodDiameterM, pod.DiameterM)
	assert.Equal(t, DefaultPodHeightM, pod.HeightM)
	assert.Equal(t, DefaultWallThicknessM, pod.WallThicknessM)
}

func TestFromTypologyOverrides(t *testing.T) {
	desc, err := FromTypology(TypologyStraightWall, Params{LengthM: 8, HeightM: 2.4, WallThicknessM: 0.25})
	require.NoError(t, err)

	wall, ok := desc.(StraightWall)
	require.True(t, ok)
	assert.Equal(t, 8.0, wall.LengthM)
	assert.Equal(t, 2.4, wall.HeightM)
	assert.Equal(t, 0.25, wall.WallThicknessM)
}

func TestFromTypologyUnknown(t *testing.T) {
	_, err := FromTypology("dome_cluster", Params{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfigTypology))
}

func TestCircularWallInnerRadius(t *testing.T) {
	// inner_radius = diameter/2 - wall_thickness > 0 whenever
	// wall_thickness < diameter/2.
	pod := CircularWall{DiameterM: 6.5, HeightM: 3.2, WallThicknessM: 0.30}
	require.NoError(t, pod.Validate())
	assert.InDelta(t, 3.25, pod.OuterRadius(), 1e-12)
	assert.InDelta(t, 2.95, pod.InnerRadius(), 1e-12)
	assert.Greater(t, pod.InnerRadius(), 0.0)
}

func TestCircularWallDegenerate(t *testing.T) {
	cases := []struct {
		name string
		pod  CircularWall
		code errors.ErrorCode
	}{
		{"thickness equals radius", CircularWall{DiameterM: 2, HeightM: 3, WallThicknessM: 1}, errors.ErrGeometryDegenerate},
		{"thickness exceeds radius", CircularWall{DiameterM: 2, HeightM: 3, WallThicknessM: 1.5}, errors.ErrGeometryDegenerate},
		{"negative diameter", CircularWall{DiameterM: -6, HeightM: 3, WallThicknessM: 0.3}, errors.ErrGeometryNegative},
		{"zero height", CircularWall{DiameterM: 6, HeightM: 0, WallThicknessM: 0.3}, errors.ErrGeometryNegative},
		{"zero thickness", CircularWall{DiameterM: 6, HeightM: 3, WallThicknessM: 0}, errors.ErrGeometryNegative},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.pod.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, c.code), "got %v", err)
		})
	}
}

func TestStraightWallValidate(t *testing.T) {
	require.NoError(t, StraightWall{LengthM: 10, HeightM: 3, WallThicknessM: 0.3}.Validate())
	require.Error(t, StraightWall{LengthM: 0, HeightM: 3, WallThicknessM: 0.3}.Validate())
	require.Error(t, StraightWall{LengthM: 10, HeightM: -1, WallThicknessM: 0.3}.Validate())
}

func TestSpiralShellValidate(t *testing.T) {
	require.NoError(t, SpiralShell{DiameterM: 6, HeightM: 3}.Validate())
	require.Error(t, SpiralShell{DiameterM: 6, HeightM: 3, PitchM: -0.01}.Validate())
}

func TestReachRadius(t *testing.T) {
	assert.Equal(t, 3.25, CircularWall{DiameterM: 6.5}.ReachRadius())
	assert.Equal(t, 10.0, StraightWall{LengthM: 10}.ReachRadius())
	assert.Equal(t, 3.0, SpiralShell{DiameterM: 6}.ReachRadius())
}
