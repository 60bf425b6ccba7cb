// Package geometry provides normalized, typology-agnostic shape
// descriptors for printable building elements.
//
// Descriptors form a closed set: circular pod walls, straight wall
// sections, and spiral shells. Each descriptor knows its own envelope
// requirements (reach radius, height) so that toolpath validation and
// the compatibility checker consult one source of truth.
package geometry

import (
	"fmt"
	"math"

	"earthpath/pkg/errors"
)

// Typology tags accepted by FromTypology. The set is closed.
const (
	TypologySinglePod    = "single_pod"
	TypologyStraightWall = "straight_wall"
	TypologySpiralVase   = "spiral_vase"
)

// Defaults applied when a request omits a numeric field.
const (
	DefaultPodDiameterM    = 6.5
	DefaultPodHeightM      = 3.2
	DefaultWallThicknessM  = 0.30
	DefaultWallLengthM     = 10.0
	DefaultWallHeightM     = 3.0
	DefaultSpiralDiameterM = 6.0
	DefaultSpiralHeightM   = 3.0
)

// Descriptor is the closed variant over printable shapes.
type Descriptor interface {
	// Typology returns the tag this descriptor was built from.
	Typology() string

	// Height returns the vertical extent in meters.
	Height() float64

	// ReachRadius returns the horizontal distance from the print
	// origin required to trace this shape, in meters.
	ReachRadius() float64

	// MinFeature returns the smallest in-plane feature in meters,
	// or 0 when the shape has no bounded feature (single-bead walls).
	MinFeature() float64

	// Validate rejects degenerate or negative dimensions.
	Validate() error

	sealed()
}

// CircularWall is a closed circular perimeter wall (pod shell).
type CircularWall struct {
	DiameterM      float64
	HeightM        float64
	WallThicknessM float64
}

// StraightWall is a straight wall section along the X axis.
type StraightWall struct {
	LengthM        float64
	HeightM        float64
	WallThicknessM float64
}

// SpiralShell is a continuous single-bead helical shell.
// PitchM is the Z rise per revolution; zero means "use the printer's
// default layer height", resolved at generation time.
type SpiralShell struct {
	DiameterM float64
	HeightM   float64
	PitchM    float64
}

func (CircularWall) sealed() {}
func (StraightWall) sealed() {}
func (SpiralShell) sealed()  {}

func (c CircularWall) Typology() string { return TypologySinglePod }
func (s StraightWall) Typology() string { return TypologyStraightWall }
func (s SpiralShell) Typology() string  { return TypologySpiralVase }

func (c CircularWall) Height() float64 { return c.HeightM }
func (s StraightWall) Height() float64 { return s.HeightM }
func (s SpiralShell) Height() float64  { return s.HeightM }

func (c CircularWall) ReachRadius() float64 { return c.DiameterM / 2 }
func (s SpiralShell) ReachRadius() float64  { return s.DiameterM / 2 }

// ReachRadius for a straight wall is the far end of the pass; the wall
// runs from the origin along X.
func (s StraightWall) ReachRadius() float64 { return s.LengthM }

func (c CircularWall) MinFeature() float64 { return c.WallThicknessM }
func (s StraightWall) MinFeature() float64 { return s.WallThicknessM }
func (s SpiralShell) MinFeature() float64  { return 0 }

// OuterRadius returns the outer perimeter radius in meters.
func (c CircularWall) OuterRadius() float64 { return c.DiameterM / 2 }

// InnerRadius returns the inner perimeter radius in meters.
func (c CircularWall) InnerRadius() float64 { return c.DiameterM/2 - c.WallThicknessM }

// Validate rejects degenerate circular walls. The invariant is
// wall_thickness < diameter/2; equality leaves no inner perimeter.
func (c CircularWall) Validate() error {
	if c.DiameterM <= 0 {
		return errors.NegativeDimensionError("diameter", c.DiameterM)
	}
	if c.HeightM <= 0 {
		return errors.NegativeDimensionError("height", c.HeightM)
	}
	if c.WallThicknessM <= 0 {
		return errors.NegativeDimensionError("wall_thickness", c.WallThicknessM)
	}
	if c.WallThicknessM >= c.DiameterM/2 {
		return errors.DegenerateShapeError(fmt.Sprintf(
			"wall thickness %gm leaves no inner radius at diameter %gm", c.WallThicknessM, c.DiameterM))
	}
	return nil
}

// Validate rejects degenerate straight walls.
func (s StraightWall) Validate() error {
	if s.LengthM <= 0 {
		return errors.NegativeDimensionError("length", s.LengthM)
	}
	if s.HeightM <= 0 {
		return errors.NegativeDimensionError("height", s.HeightM)
	}
	if s.WallThicknessM <= 0 {
		return errors.NegativeDimensionError("wall_thickness", s.WallThicknessM)
	}
	return nil
}

// Validate rejects degenerate spiral shells.
func (s SpiralShell) Validate() error {
	if s.DiameterM <= 0 {
		return errors.NegativeDimensionError("diameter", s.DiameterM)
	}
	if s.HeightM <= 0 {
		return errors.NegativeDimensionError("height", s.HeightM)
	}
	if s.PitchM < 0 || math.IsNaN(s.PitchM) {
		return errors.ConfigValueError("pitch", fmt.Sprintf("pitch must be non-negative, got %g", s.PitchM))
	}
	return nil
}

// Params carries the numeric geometry fields of a request. Zero values
// mean "not supplied" and take the typology defaults.
type Params struct {
	DiameterM      float64
	LengthM        float64
	HeightM        float64
	WallThicknessM float64
	PitchM         float64
}

// FromTypology builds a validated Descriptor from a typology tag and
// request parameters, applying the package defaults for omitted fields.
// Unknown tags fail with CONFIG_TYPOLOGY.
func FromTypology(tag string, params Params) (Descriptor, error) {
	var desc Descriptor
	switch tag {
	case TypologySinglePod:
		desc = CircularWall{
			DiameterM:      orDefault(params.DiameterM, DefaultPodDiameterM),
			HeightM:        orDefault(params.HeightM, DefaultPodHeightM),
			WallThicknessM: orDefault(params.WallThicknessM, DefaultWallThicknessM),
		}
	case TypologyStraightWall:
		desc = StraightWall{
			LengthM:        orDefault(params.LengthM, DefaultWallLengthM),
			HeightM:        orDefault(params.HeightM, DefaultWallHeightM),
			WallThicknessM: orDefault(params.WallThicknessM, DefaultWallThicknessM),
		}
	case TypologySpiralVase:
		desc = SpiralShell{
			DiameterM: orDefault(params.DiameterM, DefaultSpiralDiameterM),
			HeightM:   orDefault(params.HeightM, DefaultSpiralHeightM),
			PitchM:    params.PitchM,
		}
	default:
		return nil, errors.UnknownTypologyError(tag)
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// Typologies returns the closed set of accepted tags.
func Typologies() []string {
	return []string{TypologySinglePod, TypologyStraightWall, TypologySpiralVase}
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
