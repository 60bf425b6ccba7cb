// Toolpath generation strategies
//
// One Producer implementation per shape variant, selected by a factory
// over the closed descriptor set. Producers validate their inputs
// before emitting any motion and honor context cancellation between
// layer iterations.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package toolpath

import (
	"context"
	"fmt"
	"math"

	"earthpath/pkg/errors"
	"earthpath/pkg/geometry"
	"earthpath/pkg/profile"
)

// Speed caps in mm/s. Outer perimeters run slower for surface quality.
const (
	generalSpeedCapMMS = 50.0
	outerSpeedCapMMS   = 30.0
)

// DefaultInfillInterval is the layer period of honeycomb infill.
const DefaultInfillInterval = 3

// Options tune toolpath generation.
type Options struct {
	// LayerHeightM overrides the profile's default layer height.
	LayerHeightM float64

	// Infill enables honeycomb infill between the wall perimeters
	// (circular walls only).
	Infill bool

	// InfillInterval is the layer period of infill; zero means
	// DefaultInfillInterval.
	InfillInterval int

	// HexSizeM is the honeycomb cell size; zero means DefaultHexSizeM.
	HexSizeM float64
}

func (o Options) infillInterval() int {
	if o.InfillInterval <= 0 {
		return DefaultInfillInterval
	}
	return o.InfillInterval
}

// Producer turns one shape into an ordered motion sequence.
type Producer interface {
	// Produce builds the toolpath for the producer's shape against
	// the given printer profile.
	Produce(ctx context.Context, prof profile.Profile, opts Options) (*Toolpath, error)
}

// NewProducer selects the strategy for a shape descriptor. The
// descriptor set is closed; the default arm only fires on a variant
// added without a matching producer.
func NewProducer(desc geometry.Descriptor) (Producer, error) {
	switch d := desc.(type) {
	case geometry.CircularWall:
		return &circularWallProducer{wall: d}, nil
	case geometry.StraightWall:
		return &straightWallProducer{wall: d}, nil
	case geometry.SpiralShell:
		return &spiralShellProducer{shell: d}, nil
	default:
		return nil, errors.UnknownTypologyError(desc.Typology())
	}
}

// Generate is the one-call form: select a producer and run it.
func Generate(ctx context.Context, desc geometry.Descriptor, prof profile.Profile, opts Options) (*Toolpath, error) {
	p, err := NewProducer(desc)
	if err != nil {
		return nil, err
	}
	return p.Produce(ctx, prof, opts)
}

func resolveLayerHeight(opts Options, prof profile.Profile) float64 {
	if opts.LayerHeightM != 0 {
		return opts.LayerHeightM
	}
	return prof.DefaultLayerHeightM()
}

func feedMMMin(speedMMS float64) float64 {
	return speedMMS * 60
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// circularWallProducer traces a pod wall: per layer a clockwise outer
// perimeter arc, a counter-clockwise inner perimeter arc, and every
// Nth layer a honeycomb infill pass. The fixed CW/CCW convention keeps
// extrusion overlap and nozzle offset consistent between passes.
type circularWallProducer struct {
	wall geometry.CircularWall
}

func (p *circularWallProducer) Produce(ctx context.Context, prof profile.Profile, opts Options) (*Toolpath, error) {
	if err := p.wall.Validate(); err != nil {
		return nil, err
	}

	outerR := p.wall.OuterRadius()
	innerR := p.wall.InnerRadius()
	if outerR <= innerR || innerR <= 0 {
		return nil, errors.DegenerateShapeError(fmt.Sprintf(
			"perimeter radii out of order: outer %.3fm, inner %.3fm", outerR, innerR))
	}

	layerH := resolveLayerHeight(opts, prof)
	layers, err := PlanLayers(p.wall.HeightM, layerH)
	if err != nil {
		return nil, err
	}

	speed := math.Min(generalSpeedCapMMS, prof.MaxSpeedMMS)
	outerSpeed := math.Min(outerSpeedCapMMS, speed)
	ext := NewExtruder(layerH, prof.NozzleDiameterM())
	interval := opts.infillInterval()

	tp := &Toolpath{Steps: make([]Step, 0, len(layers))}
	total := len(layers)

	for i, layer := range layers {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}

		moves := []MotionPrimitive{
			Comment(fmt.Sprintf("--- Layer %d/%d (Z=%.3fm) ---", i+1, total, layer.ZM)),

			// Outer wall - clockwise arc (G2)
			LinearMove{X: outerR, Y: 0, Z: layer.ZM, HasZ: true, Feed: feedMMMin(outerSpeed)},
			ArcMove{
				X: outerR, Y: 0, I: -outerR, J: 0,
				Direction: CW,
				Extrusion: ext.Advance(2 * math.Pi * outerR),
				Extrude:   true,
				Label:     "Outer wall CW",
			},

			// Inner wall - counter-clockwise arc (G3)
			LinearMove{X: innerR, Y: 0, Z: layer.ZM, HasZ: true, Feed: feedMMMin(speed)},
			ArcMove{
				X: innerR, Y: 0, I: -innerR, J: 0,
				Direction: CCW,
				Extrusion: ext.Advance(2 * math.Pi * innerR),
				Extrude:   true,
				Label:     "Inner wall CCW",
			},
		}

		if opts.Infill && i > 0 && i%interval == 0 {
			moves = append(moves, HoneycombRings(innerR, outerR, layer.ZM, feedMMMin(speed), opts.HexSizeM, ext)...)
		}

		tp.Steps = append(tp.Steps, Step{Layer: layer, Moves: moves})
	}

	return tp, nil
}

// straightWallProducer traces a wall section along X: two parallel
// passes per layer offset by half the wall thickness either side of
// the centerline, one outbound and one return.
type straightWallProducer struct {
	wall geometry.StraightWall
}

func (p *straightWallProducer) Produce(ctx context.Context, prof profile.Profile, opts Options) (*Toolpath, error) {
	if err := p.wall.Validate(); err != nil {
		return nil, err
	}

	layerH := resolveLayerHeight(opts, prof)
	layers, err := PlanLayers(p.wall.HeightM, layerH)
	if err != nil {
		return nil, err
	}

	speed := math.Min(generalSpeedCapMMS, prof.MaxSpeedMMS)
	ext := NewExtruder(layerH, prof.NozzleDiameterM())

	length := p.wall.LengthM
	yOuter := p.wall.WallThicknessM / 2
	yInner := -p.wall.WallThicknessM / 2

	tp := &Toolpath{Steps: make([]Step, 0, len(layers))}

	for i, layer := range layers {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}

		moves := []MotionPrimitive{
			Comment(fmt.Sprintf("Layer %d", i+1)),

			// Outbound pass along the outer face
			LinearMove{X: 0, Y: yOuter, Z: layer.ZM, HasZ: true, Feed: feedMMMin(speed)},
			LinearMove{X: length, Y: yOuter, Extrusion: ext.Advance(length), Extrude: true},

			// Cross to the inner face and return
			LinearMove{X: length, Y: yInner},
			LinearMove{X: 0, Y: yInner, Extrusion: ext.Advance(length), Extrude: true},
		}

		tp.Steps = append(tp.Steps, Step{Layer: layer, Moves: moves})
	}

	return tp, nil
}

// spiralShellProducer traces a continuous helix: one arc per
// revolution with Z rising by the pitch, no per-layer seam. Z is
// strictly monotonically increasing across the whole stream.
type spiralShellProducer struct {
	shell geometry.SpiralShell
}

func (p *spiralShellProducer) Produce(ctx context.Context, prof profile.Profile, opts Options) (*Toolpath, error) {
	if err := p.shell.Validate(); err != nil {
		return nil, err
	}

	pitch := p.shell.PitchM
	if pitch == 0 {
		pitch = resolveLayerHeight(opts, prof)
	}

	layers, err := PlanLayers(p.shell.HeightM, pitch)
	if err != nil {
		return nil, err
	}

	radius := p.shell.DiameterM / 2
	speed := math.Min(generalSpeedCapMMS, prof.MaxSpeedMMS)
	ext := NewExtruder(pitch, prof.NozzleDiameterM())

	// One revolution climbs the pitch while sweeping the circle.
	helixLen := math.Hypot(2*math.Pi*radius, pitch)

	tp := &Toolpath{Steps: make([]Step, 0, len(layers))}

	for i, layer := range layers {
		if err := checkCancel(ctx); err != nil {
			return nil, err
		}

		var moves []MotionPrimitive
		if i == 0 {
			// The helix climbs from the bed; the first revolution
			// ends one pitch up, so Z rises strictly throughout.
			moves = append(moves,
				Comment("Continuous spiral - no Z-seams"),
				LinearMove{X: radius, Y: 0, Z: 0, HasZ: true, Feed: feedMMMin(speed)},
			)
		}

		moves = append(moves, ArcMove{
			X: radius, Y: 0, I: -radius, J: 0,
			Direction: CW,
			Z:         layer.ZM,
			HasZ:      true,
			Extrusion: ext.Advance(helixLen),
			Extrude:   true,
			Label:     fmt.Sprintf("Spiral layer %d", i+1),
		})

		tp.Steps = append(tp.Steps, Step{Layer: layer, Moves: moves})
	}

	return tp, nil
}
