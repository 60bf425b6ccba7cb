// Generation engine
//
// The engine resolves a request (typology, dimensions, printer,
// material) into a toolpath, a compatibility report, and a rendered
// instruction blob. Envelope violations are carried in the report and
// never abort generation; only invalid input aborts.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"earthpath/pkg/compat"
	"earthpath/pkg/estimate"
	"earthpath/pkg/gcode"
	"earthpath/pkg/geometry"
	"earthpath/pkg/log"
	"earthpath/pkg/material"
	"earthpath/pkg/metrics"
	"earthpath/pkg/profile"
	"earthpath/pkg/toolpath"
)

// Request describes one generation job. Zero-valued dimensions take
// the typology defaults; zero LayerHeightMM takes the printer default.
type Request struct {
	Typology       string  `json:"typology" yaml:"typology"`
	DiameterM      float64 `json:"diameter_m,omitempty" yaml:"diameter_m,omitempty"`
	LengthM        float64 `json:"length_m,omitempty" yaml:"length_m,omitempty"`
	HeightM        float64 `json:"height_m,omitempty" yaml:"height_m,omitempty"`
	WallThicknessM float64 `json:"wall_thickness_m,omitempty" yaml:"wall_thickness_m,omitempty"`
	PitchM         float64 `json:"pitch_m,omitempty" yaml:"pitch_m,omitempty"`
	PrinterID      string  `json:"printer_id,omitempty" yaml:"printer_id,omitempty"`
	Material       string  `json:"material,omitempty" yaml:"material,omitempty"`
	Infill         bool    `json:"infill,omitempty" yaml:"infill,omitempty"`
	InfillInterval int     `json:"infill_interval,omitempty" yaml:"infill_interval,omitempty"`
	LayerHeightMM  float64 `json:"layer_height_mm,omitempty" yaml:"layer_height_mm,omitempty"`
}

// Result is the outcome of one generation.
type Result struct {
	Profile    profile.Profile
	Mix        material.Mix
	Descriptor geometry.Descriptor
	Toolpath   *toolpath.Toolpath
	Report     compat.Report
	Estimate   estimate.Summary
	GCode      string
	LayerCount int
}

// Engine resolves requests against a profile registry.
type Engine struct {
	registry *profile.Registry
	metrics  *metrics.Metrics
	logger   *log.Logger
}

// New builds an engine over a sealed (or about-to-be-sealed) registry.
func New(registry *profile.Registry) *Engine {
	return &Engine{
		registry: registry,
		metrics:  metrics.Default(),
		logger:   log.GetLogger("engine"),
	}
}

// WithMetrics overrides the process-wide metrics instance.
func (e *Engine) WithMetrics(m *metrics.Metrics) *Engine {
	e.metrics = m
	return e
}

// Resolve maps a request to its descriptor, profile, and mix without
// generating motion. The server uses it for dry-run checks.
func (e *Engine) Resolve(req Request) (geometry.Descriptor, profile.Profile, material.Mix, error) {
	desc, err := geometry.FromTypology(req.Typology, geometry.Params{
		DiameterM:      req.DiameterM,
		LengthM:        req.LengthM,
		HeightM:        req.HeightM,
		WallThicknessM: req.WallThicknessM,
		PitchM:         req.PitchM,
	})
	if err != nil {
		return nil, profile.Profile{}, material.Mix{}, err
	}
	if err := desc.Validate(); err != nil {
		return nil, profile.Profile{}, material.Mix{}, err
	}

	prof := e.registry.Lookup(req.PrinterID)

	name := req.Material
	if name == "" {
		name = material.DefaultName
	}
	mix, err := material.Get(name)
	if err != nil {
		return nil, profile.Profile{}, material.Mix{}, err
	}

	return desc, prof, mix, nil
}

// Generate runs one request end to end.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	desc, prof, mix, err := e.Resolve(req)
	if err != nil {
		e.metrics.RecordFailure()
		return nil, err
	}

	report := compat.Check(desc, prof)
	e.metrics.RecordViolations(len(report.Violations()))
	for _, v := range report.Violations() {
		e.logger.WithFields(log.Fields{
			"printer": prof.Name,
			"field":   v.Field,
		}).Warn(v.Message)
	}

	tp, err := toolpath.Generate(ctx, desc, prof, toolpath.Options{
		LayerHeightM:   req.LayerHeightMM / 1000.0,
		Infill:         req.Infill,
		InfillInterval: req.InfillInterval,
	})
	if err != nil {
		e.metrics.RecordFailure()
		return nil, err
	}

	code := gcode.NewEmitter(prof, mix).Emit(tp, desc)
	e.metrics.RecordGeneration(tp.LayerCount(), len(code))
	e.logger.WithFields(log.Fields{
		"typology": desc.Typology(),
		"printer":  prof.Name,
		"layers":   tp.LayerCount(),
	}).Info("generation complete")

	return &Result{
		Profile:    prof,
		Mix:        mix,
		Descriptor: desc,
		Toolpath:   tp,
		Report:     report,
		Estimate:   estimate.Compute(tp, prof, req.LayerHeightMM/1000.0),
		GCode:      code,
		LayerCount: tp.LayerCount(),
	}, nil
}

// BatchItem pairs one request's result with its error. Slots align
// with the input slice.
type BatchItem struct {
	Result *Result
	Err    error
}

// Batch runs requests concurrently with at most workers in flight.
// One failed request does not cancel the others; each slot carries
// its own error.
func (e *Engine) Batch(ctx context.Context, reqs []Request, workers int) []BatchItem {
	if workers < 1 {
		workers = 1
	}

	items := make([]BatchItem, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			items[i].Result, items[i].Err = e.Generate(ctx, req)
			return nil
		})
	}
	g.Wait()

	return items
}
