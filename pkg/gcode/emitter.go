// Package gcode serializes toolpaths into the Marlin instruction
// dialect used by large-format earth printers.
//
// The emitter renders a fixed preamble (units, positioning and
// extrusion modes, homing, operator prime pause), the toolpath's
// motion primitives, and a fixed postamble (drain queue, home,
// operator pause, motor disable). The output is a single text blob
// materialized only after the full toolpath exists, which gives
// all-or-nothing semantics at this layer.
package gcode

import (
	"fmt"
	"strings"

	"earthpath/pkg/geometry"
	"earthpath/pkg/material"
	"earthpath/pkg/pool"
	"earthpath/pkg/profile"
	"earthpath/pkg/toolpath"
)

// safe clearance move after homing, millimeters / mm/min.
const (
	safeHeightMM   = 50
	safeHeightFeed = 3000
)

// Emitter renders toolpaths for one printer and material pairing.
type Emitter struct {
	prof profile.Profile
	mix  material.Mix
}

// NewEmitter creates an emitter for the given profile and material.
func NewEmitter(prof profile.Profile, mix material.Mix) *Emitter {
	return &Emitter{prof: prof, mix: mix}
}

// Emit renders the complete instruction text for a toolpath.
func (e *Emitter) Emit(tp *toolpath.Toolpath, desc geometry.Descriptor) string {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	e.writePreamble(buf)
	e.writeShapeSummary(buf, desc, tp.LayerCount())

	for _, step := range tp.Steps {
		writeStep(buf, step)
		buf.WriteLine("")
	}

	e.writePostamble(buf)
	return buf.String()
}

// EmitStep renders the body lines of a single step, used by streaming
// consumers. Emit produces byte-identical step bodies.
func (e *Emitter) EmitStep(step toolpath.Step) string {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	writeStep(buf, step)
	return buf.String()
}

// Preamble renders the fixed startup sequence alone.
func (e *Emitter) Preamble() string {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	e.writePreamble(buf)
	return buf.String()
}

// Postamble renders the fixed shutdown sequence alone.
func (e *Emitter) Postamble() string {
	buf := pool.GetLineBuffer()
	defer pool.PutLineBuffer(buf)

	e.writePostamble(buf)
	return buf.String()
}

func (e *Emitter) writePreamble(buf *pool.LineBuffer) {
	speed := e.prof.MaxSpeedMMS
	if speed > 50 {
		speed = 50
	}

	buf.WriteLine("; ============================================")
	buf.WriteLine("; Earthpath - Earth Construction G-code")
	buf.WriteLine(fmt.Sprintf("; Generated for %s or compatible earth printer", e.prof.Name))
	buf.WriteLine("; Firmware: Marlin (standard earth printing profile)")
	buf.WriteLine("; ============================================")
	buf.WriteLine("")
	buf.WriteLine("; Printer Specifications:")
	buf.WriteLine(fmt.Sprintf(";   Reach radius: %gm", e.prof.ReachRadiusM))
	buf.WriteLine(fmt.Sprintf(";   Max height: %gm", e.prof.MaxHeightM))
	buf.WriteLine(fmt.Sprintf(";   Nozzle diameter: %gmm", e.prof.NozzleDiameterMM))
	buf.WriteLine(fmt.Sprintf(";   Layer height: %gmm", e.prof.DefaultLayerHeightMM))
	buf.WriteLine(fmt.Sprintf(";   Print speed: %gmm/s", speed))
	buf.WriteLine("")
	buf.WriteLine(fmt.Sprintf("; Material: %s", e.mix.Name))
	buf.WriteLine("")
	buf.WriteLine("; Startup sequence")
	buf.WriteLine("G21 ; Set units to millimeters")
	buf.WriteLine("G90 ; Absolute positioning")
	buf.WriteLine("M82 ; Absolute extrusion (for paste extruders)")
	if e.mix.FlowPercent != 0 && e.mix.FlowPercent != 100 {
		buf.WriteLine(fmt.Sprintf("M221 S%d ; Flow rate for %s", e.mix.FlowPercent, e.mix.Name))
	}
	buf.WriteLine("G28 ; Home all axes")
	buf.WriteLine(fmt.Sprintf("G1 Z%d F%d ; Move to safe height", safeHeightMM, safeHeightFeed))
	buf.WriteLine("M400 ; Wait for moves to complete")
	buf.WriteLine("")
	buf.WriteLine("; Material preparation (manual)")
	buf.WriteLine("; 1. Load earth mix into hopper")
	buf.WriteLine("; 2. Prime extruder until consistent flow")
	buf.WriteLine("; 3. Verify nozzle clearance (paper test)")
	buf.WriteLine("M0 Click to begin printing... ; Pause for operator")
	buf.WriteLine("")
}

func (e *Emitter) writeShapeSummary(buf *pool.LineBuffer, desc geometry.Descriptor, layers int) {
	switch d := desc.(type) {
	case geometry.CircularWall:
		buf.WriteLine(fmt.Sprintf("; Circular wall: D=%gm, H=%gm, T=%gm", d.DiameterM, d.HeightM, d.WallThicknessM))
		buf.WriteLine(fmt.Sprintf("; Total layers: %d", layers))
	case geometry.StraightWall:
		buf.WriteLine(fmt.Sprintf("; Straight wall: L=%gm, H=%gm, T=%gm", d.LengthM, d.HeightM, d.WallThicknessM))
		buf.WriteLine(fmt.Sprintf("; Total layers: %d", layers))
	case geometry.SpiralShell:
		buf.WriteLine(fmt.Sprintf("; Spiral vase mode: D=%gm, H=%gm", d.DiameterM, d.HeightM))
	}
	buf.WriteLine("")
}

func (e *Emitter) writePostamble(buf *pool.LineBuffer) {
	buf.WriteLine("")
	buf.WriteLine("; Print complete")
	buf.WriteLine("M400 ; Wait for moves to complete")
	buf.WriteLine("G28 ; Home all axes")
	buf.WriteLine("M0 Print complete - clean nozzle and power down ; Final pause")
	buf.WriteLine("M84 ; Disable motors")
}

func writeStep(buf *pool.LineBuffer, step toolpath.Step) {
	for _, m := range step.Moves {
		buf.WriteLine(renderPrimitive(m))
	}
}

// renderPrimitive serializes one motion primitive as a dialect line.
func renderPrimitive(m toolpath.MotionPrimitive) string {
	switch mv := m.(type) {
	case toolpath.Comment:
		return "; " + string(mv)

	case toolpath.LinearMove:
		var sb strings.Builder
		fmt.Fprintf(&sb, "G1 X%.3f Y%.3f", mv.X, mv.Y)
		if mv.HasZ {
			fmt.Fprintf(&sb, " Z%.3f", mv.Z)
		}
		if mv.Feed > 0 {
			fmt.Fprintf(&sb, " F%.0f", mv.Feed)
		}
		if mv.Extrude {
			fmt.Fprintf(&sb, " E%.2f", mv.Extrusion)
		}
		return sb.String()

	case toolpath.ArcMove:
		var sb strings.Builder
		cmd := "G2"
		if mv.Direction == toolpath.CCW {
			cmd = "G3"
		}
		fmt.Fprintf(&sb, "%s X%.3f Y%.3f I%.3f J%.3f", cmd, mv.X, mv.Y, mv.I, mv.J)
		if mv.HasZ {
			fmt.Fprintf(&sb, " Z%.3f", mv.Z)
		}
		if mv.Feed > 0 {
			fmt.Fprintf(&sb, " F%.0f", mv.Feed)
		}
		if mv.Extrude {
			fmt.Fprintf(&sb, " E%.2f", mv.Extrusion)
		}
		if mv.Label != "" {
			sb.WriteString(" ; " + mv.Label)
		}
		return sb.String()

	default:
		// Closed set; unreachable unless a variant is added without
		// a renderer.
		return fmt.Sprintf("; unsupported primitive %T", m)
	}
}
