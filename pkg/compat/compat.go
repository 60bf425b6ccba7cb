// Package compat checks shape descriptors against printer envelopes.
//
// The checker consults the same geometry accessors (ReachRadius,
// Height, MinFeature) the toolpath validator uses, so envelope bounds
// live in exactly one place. Envelope violations are findings, not
// errors: generation proceeds and the report records them.
package compat

import (
	"fmt"
	"strings"

	"earthpath/pkg/geometry"
	"earthpath/pkg/profile"
)

// Severity grades a finding.
type Severity int

const (
	// Warning flags a marginal condition; printing may still succeed.
	Warning Severity = iota
	// Violation flags geometry outside the printer envelope.
	Violation
)

// String returns the severity name
func (s Severity) String() string {
	if s == Violation {
		return "violation"
	}
	return "warning"
}

// Finding is one envelope comparison result.
type Finding struct {
	Field    string   `json:"field"`
	Limit    float64  `json:"limit"`
	Actual   float64  `json:"actual"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Report is the outcome of all envelope checks for one request.
type Report struct {
	Printer  string    `json:"printer"`
	Findings []Finding `json:"findings"`
}

// WithinEnvelope is true when no finding is a violation. It derives
// strictly from the finding list.
func (r Report) WithinEnvelope() bool {
	for _, f := range r.Findings {
		if f.Severity == Violation {
			return false
		}
	}
	return true
}

// Violations returns only the violation findings.
func (r Report) Violations() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == Violation {
			out = append(out, f)
		}
	}
	return out
}

// Minimum printable wall thickness, in nozzle diameters. Thinner walls
// leave too few beads for structural earth printing.
const minWallNozzleRatio = 3.0

// Check compares a shape descriptor against a printer profile.
// Boundary equality passes: a radius exactly at reach is printable.
func Check(desc geometry.Descriptor, prof profile.Profile) Report {
	report := Report{Printer: prof.Name}

	radius := desc.ReachRadius()
	if radius > prof.ReachRadiusM {
		report.Findings = append(report.Findings, Finding{
			Field:    "reach_radius_m",
			Limit:    prof.ReachRadiusM,
			Actual:   radius,
			Severity: Violation,
			Message: fmt.Sprintf("radius %.3fm exceeds reach %.3fm of %s",
				radius, prof.ReachRadiusM, prof.Name),
		})
	}

	height := desc.Height()
	if height > prof.MaxHeightM {
		report.Findings = append(report.Findings, Finding{
			Field:    "max_height_m",
			Limit:    prof.MaxHeightM,
			Actual:   height,
			Severity: Violation,
			Message: fmt.Sprintf("height %.3fm exceeds limit %.3fm of %s",
				height, prof.MaxHeightM, prof.Name),
		})
	}

	if feature := desc.MinFeature(); feature > 0 {
		minFeature := minWallNozzleRatio * prof.NozzleDiameterM()
		if feature < minFeature {
			report.Findings = append(report.Findings, Finding{
				Field:    "wall_thickness_m",
				Limit:    minFeature,
				Actual:   feature,
				Severity: Warning,
				Message: fmt.Sprintf("wall thickness %.3fm is under %d beads of the %.0fmm nozzle",
					feature, int(minWallNozzleRatio), prof.NozzleDiameterMM),
			})
		}
	}

	return report
}

// Render formats the report as a human-readable text block.
func Render(r Report, desc geometry.Descriptor, prof profile.Profile) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString("PRINTER COMPATIBILITY REPORT\n")
	sb.WriteString(rule + "\n\n")
	fmt.Fprintf(&sb, "Printer: %s\n", prof.Name)
	fmt.Fprintf(&sb, "Firmware: %s\n\n", prof.Firmware)

	sb.WriteString("Printer Specifications:\n")
	fmt.Fprintf(&sb, "  - Reach radius: %gm\n", prof.ReachRadiusM)
	fmt.Fprintf(&sb, "  - Maximum height: %gm\n", prof.MaxHeightM)
	fmt.Fprintf(&sb, "  - Nozzle diameter: %gmm\n", prof.NozzleDiameterMM)
	fmt.Fprintf(&sb, "  - Default layer height: %gmm\n", prof.DefaultLayerHeightMM)
	fmt.Fprintf(&sb, "  - Max print speed: %gmm/s\n\n", prof.MaxSpeedMMS)

	sb.WriteString("Geometry Requirements:\n")
	fmt.Fprintf(&sb, "  - Typology: %s\n", desc.Typology())
	fmt.Fprintf(&sb, "  - Reach radius: %.3fm %s\n", desc.ReachRadius(),
		mark(desc.ReachRadius() <= prof.ReachRadiusM, "EXCEEDS REACH"))
	fmt.Fprintf(&sb, "  - Height: %.3fm %s\n\n", desc.Height(),
		mark(desc.Height() <= prof.MaxHeightM, "EXCEEDS LIMIT"))

	if len(r.Findings) > 0 {
		sb.WriteString("Findings:\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&sb, "  [%s] %s\n", strings.ToUpper(f.Severity.String()), f.Message)
		}
		sb.WriteString("\n")
	}

	if r.WithinEnvelope() {
		sb.WriteString("Result: WITHIN ENVELOPE\n")
	} else {
		sb.WriteString("Result: OUTSIDE ENVELOPE\n")
	}

	sb.WriteString("\nRecommendations:\n")
	fmt.Fprintf(&sb, "  - Use layer height: %gmm\n", prof.DefaultLayerHeightMM)
	fmt.Fprintf(&sb, "  - Recommended perimeter speed: %gmm/s\n", minF(30, prof.MaxSpeedMMS))
	sb.WriteString("  - Always verify nozzle clearance before printing\n")
	sb.WriteString("\n" + rule + "\n")

	return sb.String()
}

func mark(ok bool, fail string) string {
	if ok {
		return "OK"
	}
	return "!! " + fail
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
