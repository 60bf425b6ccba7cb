// Package material holds earth printing mix specifications.
//
// Mixes are calibrated for the WASP Crane and scale to other
// large-format earth printers. The database is a fixed table; mixes
// are immutable values.
package material

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"earthpath/pkg/errors"
)

// DensityKgM3 is the density of a compacted earth mix.
const DensityKgM3 = 1800.0

// Range is a min/max performance bound.
type Range struct {
	Min float64
	Max float64
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// Mix is a complete earth printing mix specification.
type Mix struct {
	Name string

	// Composition, percent by weight
	ClayPercent  float64
	SandPercent  float64
	SiltPercent  float64
	WaterPercent float64
	Additives    map[string]float64

	// Performance
	CompressionMPa       Range
	ThermalConductivityW Range // W/mK
	ShrinkagePercent     float64

	// Printing parameters
	OptimalMoisturePercent float64
	ExtrusionPressureBar   Range
	CureTimeDays           int

	// FlowPercent is the extruder flow-rate adjustment (M221) for
	// this mix relative to the standard calibration.
	FlowPercent int
}

// Quantities is the shopping list for a given print volume.
type Quantities struct {
	VolumeM3      float64
	TotalWeightKg float64
	ClayKg        float64
	SandKg        float64
	SiltKg        float64
	WaterLiters   float64
	AdditivesKg   map[string]float64
}

// MixingQuantities calculates material quantities for a print volume.
func (m Mix) MixingQuantities(volumeM3 float64) Quantities {
	total := volumeM3 * DensityKgM3
	q := Quantities{
		VolumeM3:      volumeM3,
		TotalWeightKg: math.Round(total),
		ClayKg:        math.Round(total * m.ClayPercent / 100),
		SandKg:        math.Round(total * m.SandPercent / 100),
		SiltKg:        math.Round(total * m.SiltPercent / 100),
		WaterLiters:   math.Round(total * m.WaterPercent / 100),
		AdditivesKg:   make(map[string]float64, len(m.Additives)),
	}
	for name, pct := range m.Additives {
		q.AdditivesKg[name] = math.Round(total*pct/10) / 10
	}
	return q
}

func mixes() map[string]Mix {
	return map[string]Mix{
		"standard": {
			Name:         "Standard Earth Mix",
			ClayPercent:  30.0,
			SandPercent:  50.0,
			SiltPercent:  20.0,
			WaterPercent: 8.0,
			Additives: map[string]float64{
				"natural_fibers": 2.0,
				"lime":           5.0,
			},
			CompressionMPa:         Range{2.0, 5.0},
			ThermalConductivityW:   Range{0.8, 1.2},
			ShrinkagePercent:       2.5,
			OptimalMoisturePercent: 12.0,
			ExtrusionPressureBar:   Range{2.0, 4.0},
			CureTimeDays:           28,
			FlowPercent:            100,
		},
		"high_strength": {
			Name:         "High Strength Earth Mix",
			ClayPercent:  25.0,
			SandPercent:  55.0,
			SiltPercent:  20.0,
			WaterPercent: 7.5,
			Additives: map[string]float64{
				"cement":         8.0,
				"natural_fibers": 1.5,
			},
			CompressionMPa:         Range{5.0, 10.0},
			ThermalConductivityW:   Range{1.0, 1.5},
			ShrinkagePercent:       2.0,
			OptimalMoisturePercent: 11.0,
			ExtrusionPressureBar:   Range{3.0, 5.0},
			CureTimeDays:           28,
			FlowPercent:            95,
		},
		"thermal": {
			Name:         "Thermal Optimized Earth Mix",
			ClayPercent:  35.0,
			SandPercent:  35.0,
			SiltPercent:  30.0,
			WaterPercent: 9.0,
			Additives: map[string]float64{
				"straw":  8.0,
				"pumice": 10.0,
			},
			CompressionMPa:         Range{1.5, 3.0},
			ThermalConductivityW:   Range{0.4, 0.7},
			ShrinkagePercent:       3.0,
			OptimalMoisturePercent: 14.0,
			ExtrusionPressureBar:   Range{1.5, 3.0},
			CureTimeDays:           42,
			// Fibrous mix extrudes under-width at standard flow.
			FlowPercent: 110,
		},
		"resonance": {
			Name:         "Resonance Enhanced Mix",
			ClayPercent:  28.0,
			SandPercent:  47.0,
			SiltPercent:  20.0,
			WaterPercent: 8.0,
			Additives: map[string]float64{
				"quartz_powder":  5.0,
				"natural_fibers": 2.0,
				"lime":           3.0,
			},
			CompressionMPa:         Range{2.5, 5.5},
			ThermalConductivityW:   Range{0.9, 1.3},
			ShrinkagePercent:       2.3,
			OptimalMoisturePercent: 11.5,
			ExtrusionPressureBar:   Range{2.5, 4.5},
			CureTimeDays:           35,
			FlowPercent:            100,
		},
	}
}

// DefaultName is the mix used when a request does not name one.
const DefaultName = "standard"

// Get returns the mix for name, or a CONFIG_MATERIAL error.
func Get(name string) (Mix, error) {
	m, ok := mixes()[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Mix{}, errors.UnknownMaterialError(name)
	}
	return m, nil
}

// Names returns the sorted mix names.
func Names() []string {
	table := mixes()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Recommend picks a mix for a stated priority. Unknown priorities get
// the standard mix.
func Recommend(priority string) Mix {
	recommendations := map[string]string{
		"balanced":   "standard",
		"strength":   "high_strength",
		"structural": "high_strength",
		"thermal":    "thermal",
		"insulation": "thermal",
		"resonance":  "resonance",
		"acoustic":   "resonance",
	}
	name, ok := recommendations[strings.ToLower(priority)]
	if !ok {
		name = DefaultName
	}
	m, _ := Get(name)
	return m
}

// Report renders a material specification report for a print volume.
func Report(project string, volumeM3 float64, m Mix) string {
	q := m.MixingQuantities(volumeM3)

	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	sep := strings.Repeat("-", 40)

	sb.WriteString(rule + "\n")
	sb.WriteString("EARTH PRINTING MATERIAL SPECIFICATION\n")
	sb.WriteString(rule + "\n\n")
	fmt.Fprintf(&sb, "Project: %s\n", project)
	fmt.Fprintf(&sb, "Mix Type: %s\n", m.Name)
	fmt.Fprintf(&sb, "Volume: %.2f m3\n\n", volumeM3)

	sb.WriteString("COMPOSITION\n" + sep + "\n")
	fmt.Fprintf(&sb, "  Clay:    %g%% (%.0f kg)\n", m.ClayPercent, q.ClayKg)
	fmt.Fprintf(&sb, "  Sand:    %g%% (%.0f kg)\n", m.SandPercent, q.SandKg)
	fmt.Fprintf(&sb, "  Silt:    %g%% (%.0f kg)\n", m.SiltPercent, q.SiltKg)
	fmt.Fprintf(&sb, "  Water:   %g%% (%.0f L)\n\n", m.WaterPercent, q.WaterLiters)

	sb.WriteString("ADDITIVES\n" + sep + "\n")
	names := make([]string, 0, len(q.AdditivesKg))
	for name := range q.AdditivesKg {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %.1f kg\n", titleCase(name), q.AdditivesKg[name])
	}

	sb.WriteString("\nPERFORMANCE SPECIFICATIONS\n" + sep + "\n")
	fmt.Fprintf(&sb, "  Compression: %s MPa\n", m.CompressionMPa)
	fmt.Fprintf(&sb, "  Thermal: %s W/mK\n", m.ThermalConductivityW)
	fmt.Fprintf(&sb, "  Shrinkage: %g%%\n", m.ShrinkagePercent)

	sb.WriteString("\nPRINTING PARAMETERS\n" + sep + "\n")
	fmt.Fprintf(&sb, "  Optimal moisture: %g%%\n", m.OptimalMoisturePercent)
	fmt.Fprintf(&sb, "  Extrusion pressure: %s bar\n", m.ExtrusionPressureBar)
	fmt.Fprintf(&sb, "  Cure time: %d days\n", m.CureTimeDays)

	sb.WriteString("\nNOTES\n" + sep + "\n")
	sb.WriteString("  - Calibrated for WASP Crane - adjust for other printers\n")
	sb.WriteString("  - Source local materials within 50km when possible\n")
	sb.WriteString("  - Test mix before full production\n")
	sb.WriteString("  - Cover and protect from rain during curing\n\n")
	sb.WriteString(rule + "\n")

	return sb.String()
}

func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
