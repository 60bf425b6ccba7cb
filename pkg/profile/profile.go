// Package profile holds the catalog of printer hardware envelopes.
//
// A Profile describes the physical limits of one large-format earth
// printer. Profiles are loaded into a Registry once at startup and are
// never mutated afterwards; the registry is safe for concurrent readers.
package profile

// Profile describes the envelope and printing defaults of one printer.
// Dimensions follow the machine datasheets: reach and height in meters,
// nozzle and layer height in millimeters, speed in mm/s.
type Profile struct {
	Name                 string  `yaml:"name"`
	ReachRadiusM         float64 `yaml:"reach_radius_m"`
	MaxHeightM           float64 `yaml:"max_height_m"`
	NozzleDiameterMM     float64 `yaml:"nozzle_diameter_mm"`
	DefaultLayerHeightMM float64 `yaml:"default_layer_height_mm"`
	MaxSpeedMMS          float64 `yaml:"max_speed_mm_s"`
	Firmware             string  `yaml:"firmware"`
}

// NozzleDiameterM returns the nozzle diameter in meters.
func (p Profile) NozzleDiameterM() float64 {
	return p.NozzleDiameterMM / 1000
}

// DefaultLayerHeightM returns the default layer height in meters.
func (p Profile) DefaultLayerHeightM() float64 {
	return p.DefaultLayerHeightMM / 1000
}

// DefaultID is the profile used when a lookup does not match any
// registered id. The fallback mirrors the calibration target of the
// G-code dialect: the WASP Crane.
const DefaultID = "wasp_crane"

// Built-in profiles. Representative values from vendor datasheets.
func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"wasp_crane": {
			Name:                 "WASP Crane",
			ReachRadiusM:         3.0,
			MaxHeightM:           3.5,
			NozzleDiameterMM:     40.0,
			DefaultLayerHeightMM: 20.0,
			MaxSpeedMMS:          50.0,
			Firmware:             "Marlin",
		},
		"generic_earth": {
			Name:                 "Generic Earth Printer",
			ReachRadiusM:         2.5,
			MaxHeightM:           3.0,
			NozzleDiameterMM:     35.0,
			DefaultLayerHeightMM: 15.0,
			MaxSpeedMMS:          40.0,
			Firmware:             "Marlin",
		},
		"cobod_bod2": {
			Name: "COBOD BOD2",
			// Gantry machine; radius models the half-span.
			ReachRadiusM:         10.0,
			MaxHeightM:           8.4,
			NozzleDiameterMM:     50.0,
			DefaultLayerHeightMM: 25.0,
			MaxSpeedMMS:          60.0,
			Firmware:             "Marlin",
		},
	}
}

// builtinAliases maps shorthand ids onto canonical profile ids.
func builtinAliases() map[string]string {
	return map[string]string{
		"wasp":    "wasp_crane",
		"generic": "generic_earth",
		"cobod":   "cobod_bod2",
	}
}
