// Printer profile registry
//
// The registry is populated from the built-in table, optionally
// overlaid from a YAML file, then sealed. After sealing it is
// read-only and safe for concurrent lookups.
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"earthpath/pkg/errors"
	"earthpath/pkg/log"
)

var logger = log.GetLogger("profile")

// Registry is an immutable catalog of printer profiles keyed by id.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	aliases  map[string]string
	sealed   bool
}

// NewRegistry creates a registry pre-populated with the built-in
// profile table and aliases. The registry is still open for overlays.
func NewRegistry() *Registry {
	return &Registry{
		profiles: builtinProfiles(),
		aliases:  builtinAliases(),
	}
}

// overlayFile is the YAML shape accepted by LoadOverlay:
//
//	profiles:
//	  my_printer:
//	    name: My Printer
//	    reach_radius_m: 4.0
//	    ...
type overlayFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadOverlay adds or replaces profiles from a YAML file. Only valid
// before Seal; replacing a built-in is allowed and logged.
func (r *Registry) LoadOverlay(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.New(errors.ErrConfigValue, "profile registry is sealed")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValue, fmt.Sprintf("reading profile overlay %s", path))
	}

	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return errors.Wrap(err, errors.ErrConfigValue, fmt.Sprintf("parsing profile overlay %s", path))
	}

	for id, p := range overlay.Profiles {
		id = normalizeID(id)
		if err := validateProfile(id, p); err != nil {
			return err
		}
		if _, exists := r.profiles[id]; exists {
			logger.Warn("overlay replaces built-in profile %q", id)
		}
		r.profiles[id] = p
	}
	return nil
}

// Seal freezes the registry. Further overlays fail.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Lookup returns the profile for id. Unknown ids fall back to the
// profile named by DefaultID; the fallback is deliberate (the dialect
// is calibrated for the WASP Crane) and is logged so it never happens
// silently. Use LookupStrict when the id came from user input.
func (r *Registry) Lookup(id string) Profile {
	if normalizeID(id) == "" {
		id = DefaultID
	}
	p, err := r.LookupStrict(id)
	if err != nil {
		logger.Warn("unknown printer id %q, falling back to %q", id, DefaultID)
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.profiles[DefaultID]
	}
	return p
}

// LookupStrict returns the profile for id, or a CONFIG_PRINTER error
// when it matches neither a profile id nor an alias.
func (r *Registry) LookupStrict(id string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalizeID(id)
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	p, ok := r.profiles[key]
	if !ok {
		return Profile{}, errors.UnknownPrinterError(id)
	}
	return p, nil
}

// IDs returns the sorted canonical profile ids.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func validateProfile(id string, p Profile) error {
	switch {
	case p.Name == "":
		return errors.ConfigValueError("name", fmt.Sprintf("profile %q: name must be set", id))
	case p.ReachRadiusM <= 0:
		return errors.ConfigValueError("reach_radius_m", fmt.Sprintf("profile %q: reach radius must be positive", id))
	case p.MaxHeightM <= 0:
		return errors.ConfigValueError("max_height_m", fmt.Sprintf("profile %q: max height must be positive", id))
	case p.NozzleDiameterMM <= 0:
		return errors.ConfigValueError("nozzle_diameter_mm", fmt.Sprintf("profile %q: nozzle diameter must be positive", id))
	case p.DefaultLayerHeightMM <= 0:
		return errors.ConfigValueError("default_layer_height_mm", fmt.Sprintf("profile %q: layer height must be positive", id))
	case p.MaxSpeedMMS <= 0:
		return errors.ConfigValueError("max_speed_mm_s", fmt.Sprintf("profile %q: max speed must be positive", id))
	}
	return nil
}
