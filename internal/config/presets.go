package config

import (
	"sort"

	"github.com/san-kum/orbitprop/internal/elements"
	"github.com/san-kum/orbitprop/internal/propagation"
)

func preset(kind string, el elements.Classical, p, tf, step float64) *Config {
	cfg := DefaultConfig()
	cfg.Propagator = kind
	cfg.Elements = ElementsConfig{Classical: el, P: p}
	cfg.TF = tf
	cfg.Step = step
	return cfg
}

var Presets = map[string]*Config{
	// One revolution of a circular 7000 km orbit.
	"leo": preset(propagation.KindUniversal, elements.Classical{SemiMajorAxis: 7e6}, 0, period(7e6), 0),
	// Periapsis to apoapsis.
	"eccentric": preset(propagation.KindUniversal, elements.Classical{
		SemiMajorAxis: 1e7, Eccentricity: 0.1, RAAN: 0.3, ArgPeriapsis: 0.5, Inclination: 0.4,
	}, 0, period(1e7)/2, 0),
	// Inbound leg, about 2650 s before periapsis.
	"hyperbolic": preset(propagation.KindUniversal, elements.Classical{
		SemiMajorAxis: -8e6, Eccentricity: 1.5, RAAN: 1.0, ArgPeriapsis: 0.2, Inclination: 0.3, TrueAnomaly: -2,
	}, 0, 1000, 10),
	// r_p = 7000 km, e = 0.999999.
	"near-parabolic": preset(propagation.KindUniversal, elements.Classical{
		SemiMajorAxis: 7e6 / (1 - 0.999999), Eccentricity: 0.999999, Inclination: 0.2,
	}, 0, 20000, 100),
	"parabolic": preset(propagation.KindUniversal, elements.Classical{
		Eccentricity: 1, Inclination: 0.2,
	}, 1.4e7, 20000, 100),
	"molniya": preset(propagation.KindClassical, elements.Classical{
		SemiMajorAxis: 26.6e6, Eccentricity: 0.74, RAAN: 1.0, ArgPeriapsis: 4.71, Inclination: 1.1065,
	}, 0, period(26.6e6), 60),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
