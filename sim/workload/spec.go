// Package workload produces the finite ordered key sequences a simulation
// replays. Kinds cover synthetic patterns (realistic, scan, random, zipf),
// caller-supplied literal sequences (custom), and Lua-scripted selection
// (lua). Generation is deterministic given the same Spec and seed.
package workload

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cachesim/cachesim/sim"
)

// Workload kinds.
const (
	KindRealistic = "realistic" // 80/20 hot/cold skew
	KindScan      = "scan"      // sequential sweep over the key space
	KindRandom    = "random"    // uniform over the key space
	KindCustom    = "custom"    // caller-supplied literal sequence
	KindZipf      = "zipf"      // Zipfian skew with parameter theta
	KindLua       = "lua"       // user script picks every key
)

// DefaultTheta is the zipf skew applied when Spec.Theta is left zero.
const DefaultTheta = 0.99

// Spec is the workload configuration for one run.
// Loaded from YAML via LoadSpec(path) or built directly.
type Spec struct {
	Kind       string    `yaml:"kind"`
	Size       int       `yaml:"size"`                  // sequence length (ignored by custom)
	KeySpace   int       `yaml:"key_space,omitempty"`   // universe item-0..item-(KeySpace-1); 0 = Size
	Seed       int64     `yaml:"seed,omitempty"`        // reproducibility seed for randomized kinds
	Theta      float64   `yaml:"theta,omitempty"`       // zipf skew in (0,1); 0 = DefaultTheta
	Keys       []sim.Key `yaml:"keys,omitempty"`        // custom only
	Script     string    `yaml:"script,omitempty"`      // lua only, inline source
	ScriptFile string    `yaml:"script_file,omitempty"` // lua only, read when Script is empty
}

// Valid value registries.
var validKinds = map[string]bool{
	KindRealistic: true,
	KindScan:      true,
	KindRandom:    true,
	KindCustom:    true,
	KindZipf:      true,
	KindLua:       true,
}

// LoadSpec reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload file: %w", err)
	}
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload file: %w", err)
	}
	return &spec, nil
}

// withDefaults fills the optional fields. KeySpace falls back to Size so a
// bare {kind, size} spec sweeps as many distinct keys as it has steps.
func (s Spec) withDefaults() Spec {
	if s.KeySpace == 0 {
		s.KeySpace = s.Size
	}
	if s.Theta == 0 {
		s.Theta = DefaultTheta
	}
	return s
}

// Validate checks the spec before generation. Every failure wraps
// sim.ErrInvalidWorkload so callers can test with errors.Is.
func (s *Spec) Validate() error {
	if !validKinds[s.Kind] {
		return fmt.Errorf("%w: unknown kind %q; valid: realistic, scan, random, custom, zipf, lua", sim.ErrInvalidWorkload, s.Kind)
	}
	if s.Kind == KindCustom {
		if len(s.Keys) == 0 {
			return fmt.Errorf("%w: custom workload is empty", sim.ErrInvalidWorkload)
		}
		for i, k := range s.Keys {
			if k == "" {
				return fmt.Errorf("%w: keys[%d] is empty", sim.ErrInvalidWorkload, i)
			}
		}
		return nil
	}
	if s.Size < 1 {
		return fmt.Errorf("%w: size must be >= 1, got %d", sim.ErrInvalidWorkload, s.Size)
	}
	if s.KeySpace < 1 {
		return fmt.Errorf("%w: key_space must be >= 1, got %d", sim.ErrInvalidWorkload, s.KeySpace)
	}
	if s.Kind == KindZipf && (s.Theta <= 0 || s.Theta >= 1) {
		return fmt.Errorf("%w: theta must be in (0,1), got %f", sim.ErrInvalidWorkload, s.Theta)
	}
	if s.Kind == KindLua && s.Script == "" && s.ScriptFile == "" {
		return fmt.Errorf("%w: lua workload needs script or script_file", sim.ErrInvalidWorkload)
	}
	return nil
}

// ParseKeys splits a delimited custom-workload string (commas and any
// whitespace) into keys, the same way the dashboard form posts them.
func ParseKeys(text string) ([]sim.Key, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: custom workload is empty", sim.ErrInvalidWorkload)
	}
	keys := make([]sim.Key, len(fields))
	for i, f := range fields {
		keys[i] = sim.Key(f)
	}
	return keys, nil
}
