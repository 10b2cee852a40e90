// Package scenario reads and writes named investment scenarios as TOML,
// YAML or JSON files.
package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/projection"
)

// ErrUnsupportedFormat is returned for file extensions other than .toml,
// .yaml, .yml and .json.
var ErrUnsupportedFormat = errors.New("unsupported scenario format")

// Scenario is a named set of cost model parameters and a horizon.
type Scenario struct {
	Name        string           `json:"name" toml:"name" yaml:"name"`
	Description string           `json:"description,omitempty" toml:"description,omitempty" yaml:"description,omitempty"`
	Horizon     int              `json:"horizon_months,omitempty" toml:"horizon_months,omitempty" yaml:"horizon_months,omitempty"`
	Params      costmodel.Params `json:"params" toml:"params" yaml:"params"`
}

// New returns a scenario with default parameters.
func New(name string) Scenario {
	return Scenario{
		Name:    name,
		Horizon: projection.DefaultHorizonMonths,
		Params:  costmodel.Defaults(),
	}
}

// HorizonOr returns the scenario horizon, or fallback when unset.
func (s Scenario) HorizonOr(fallback int) int {
	if s.Horizon > 0 {
		return s.Horizon
	}
	return fallback
}

func format(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return "toml", nil
	case ".yaml", ".yml":
		return "yaml", nil
	case ".json":
		return "json", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// LoadFile reads a scenario file. Fields missing from the file keep their
// defaults; a missing name falls back to the file's base name.
func LoadFile(path string) (Scenario, error) {
	kind, err := format(path)
	if err != nil {
		return Scenario{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("error accessing scenario file: %w", err)
	}
	if info.IsDir() {
		return Scenario{}, fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is supplied by the local user
	if err != nil {
		return Scenario{}, fmt.Errorf("error reading scenario file: %w", err)
	}

	s := New("")
	switch kind {
	case "toml":
		if err := toml.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &s); err != nil {
			return Scenario{}, fmt.Errorf("error parsing JSON file: %w", err)
		}
	}

	if err := s.Params.CheckFinite(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}

	if s.Name == "" {
		base := filepath.Base(path)
		s.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return s, nil
}

// Encode renders s in the format implied by path's extension.
func Encode(path string, s Scenario) ([]byte, error) {
	kind, err := format(path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "yaml":
		return yaml.Marshal(s)
	default:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// WriteFile writes s to path, creating parent directories.
func WriteFile(path string, s Scenario) error {
	data, err := Encode(path, s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating scenario dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}
