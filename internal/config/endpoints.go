package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xelth-com/eckcheckin/internal/models"
)

// ErrInvalidChecks is returned for a checks file that cannot be used
var ErrInvalidChecks = errors.New("invalid checks file")

type checksFile struct {
	Checks []models.Endpoint `yaml:"checks"`
}

// LoadEndpoints reads the gateway check list from a YAML file.
// An empty path yields the built-in list.
//
//	checks:
//	  - path: /docs
//	    name: FastAPI Documentation
func LoadEndpoints(path string) ([]models.Endpoint, error) {
	if path == "" {
		return append([]models.Endpoint(nil), models.DefaultEndpoints...), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checks file: %w", err)
	}
	return ParseEndpoints(data)
}

// ParseEndpoints decodes and validates a YAML check list
func ParseEndpoints(data []byte) ([]models.Endpoint, error) {
	var f checksFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChecks, err)
	}
	if len(f.Checks) == 0 {
		return nil, fmt.Errorf("%w: no checks defined", ErrInvalidChecks)
	}

	for i := range f.Checks {
		ep := &f.Checks[i]
		ep.Path = strings.TrimSpace(ep.Path)
		if !strings.HasPrefix(ep.Path, "/") {
			return nil, fmt.Errorf("%w: check %d: path %q must start with /", ErrInvalidChecks, i+1, ep.Path)
		}
		if ep.Name == "" {
			ep.Name = ep.Path
		}
	}
	return f.Checks, nil
}
