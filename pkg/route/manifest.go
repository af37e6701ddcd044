package route

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Groups []manifestGroup `yaml:"groups"`
}

type manifestGroup struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Actions     []manifestAction `yaml:"actions"`
}

type manifestAction struct {
	Name        string              `yaml:"name"`
	Method      string              `yaml:"method"`
	Template    string              `yaml:"template"`
	Summary     string              `yaml:"summary"`
	Description string              `yaml:"description"`
	Parameters  []manifestParameter `yaml:"parameters"`
}

type manifestParameter struct {
	Name        string   `yaml:"name"`
	Schema      string   `yaml:"schema"`
	Format      string   `yaml:"format"`
	Required    bool     `yaml:"required"`
	Source      string   `yaml:"source"`
	Description string   `yaml:"description"`
	Default     string   `yaml:"default"`
	Enum        []string `yaml:"enum"`
}

// LoadManifest decodes a YAML route manifest. Unknown keys are rejected and
// every group is validated, so malformed templates surface here.
func LoadManifest(r io.Reader) ([]Group, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("route: decode manifest: %w", err)
	}

	groups := make([]Group, 0, len(raw.Groups))
	for _, rg := range raw.Groups {
		actions := make([]Action, 0, len(rg.Actions))
		for _, ra := range rg.Actions {
			action := Action{
				Name:        strings.TrimSpace(ra.Name),
				Method:      ra.Method,
				Template:    ra.Template,
				Summary:     ra.Summary,
				Description: ra.Description,
			}
			for _, rp := range ra.Parameters {
				source, err := ParseSource(rp.Source)
				if err != nil {
					return nil, fmt.Errorf("route: manifest group %q action %q: %w", rg.Name, ra.Name, err)
				}
				action.Parameters = append(action.Parameters, Parameter{
					Name:        strings.TrimSpace(rp.Name),
					Schema:      rp.Schema,
					Format:      rp.Format,
					Required:    rp.Required || source == SourcePath,
					Source:      source,
					Description: rp.Description,
					Default:     rp.Default,
					Enum:        append([]string(nil), rp.Enum...),
				})
			}
			actions = append(actions, action)
		}
		group, err := NewGroup(rg.Name, actions...)
		if err != nil {
			return nil, err
		}
		group.Description = rg.Description
		groups = append(groups, group)
	}
	return groups, nil
}

// LoadManifestFile reads a YAML route manifest from disk.
func LoadManifestFile(path string) ([]Group, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("route: open manifest: %w", err)
	}
	defer f.Close()
	return LoadManifest(f)
}

// ManifestFile is a Provider that reads a manifest on every call, picking up
// edits without a restart.
type ManifestFile string

// Groups implements Provider.
func (m ManifestFile) Groups(ctx context.Context) ([]Group, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadManifestFile(string(m))
}
