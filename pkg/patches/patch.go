package patches

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/relfetch/pkg/errors"
)

// Patch is one entry of a patch catalog.
//
// Declared fields without a dedicated struct field are kept in Fields so a
// newer catalog format round-trips without loss.
type Patch struct {
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	Version            string              `json:"version,omitempty"`
	Excluded           bool                `json:"excluded"`
	Dependencies       []string            `json:"dependencies,omitempty"`
	CompatiblePackages []CompatiblePackage `json:"compatiblePackages,omitempty"`
	Options            []Option            `json:"options,omitempty"`

	Fields map[string]any `json:"-"`
}

// CompatiblePackage names an app a patch applies to. Empty Versions means
// every version.
type CompatiblePackage struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions,omitempty"`
}

// Option is a user-configurable patch setting.
type Option struct {
	Key         string `json:"key"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     any    `json:"default,omitempty"`
}

var knownFields = []string{
	"name", "description", "version", "excluded",
	"dependencies", "compatiblePackages", "options",
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	type plain Patch
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, k := range knownFields {
		delete(all, k)
	}
	if len(all) > 0 {
		v.Fields = all
	}
	*p = Patch(v)
	return nil
}

func (p Patch) MarshalJSON() ([]byte, error) {
	type plain Patch
	known, err := json.Marshal(plain(p))
	if err != nil || len(p.Fields) == 0 {
		return known, err
	}
	merged := make(map[string]any, len(p.Fields)+len(knownFields))
	for k, v := range p.Fields {
		merged[k] = v
	}
	var base map[string]any
	if err := json.Unmarshal(known, &base); err != nil {
		return nil, err
	}
	for k, v := range base {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Supports reports whether the patch applies to pkg at version. An empty
// version matches any listed version.
func (p Patch) Supports(pkg, version string) bool {
	for _, cp := range p.CompatiblePackages {
		if cp.Name != pkg {
			continue
		}
		if version == "" || len(cp.Versions) == 0 {
			return true
		}
		return slices.Contains(cp.Versions, version)
	}
	return false
}

// Parse decodes a patch catalog document. Any decoding problem fails the
// whole document; a partial list is never returned.
func Parse(data []byte) ([]Patch, error) {
	var list []Patch
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformed, err, "decode patch catalog")
	}
	for i, p := range list {
		if p.Name == "" {
			return nil, errors.New(errors.ErrCodeMalformed, "patch catalog entry %d has no name", i)
		}
	}
	return list, nil
}

// Filter returns the patches supporting pkg at version, skipping excluded
// ones unless includeExcluded is set.
func Filter(list []Patch, pkg, version string, includeExcluded bool) []Patch {
	var out []Patch
	for _, p := range list {
		if p.Excluded && !includeExcluded {
			continue
		}
		if pkg != "" && !p.Supports(pkg, version) {
			continue
		}
		out = append(out, p)
	}
	return out
}
