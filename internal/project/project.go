// Package project reads and writes project.toml, the project metadata that
// saved runs are filed under.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	ckerrors "vkfcheck/internal/errors"
	"vkfcheck/internal/paths"
)

// Construction is the predominant construction method of the building.
type Construction string

const (
	ConstructionConcrete Construction = "concrete"
	ConstructionTimber   Construction = "timber"
	ConstructionSteel    Construction = "steel"
	ConstructionOther    Construction = "other"
	ConstructionUnknown  Construction = "unknown"
)

var constructions = []Construction{
	ConstructionConcrete,
	ConstructionTimber,
	ConstructionSteel,
	ConstructionOther,
	ConstructionUnknown,
}

// Info is the content of project.toml.
type Info struct {
	// Number is the project number. It is required.
	Number string `toml:"number" json:"number"`

	// Name is the human-readable project name
	Name string `toml:"name,omitempty" json:"name,omitempty"`

	// Usage describes the building use, e.g. "residential"
	Usage string `toml:"usage,omitempty" json:"usage,omitempty"`

	// Construction is one of concrete, timber, steel, other, unknown
	Construction Construction `toml:"construction,omitempty" json:"construction,omitempty"`
}

// Example returns the project written by "project init" when no flags are given.
func Example() *Info {
	return &Info{
		Number:       "0000",
		Name:         "New project",
		Usage:        "-",
		Construction: ConstructionUnknown,
	}
}

// Validate checks the required number and the construction value.
func (i *Info) Validate() error {
	if strings.TrimSpace(i.Number) == "" {
		return ckerrors.NewCheckError(ckerrors.ProjectInvalid, "project number must not be empty", nil, nil)
	}
	if i.Construction == "" {
		return nil
	}
	for _, c := range constructions {
		if i.Construction == c {
			return nil
		}
	}
	return ckerrors.NewCheckError(ckerrors.ProjectInvalid,
		fmt.Sprintf("unknown construction %q", i.Construction), nil, nil).
		WithDetails(map[string]interface{}{"allowed": constructions})
}

// Parse decodes and validates project.toml content.
func Parse(data []byte) (*Info, error) {
	var info Info
	if err := toml.Unmarshal(data, &info); err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.ProjectInvalid, "failed to parse project file", err, nil)
	}
	info.Number = strings.TrimSpace(info.Number)
	info.Name = strings.TrimSpace(info.Name)
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return &info, nil
}

// Load reads the project file at path. A missing file is reported as
// PROJECT_INVALID.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ckerrors.NewCheckError(ckerrors.ProjectInvalid,
			fmt.Sprintf("project file not found: %s", path), err, nil)
	}
	if err != nil {
		return nil, ckerrors.NewCheckError(ckerrors.ProjectInvalid, "failed to read project file", err, nil)
	}
	info, err := Parse(data)
	if err != nil {
		if ce, ok := err.(*ckerrors.CheckError); ok && ce.Details == nil {
			ce.WithDetails(map[string]string{"path": path})
		}
		return nil, err
	}
	return info, nil
}

// LoadDefault reads <root>/project.toml.
func LoadDefault(root string) (*Info, error) {
	return Load(paths.GetProjectPath(root))
}

// Save validates i and writes it to path. An existing file is only replaced
// when overwrite is set.
func (i *Info) Save(path string, overwrite bool) error {
	if err := i.Validate(); err != nil {
		return err
	}
	if !overwrite && paths.FileExists(path) {
		return fmt.Errorf("project file already exists: %s", path)
	}

	data, err := toml.Marshal(i)
	if err != nil {
		return fmt.Errorf("failed to encode project file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}
	return nil
}
