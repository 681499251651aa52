// Package project loads sikoc.toml, the project manifest naming the
// entry module/function internal/pipeline compiles from and the build
// toggles cmd/sikoc exposes as flags.
//
// Ported from vovakirdan-surge/cmd/surge/project_manifest.go's
// toml.DecodeFile + meta.IsDefined shape: decode into nested structs
// tagged with their TOML keys, then use the returned toml.MetaData to
// tell "key absent" apart from "key present with its zero value".
package project

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Manifest is the parsed form of sikoc.toml.
type Manifest struct {
	Project struct {
		Name  string `toml:"name"`
		Entry string `toml:"entry"`
	} `toml:"project"`

	Target struct {
		Triple string `toml:"triple"`
	} `toml:"target"`

	Build struct {
		DCE bool   `toml:"dce"`
		UI  string `toml:"ui"`
	} `toml:"build"`
}

// LoadManifest parses the manifest at path. Unknown keys are ignored
// (forward-compatible); [project] and [project].name are required.
// [project].entry defaults to "main" and [build].ui to "auto" when the
// key is absent or empty.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse manifest: %w", path, err)
	}
	if !meta.IsDefined("project") {
		return nil, fmt.Errorf("%s: missing [project] section", path)
	}
	if !meta.IsDefined("project", "name") || m.Project.Name == "" {
		return nil, fmt.Errorf("%s: [project].name is required", path)
	}
	if m.Project.Entry == "" {
		m.Project.Entry = "main"
	}
	if m.Build.UI == "" {
		m.Build.UI = "auto"
	}
	return &m, nil
}
