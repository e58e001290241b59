package relbump

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SettingsFile is the name of the optional per-repository settings file.
const SettingsFile = ".relbump.yaml"

// Build profiles. v2 runs update, clippy and fmt; v1 cleans and compiles
// instead of linting.
const (
	ProfileV1 = "v1"
	ProfileV2 = "v2"
)

// BuildSettings configures the build tool and which steps run before the
// release commit.
type BuildSettings struct {
	Tool         string `yaml:"tool"`
	Profile      string `yaml:"profile"`
	DenyWarnings *bool  `yaml:"deny_warnings,omitempty"`
}

// Settings models .relbump.yaml.
type Settings struct {
	Manifest string        `yaml:"manifest"`
	Remote   string        `yaml:"remote"`
	Build    BuildSettings `yaml:"build"`
}

// DefaultSettings returns the settings used when no file is present.
func DefaultSettings() Settings {
	deny := true
	return Settings{
		Manifest: "Cargo.toml",
		Remote:   "origin",
		Build: BuildSettings{
			Tool:         "cargo",
			Profile:      ProfileV2,
			DenyWarnings: &deny,
		},
	}
}

// DenyWarnings reports whether lint warnings fail the build.
func (s Settings) DenyWarnings() bool {
	return s.Build.DenyWarnings == nil || *s.Build.DenyWarnings
}

// ManifestPath resolves the manifest location against repo.
func (s Settings) ManifestPath(repo string) string {
	if filepath.IsAbs(s.Manifest) {
		return s.Manifest
	}
	return filepath.Join(repo, s.Manifest)
}

// LoadSettings reads <repo>/.relbump.yaml. A missing file, or a missing
// repository, yields the defaults; the repository itself is validated
// later by git.
func LoadSettings(repo string) (Settings, error) {
	settings := DefaultSettings()
	path := filepath.Join(repo, SettingsFile)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, newError(KindSettings, path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && err != io.EOF {
		return settings, newError(KindSettings, path, errors.Wrap(err, "parse settings"))
	}

	defaults := DefaultSettings()
	if settings.Manifest == "" {
		settings.Manifest = defaults.Manifest
	}
	if settings.Remote == "" {
		settings.Remote = defaults.Remote
	}
	if settings.Build.Tool == "" {
		settings.Build.Tool = defaults.Build.Tool
	}
	if settings.Build.Profile == "" {
		settings.Build.Profile = defaults.Build.Profile
	}
	switch settings.Build.Profile {
	case ProfileV1, ProfileV2:
	default:
		return settings, newError(KindSettings, path, errors.Errorf("unknown build profile %q", settings.Build.Profile))
	}
	return settings, nil
}
