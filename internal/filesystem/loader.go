package filesystem

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProfileLoader loads exclusion profiles from YAML files
type ProfileLoader struct {
	profilesPath string
}

// NewProfileLoader creates a new exclusion profile loader
func NewProfileLoader(profilesPath string) *ProfileLoader {
	return &ProfileLoader{
		profilesPath: profilesPath,
	}
}

// ProfileFile represents a YAML exclusion profile
//
//	name: docker-hosts
//	exclude:
//	  - /var/lib/containerd/
//	  - /mnt/wsl/
type ProfileFile struct {
	Name    string   `yaml:"name"`
	Exclude []string `yaml:"exclude"`
}

// Load reads every profile in the profiles path (a directory or a single
// file) and returns the combined fragments in file order.
func (l *ProfileLoader) Load() ([]string, error) {
	if l.profilesPath == "" {
		return nil, nil
	}

	// Check if profiles path exists
	info, err := os.Stat(l.profilesPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat profiles: %w", err)
	}

	if !info.IsDir() {
		return l.loadFile(l.profilesPath)
	}

	var fragments []string
	err = filepath.WalkDir(l.profilesPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories and non-YAML files
		if d.IsDir() || (filepath.Ext(path) != ".yaml" && filepath.Ext(path) != ".yml") {
			return nil
		}

		loaded, err := l.loadFile(path)
		if err != nil {
			return err
		}
		fragments = append(fragments, loaded...)
		return nil
	})

	return fragments, err
}

// loadFile loads fragments from a single YAML file
func (l *ProfileLoader) loadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	var profile ProfileFile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return profile.Exclude, nil
}
