// Package diskopt holds the tunable settings for a disk-backed tree:
// branching order and the filesystem modes used for its directory and node
// files, loadable from YAML the way the teacher's pkg/config loads its
// service configuration.
package diskopt

import (
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Options controls how a disk-backed tree lays out and writes its files.
type Options struct {
	Order          int         `yaml:"order"`
	DirMode        fs.FileMode `yaml:"dir_mode"`
	FileMode       fs.FileMode `yaml:"file_mode"`
	FsyncOnPersist bool        `yaml:"fsync_on_persist"`
}

// DefaultOptions returns the settings a tree uses when none are supplied
// explicitly.
func DefaultOptions() Options {
	return Options{
		Order:          3,
		DirMode:        0o750,
		FileMode:       0o640,
		FsyncOnPersist: false,
	}
}

// LoadOptions reads and parses a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, errors.Wrapf(err, "diskopt: read %s", path)
	}
	opt := DefaultOptions()
	if err := yaml.Unmarshal(data, &opt); err != nil {
		return Options{}, errors.Wrapf(err, "diskopt: parse %s", path)
	}
	if opt.Order < 3 {
		opt.Order = 3
	}
	return opt, nil
}

// SaveOptions writes opt to path in YAML form.
func SaveOptions(opt Options, path string) error {
	data, err := yaml.Marshal(opt)
	if err != nil {
		return errors.Wrap(err, "diskopt: marshal options")
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return errors.Wrapf(err, "diskopt: write %s", path)
	}
	return nil
}
