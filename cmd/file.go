package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AmateurECE/dev-proxy/backend"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the content of a configuration file.
type File struct {
	Listen string               `yaml:"listen" toml:"listen"`
	Root   string               `yaml:"root" toml:"root"`
	Routes []backend.Definition `yaml:"routes" toml:"routes"`
}

// LoadFile reads a YAML (.yaml, .yml) or TOML (.toml) configuration file.
// Unknown keys are an error.
func LoadFile(path string) (*File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var file File

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(fp)
		decoder.KnownFields(true)

		if err := decoder.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

	case ".toml":
		md, err := toml.NewDecoder(fp).Decode(&file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		if undecoded := md.Undecoded(); len(undecoded) != 0 {
			return nil, fmt.Errorf("%s: unknown key '%s'", path, undecoded[0])
		}

	default:
		return nil, fmt.Errorf("%s: unsupported configuration format, expected .yaml, .yml or .toml", path)
	}

	return &file, nil
}
