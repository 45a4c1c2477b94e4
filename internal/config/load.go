package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the YAML file at path on top of Default.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, oops.Code("CONFIG_OPEN").With("path", path).Wrap(err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	c.BaseDir = filepath.Dir(path)
	return c, nil
}

// Decode reads YAML from r on top of Default and validates the result.
// Unknown keys are rejected. An empty document yields the defaults.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, oops.Code("CONFIG_DECODE").Wrap(fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes c as YAML.
func Encode(w io.Writer, c *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return oops.Code("CONFIG_ENCODE").Wrap(err)
	}
	return enc.Close()
}

// ResolvePath makes a map image path absolute against BaseDir.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}
