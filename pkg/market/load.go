package market

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/robaho/go-symbols/internal/log"
)

// File is the YAML layout of a market table, e.g.
//
//	markets:
//	  mybroker: 200
//	  ${EXTRA_MARKET}: 201
type File struct {
	Markets map[string]int `yaml:"markets"`
}

// LoadFile adds the markets listed in a YAML file to the registry.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open market file")
	}
	defer f.Close()

	return r.Load(f)
}

// Load reads a YAML market table, expanding ${VAR} environment references.
// A table with any conflict adds nothing.
func (r *Registry) Load(in io.Reader) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "read market table")
	}
	expanded := os.ExpandEnv(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return errors.Wrap(err, "parse market yaml")
	}
	if err := r.AddAll(file.Markets); err != nil {
		return err
	}
	log.Logger.Info("loaded markets", zap.Int("count", len(file.Markets)))
	return nil
}
