// Package config loads process settings from the environment and validator
// model declarations from YAML or JSON files.
package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/modelguard/pkg/confmap"
)

// SectionKey is the top-level key a models file may nest its validator section under.
const SectionKey = "validator"

var dotenvOnce sync.Once

// Load fills v from environment variables according to its env tags.
// A .env file in the working directory is read once per process; a missing
// file is not an error and real environment variables take precedence.
//
//	type Settings struct {
//		ModelsFile string `env:"MODELGUARD_MODELS_FILE" envDefault:"models.yaml"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil { ... }
func Load[T any](v *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad is like Load but panics on error.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// LoadModelsFile reads a YAML or JSON file and returns its validator section
// with authored key order preserved. When the root mapping has a validator
// key its value is returned, otherwise the root itself.
func LoadModelsFile(path string) (*confmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrReadModels, err)
	}
	return ParseModels(path, data)
}

// ParseModels is LoadModelsFile for data already in memory. name selects the
// decoder by extension.
func ParseModels(name string, data []byte) (*confmap.Map, error) {
	v, err := confmap.Decode(name, data)
	if err != nil {
		return nil, errors.Join(ErrReadModels, err)
	}
	root, ok := v.(*confmap.Map)
	if !ok {
		return nil, errors.Join(ErrReadModels, confmap.ErrNotMapping)
	}
	if section, ok := root.Get(SectionKey); ok {
		if m, ok := section.(*confmap.Map); ok {
			return m, nil
		}
	}
	return root, nil
}
