package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/alloc"
)

// resolveConfig starts from the named preset and overlays any fields set in
// the YAML file at path. Unknown keys are rejected.
//
//	name: tuned
//	linear_bits: 6
//	big_size: 128
func resolveConfig(preset, path string) (alloc.Config, error) {
	cfg, ok := alloc.Preset(preset)
	if !ok {
		return alloc.Config{}, fmt.Errorf("unknown preset %q", preset)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return alloc.Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return alloc.Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return alloc.Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
