package alloc

import (
	"fmt"
	"log/slog"

	"github.com/joshuapare/heapkit/region/dirty"
)

// Config holds the allocator's tuning parameters. None of them affects
// correctness; they trade fragmentation against search length and growth
// frequency.
type Config struct {
	// Name for this configuration (for reports).
	Name string `yaml:"name" json:"name"`

	// LinearBits sets the linear class ceiling to 1<<LinearBits bytes.
	// Blocks below the ceiling get one class per 8 bytes; blocks at or above
	// it get one class per power of two. Must be in [4, 9].
	LinearBits uint `yaml:"linear_bits" json:"linear_bits"`

	// NumClasses is the directory length. The last class collects every
	// block too large for the others.
	NumClasses int `yaml:"num_classes" json:"num_classes"`

	// BigSize is the split-side threshold: blocks larger than this are placed
	// at the right end of the chosen free block.
	BigSize int `yaml:"big_size" json:"big_size"`

	// InitChunk is the size of the first free block created by New.
	InitChunk int `yaml:"init_chunk" json:"init_chunk"`

	// Chunk is the minimum growth when an allocation misses.
	Chunk int `yaml:"chunk" json:"chunk"`

	// ReallocChunk is the minimum growth when an in-place resize needs the
	// region extended.
	ReallocChunk int `yaml:"realloc_chunk" json:"realloc_chunk"`
}

// Predefined configurations.
var (
	// ConfigLab is the default tuning.
	// Classes 16 and 24 are linear, then one class per power of two up to
	// 128KB, then a catch-all.
	ConfigLab = Config{
		Name:         "Lab",
		LinearBits:   5,
		NumClasses:   16,
		BigSize:      96,
		InitChunk:    1 << 7,
		Chunk:        1 << 12,
		ReallocChunk: 1 << 6,
	}

	// FineGrained: linear classes up to 256 bytes (30 classes), then powers
	// of two. Longer directory scans, tighter small-object fits.
	ConfigFineGrained = Config{
		Name:         "FineGrained",
		LinearBits:   8,
		NumClasses:   48,
		BigSize:      256,
		InitChunk:    1 << 12,
		Chunk:        1 << 13,
		ReallocChunk: 1 << 8,
	}

	// Coarse: no linear classes at all, one class per power of two.
	ConfigCoarse = Config{
		Name:         "Coarse",
		LinearBits:   4,
		NumClasses:   12,
		BigSize:      64,
		InitChunk:    1 << 6,
		Chunk:        1 << 12,
		ReallocChunk: 1 << 6,
	}

	// DefaultConfig is used when no WithConfig option is given.
	DefaultConfig = ConfigLab
)

// Presets lists the predefined configurations by name.
func Presets() []Config {
	return []Config{ConfigLab, ConfigFineGrained, ConfigCoarse}
}

// Preset looks up a predefined configuration by name.
func Preset(name string) (Config, bool) {
	for _, c := range Presets() {
		if c.Name == name {
			return c, true
		}
	}
	return Config{}, false
}

// Validate checks the configuration for values the allocator cannot use.
func (c Config) Validate() error {
	if c.LinearBits < 4 || c.LinearBits > 9 {
		return fmt.Errorf("%w: linear_bits %d not in [4, 9]", ErrBadConfig, c.LinearBits)
	}
	if lm := linearClasses(c.LinearBits); c.NumClasses <= lm {
		return fmt.Errorf("%w: num_classes %d must exceed the %d linear classes", ErrBadConfig, c.NumClasses, lm)
	}
	if c.NumClasses > 64 {
		return fmt.Errorf("%w: num_classes %d > 64", ErrBadConfig, c.NumClasses)
	}
	if c.BigSize < 0 || c.InitChunk < 0 || c.ReallocChunk < 0 {
		return fmt.Errorf("%w: negative threshold", ErrBadConfig)
	}
	if c.Chunk < minBlock {
		return fmt.Errorf("%w: chunk %d < %d", ErrBadConfig, c.Chunk, minBlock)
	}
	return nil
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithConfig selects the tuning parameters.
func WithConfig(c Config) Option {
	return func(a *Allocator) { a.cfg = c }
}

// WithLogger sets the logger for growth and fallback decisions.
func WithLogger(l *slog.Logger) Option {
	return func(a *Allocator) { a.log = l }
}

// WithTracker reports every tag and link write to dt, so a file-backed
// region can flush only the pages the allocator touched.
func WithTracker(dt dirty.DirtyTracker) Option {
	return func(a *Allocator) { a.dt = dt }
}
