package board

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/jmylchreest/soundboard/internal/format"
	"github.com/jmylchreest/soundboard/internal/media"
)

// Options are the five recognized playback options, fully resolved.
type Options struct {
	Autoplay bool    `json:"autoplay" yaml:"autoplay" toml:"autoplay"`
	Loop     bool    `json:"loop" yaml:"loop" toml:"loop"`
	Muted    bool    `json:"muted" yaml:"muted" toml:"muted"`
	Preload  bool    `json:"preload" yaml:"preload" toml:"preload"`
	Volume   float64 `json:"volume" yaml:"volume" toml:"volume"`
}

// DefaultOptions returns the instance-wide playback defaults.
func DefaultOptions() Options {
	return Options{
		Autoplay: false,
		Loop:     false,
		Muted:    false,
		Preload:  true,
		Volume:   1,
	}
}

// SoundSpec describes one sound to register. Nil option fields inherit
// the board's defaults.
type SoundSpec struct {
	Name     string   `json:"name" yaml:"name" toml:"name"`
	Autoplay *bool    `json:"autoplay,omitempty" yaml:"autoplay,omitempty" toml:"autoplay,omitempty"`
	Loop     *bool    `json:"loop,omitempty" yaml:"loop,omitempty" toml:"loop,omitempty"`
	Muted    *bool    `json:"muted,omitempty" yaml:"muted,omitempty" toml:"muted,omitempty"`
	Preload  *bool    `json:"preload,omitempty" yaml:"preload,omitempty" toml:"preload,omitempty"`
	Volume   *float64 `json:"volume,omitempty" yaml:"volume,omitempty" toml:"volume,omitempty"`
}

// resolve merges the spec's overrides over the given defaults.
func (s SoundSpec) resolve(defaults Options) Options {
	opts := defaults
	if s.Autoplay != nil {
		opts.Autoplay = *s.Autoplay
	}
	if s.Loop != nil {
		opts.Loop = *s.Loop
	}
	if s.Muted != nil {
		opts.Muted = *s.Muted
	}
	if s.Preload != nil {
		opts.Preload = *s.Preload
	}
	if s.Volume != nil {
		opts.Volume = *s.Volume
	}
	return opts
}

// sound is one registry entry. The element is attached by the
// preparation pipeline and guarded by the board's mutex.
type sound struct {
	id      ulid.ULID
	name    string
	options Options

	element  media.Element
	encoding format.Encoding
	source   media.Source
}

// newSound validates a spec and merges it over the board defaults.
func newSound(spec SoundSpec, defaults Options) (*sound, error) {
	if spec.Name == "" {
		return nil, ErrInvalidSoundName
	}
	return &sound{
		id:      ulid.Make(),
		name:    spec.Name,
		options: spec.resolve(defaults),
	}, nil
}

// Info is a read-only snapshot of a registry entry.
type Info struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Options  Options         `json:"options" yaml:"options"`
	Encoding format.Encoding `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	URL      string          `json:"url,omitempty" yaml:"url,omitempty"`
	Prepared bool            `json:"prepared" yaml:"prepared"`
}

// validAttributes is the fixed set of recognized option names.
var validAttributes = map[string]bool{
	media.OptAutoplay: true,
	media.OptLoop:     true,
	media.OptMuted:    true,
	media.OptPreload:  true,
	media.OptVolume:   true,
}

// IsValidAttribute reports whether attr names a recognized playback
// option.
func IsValidAttribute(attr string) bool {
	return validAttributes[attr]
}

// ValidateAttribute is the strict form of IsValidAttribute.
func ValidateAttribute(attr string) error {
	if !IsValidAttribute(attr) {
		return fmt.Errorf("%w: %q", ErrInvalidAttribute, attr)
	}
	return nil
}
