package media

import "errors"

// Support is a capability query answer, mirroring the HTML canPlayType
// contract. The empty answer means the type is not playable.
type Support string

const (
	SupportNone     Support = ""
	SupportMaybe    Support = "maybe"
	SupportProbably Support = "probably"
)

// Playable reports whether the answer counts as playable.
func (s Support) Playable() bool { return s != SupportNone }

// Source points an element at one candidate encoded file.
type Source struct {
	URL  string
	MIME string
}

// Recognized element option names.
const (
	OptAutoplay = "autoplay"
	OptLoop     = "loop"
	OptMuted    = "muted"
	OptPreload  = "preload"
	OptVolume   = "volume"
)

var (
	// ErrUnknownOption is returned for option names outside the
	// recognized set.
	ErrUnknownOption = errors.New("unknown media option")
	// ErrBadOptionValue is returned when an option value has the wrong
	// type.
	ErrBadOptionValue = errors.New("bad media option value")
	// ErrElementClosed is returned for operations on a closed element.
	ErrElementClosed = errors.New("media element closed")
	// ErrNoSource is returned when playback is requested before a
	// source has been attached.
	ErrNoSource = errors.New("media element has no source")
)

// Driver creates media elements and answers capability queries for the
// host it runs on.
type Driver interface {
	// NewElement creates an unconfigured element.
	NewElement() (Element, error)

	// CanPlayType answers a capability query for a MIME string.
	CanPlayType(mime string) Support

	// Identity returns the host's vendor and user-agent identification
	// strings. Hosts without a meaningful identity return empty strings.
	Identity() (vendor, userAgent string)
}

// Caps adapts a Driver to the plain-string capability interface the
// format negotiator consumes.
type Caps struct{ D Driver }

func (c Caps) CanPlayType(mime string) string {
	return string(c.D.CanPlayType(mime))
}

// Element is one sound's playable media handle.
type Element interface {
	// SetOption applies one of the recognized options. Boolean options
	// take bool values; volume takes float64.
	SetOption(name string, value any) error

	// AttachSource binds the element to one encoded file. Elements
	// configured to preload load it immediately; autoplay additionally
	// starts playback.
	AttachSource(src Source) error

	// Play starts or resumes playback from the current position.
	Play() error

	// Pause suspends playback, keeping the current position.
	Pause() error

	// Rewind resets the playback position to the start.
	Rewind() error

	// Close stops playback and releases the element's resources.
	Close() error
}
