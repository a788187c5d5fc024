package media

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// BeepDriver plays sounds through the beep speaker. It decodes WAV, OGG,
// MP3 and FLAC sources from the local filesystem.
type BeepDriver struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Whether the speaker has been initialized, and at what rate. The
	// speaker is initialized once, at the sample rate of the first
	// decoded sound; everything else is resampled to it.
	initialized bool
	sampleRate  beep.SampleRate
}

// NewBeepDriver creates a beep-backed media driver.
func NewBeepDriver(logger *slog.Logger) *BeepDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &BeepDriver{
		logger:     logger,
		sampleRate: beep.SampleRate(44100),
	}
}

// NewElement implements Driver.
func (d *BeepDriver) NewElement() (Element, error) {
	return &beepElement{
		driver: d,
		volume: 1.0,
	}, nil
}

// CanPlayType reports "probably" for the MIME families beep ships
// decoders for.
func (d *BeepDriver) CanPlayType(mime string) Support {
	switch {
	case strings.HasPrefix(mime, "audio/ogg"),
		strings.HasPrefix(mime, "audio/mpeg"),
		strings.HasPrefix(mime, "audio/mp3"),
		strings.HasPrefix(mime, "audio/wav"),
		strings.HasPrefix(mime, "audio/flac"):
		return SupportProbably
	}
	return SupportNone
}

// Identity implements Driver. The native host has no browser identity, so
// format negotiation falls back to the catalog order.
func (d *BeepDriver) Identity() (vendor, userAgent string) {
	return "", ""
}

// Close shuts the speaker down. Elements created by the driver become
// unusable for playback afterwards.
func (d *BeepDriver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.initialized {
		speaker.Close()
		d.initialized = false
	}
}

// ensureInitialized initializes the speaker if not already done.
func (d *BeepDriver) ensureInitialized(sampleRate beep.SampleRate) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	bufferSize := sampleRate.N(time.Millisecond * 100)
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	d.sampleRate = sampleRate
	d.initialized = true
	d.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// beepElement is one sound's playback handle on the native driver.
type beepElement struct {
	driver *BeepDriver

	mu sync.Mutex

	// Options, applied before the source is attached.
	autoplay bool
	loop     bool
	muted    bool
	preload  bool
	volume   float64

	src    Source
	hasSrc bool
	closed bool

	// Decoded sound and playback chain. seeker is the rewindable view
	// into the buffer; ctrl wraps the (possibly looped, resampled)
	// stream and is what pause toggles.
	buffer *beep.Buffer
	seeker beep.StreamSeeker
	ctrl   *beep.Ctrl
}

// SetOption implements Element.
func (e *beepElement) SetOption(name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrElementClosed
	}

	switch name {
	case OptAutoplay, OptLoop, OptMuted, OptPreload:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrBadOptionValue, name, value)
		}
		switch name {
		case OptAutoplay:
			e.autoplay = b
		case OptLoop:
			e.loop = b
		case OptMuted:
			e.muted = b
		case OptPreload:
			e.preload = b
		}
	case OptVolume:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: volume wants float64, got %T", ErrBadOptionValue, value)
		}
		e.volume = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return nil
}

// AttachSource implements Element. Preloading elements decode the file
// immediately; autoplay additionally starts playback.
func (e *beepElement) AttachSource(src Source) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrElementClosed
	}
	e.src = src
	e.hasSrc = true
	preload := e.preload || e.autoplay
	e.mu.Unlock()

	if !preload {
		return nil
	}
	if err := e.load(); err != nil {
		return err
	}
	if e.autoplay {
		return e.Play()
	}
	return nil
}

// load decodes the attached source into a buffer. Idempotent.
func (e *beepElement) load() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrElementClosed
	}
	if !e.hasSrc {
		return ErrNoSource
	}
	if e.buffer != nil {
		return nil
	}

	f, err := os.Open(e.src.URL)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		bformat  beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(e.src.URL)); ext {
	case ".wav":
		streamer, bformat, err = wav.Decode(f)
	case ".ogg":
		streamer, bformat, err = vorbis.Decode(f)
	case ".mp3":
		streamer, bformat, err = mp3.Decode(f)
	case ".flac":
		streamer, bformat, err = flac.Decode(f)
	default:
		return fmt.Errorf("unsupported audio format: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	if err := e.driver.ensureInitialized(bformat.SampleRate); err != nil {
		return err
	}

	buffer := beep.NewBuffer(bformat)
	buffer.Append(streamer)
	e.buffer = buffer
	return nil
}

// Play implements Element. The first call builds the playback chain and
// hands it to the speaker; later calls unpause, rewinding first when the
// sound has run to its end.
func (e *beepElement) Play() error {
	if err := e.load(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrElementClosed
	}

	if e.ctrl == nil {
		e.seeker = e.buffer.Streamer(0, e.buffer.Len())

		var streamer beep.Streamer = e.seeker
		if e.loop {
			looped, err := beep.Loop2(e.seeker)
			if err != nil {
				return fmt.Errorf("failed to loop sound: %w", err)
			}
			streamer = looped
		}

		e.driver.mu.Lock()
		speakerRate := e.driver.sampleRate
		e.driver.mu.Unlock()
		if e.buffer.Format().SampleRate != speakerRate {
			streamer = beep.Resample(4, e.buffer.Format().SampleRate, speakerRate, streamer)
		}
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   math.Log2(math.Max(e.volume, 1e-4)),
			Silent:   e.muted || e.volume == 0,
		}

		e.ctrl = &beep.Ctrl{Streamer: streamer}
		speaker.Play(e.ctrl)
		return nil
	}

	speaker.Lock()
	if !e.loop && e.seeker.Position() >= e.seeker.Len() {
		if err := e.seeker.Seek(0); err != nil {
			speaker.Unlock()
			return fmt.Errorf("failed to rewind sound: %w", err)
		}
	}
	e.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause implements Element. Pausing an element that never played is a
// no-op.
func (e *beepElement) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrElementClosed
	}
	if e.ctrl == nil {
		return nil
	}

	speaker.Lock()
	e.ctrl.Paused = true
	speaker.Unlock()
	return nil
}

// Rewind implements Element.
func (e *beepElement) Rewind() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrElementClosed
	}
	if e.seeker == nil {
		return nil
	}

	speaker.Lock()
	err := e.seeker.Seek(0)
	speaker.Unlock()
	if err != nil {
		return fmt.Errorf("failed to rewind sound: %w", err)
	}
	return nil
}

// Close implements Element.
func (e *beepElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		e.ctrl.Streamer = nil
		speaker.Unlock()
	}
	e.closed = true
	e.buffer = nil
	e.seeker = nil
	e.ctrl = nil
	return nil
}
