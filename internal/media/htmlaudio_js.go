//go:build js && wasm

package media

import (
	"fmt"
	"log/slog"
	"syscall/js"
)

// HTMLAudioDriver backs elements with the browser's Audio constructor.
// Capability queries and host identity come straight from the page.
type HTMLAudioDriver struct {
	logger *slog.Logger
	probe  js.Value
}

// NewHTMLAudioDriver creates a driver bound to the page's Audio
// constructor.
func NewHTMLAudioDriver(logger *slog.Logger) *HTMLAudioDriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTMLAudioDriver{
		logger: logger,
		probe:  js.Global().Get("Audio").New(),
	}
}

// NewElement implements Driver.
func (d *HTMLAudioDriver) NewElement() (Element, error) {
	el := js.Global().Get("Audio").New()
	if !el.Truthy() {
		return nil, fmt.Errorf("failed to create audio element")
	}
	return &htmlAudioElement{logger: d.logger, el: el}, nil
}

// CanPlayType implements Driver by delegating to the probe element.
func (d *HTMLAudioDriver) CanPlayType(mime string) Support {
	return Support(d.probe.Call("canPlayType", mime).String())
}

// Identity implements Driver with the navigator identification strings.
func (d *HTMLAudioDriver) Identity() (vendor, userAgent string) {
	nav := js.Global().Get("navigator")
	if !nav.Truthy() {
		return "", ""
	}
	return nav.Get("vendor").String(), nav.Get("userAgent").String()
}

// htmlAudioElement wraps one HTML <audio> element.
type htmlAudioElement struct {
	logger *slog.Logger
	el     js.Value
	closed bool
}

// SetOption implements Element. Options map onto element properties.
func (e *htmlAudioElement) SetOption(name string, value any) error {
	if e.closed {
		return ErrElementClosed
	}

	switch name {
	case OptAutoplay, OptLoop, OptMuted:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %s wants bool, got %T", ErrBadOptionValue, name, value)
		}
		e.el.Set(name, b)
	case OptPreload:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: preload wants bool, got %T", ErrBadOptionValue, value)
		}
		if b {
			e.el.Set("preload", "auto")
		} else {
			e.el.Set("preload", "none")
		}
	case OptVolume:
		v, ok := value.(float64)
		if !ok {
			return fmt.Errorf("%w: volume wants float64, got %T", ErrBadOptionValue, value)
		}
		e.el.Set("volume", v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return nil
}

// AttachSource implements Element by appending one <source> child.
func (e *htmlAudioElement) AttachSource(src Source) error {
	if e.closed {
		return ErrElementClosed
	}

	doc := js.Global().Get("document")
	source := doc.Call("createElement", "source")
	source.Set("src", src.URL)
	source.Set("type", src.MIME)
	e.el.Call("appendChild", source)
	return nil
}

// Play implements Element. The returned promise is left to settle on its
// own; browsers may reject it until a user gesture, which only affects
// this element.
func (e *htmlAudioElement) Play() error {
	if e.closed {
		return ErrElementClosed
	}
	e.el.Call("play")
	return nil
}

// Pause implements Element.
func (e *htmlAudioElement) Pause() error {
	if e.closed {
		return ErrElementClosed
	}
	e.el.Call("pause")
	return nil
}

// Rewind implements Element.
func (e *htmlAudioElement) Rewind() error {
	if e.closed {
		return ErrElementClosed
	}
	e.el.Set("currentTime", 0)
	return nil
}

// Close implements Element.
func (e *htmlAudioElement) Close() error {
	if e.closed {
		return nil
	}
	e.el.Call("pause")
	e.el.Set("src", "")
	e.closed = true
	return nil
}
