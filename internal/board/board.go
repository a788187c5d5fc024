package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jmylchreest/soundboard/internal/browser"
	"github.com/jmylchreest/soundboard/internal/format"
	"github.com/jmylchreest/soundboard/internal/media"
)

// prepState tracks the preparation pipeline.
type prepState int

const (
	prepIdle prepState = iota
	prepPreparing
	prepReady
)

// Config is the board's construction configuration, immutable after New.
type Config struct {
	// Sounds to register at construction.
	Sounds []SoundSpec

	// Path is the prefix prepended to every generated source URL.
	Path string

	// Defaults are the instance-wide playback options. Nil means
	// DefaultOptions.
	Defaults *Options

	// Driver is the host media boundary. Required.
	Driver media.Driver

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Lazy skips the constructor's background preparation kick; the
	// first facade call or an explicit Prepare triggers it instead.
	Lazy bool
}

// Board is a set of named sounds with play/pause/stop controls. Playback
// operations wait for the preparation pipeline and log failures instead
// of returning them.
type Board struct {
	logger   *slog.Logger
	driver   media.Driver
	path     string
	defaults Options

	mu        sync.Mutex
	sounds    []*sound
	state     prepState
	inflight  chan struct{}
	destroyed bool
}

// New builds a board from the configuration, registering every sound and
// kicking off preparation in the background. Registration fails on the
// first spec without a name.
func New(cfg Config) (*Board, error) {
	if cfg.Driver == nil {
		return nil, ErrNoDriver
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defaults := DefaultOptions()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}

	b := &Board{
		logger:   logger,
		driver:   cfg.Driver,
		path:     cfg.Path,
		defaults: defaults,
	}

	for i, spec := range cfg.Sounds {
		s, err := newSound(spec, defaults)
		if err != nil {
			return nil, fmt.Errorf("sound %d: %w", i, err)
		}
		b.sounds = append(b.sounds, s)
	}

	// Eager kick; every facade operation also waits, so this only
	// front-loads the work.
	if !cfg.Lazy {
		go func() { _ = b.Prepare(context.Background()) }()
	}

	return b, nil
}

// Prepare runs the preparation pipeline. Concurrent callers coalesce onto
// one in-flight run; once the board is ready further calls return
// immediately. A failed run reverts to idle so a later call can retry.
func (b *Board) Prepare(ctx context.Context) error {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return ErrDestroyed
	}

	switch b.state {
	case prepReady:
		b.mu.Unlock()
		return nil

	case prepPreparing:
		// Coalesce onto the in-flight run.
		done := b.inflight
		b.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		b.mu.Lock()
		ready := b.state == prepReady
		b.mu.Unlock()
		if ready {
			return nil
		}
		return ErrPrepareFailed
	}

	b.state = prepPreparing
	b.inflight = make(chan struct{})
	done := b.inflight
	pending := b.unpreparedLocked()
	b.mu.Unlock()

	err := b.prepareAll(ctx, pending)

	b.mu.Lock()
	if err != nil {
		b.state = prepIdle
	} else {
		b.state = prepReady
	}
	close(done)
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("sound preparation failed", "error", err)
		return fmt.Errorf("%w: %v", ErrPrepareFailed, err)
	}
	return nil
}

// Wait blocks until the board is prepared, triggering preparation if it
// never started.
func (b *Board) Wait(ctx context.Context) error {
	return b.Prepare(ctx)
}

// unpreparedLocked snapshots the entries still missing a media element.
func (b *Board) unpreparedLocked() []*sound {
	var pending []*sound
	for _, s := range b.sounds {
		if s.element == nil {
			pending = append(pending, s)
		}
	}
	return pending
}

// prepareAll prepares the given entries concurrently. Per-sound failures
// are logged and leave that entry without a handle; only a cancelled
// context fails the aggregate.
func (b *Board) prepareAll(ctx context.Context, pending []*sound) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, s := range pending {
		wg.Add(1)
		go func(s *sound) {
			defer wg.Done()
			if err := b.prepareSound(s); err != nil {
				b.logger.Warn("failed to prepare sound",
					"sound", s.name, "id", s.id.String(), "error", err)
			}
		}(s)
	}
	wg.Wait()
	return ctx.Err()
}

// prepareSound creates and configures one sound's media element and
// attaches its single negotiated source.
func (b *Board) prepareSound(s *sound) error {
	b.mu.Lock()
	if s.element != nil {
		b.mu.Unlock()
		return nil
	}
	opts := s.options
	b.mu.Unlock()

	el, err := b.driver.NewElement()
	if err != nil {
		return fmt.Errorf("failed to create media element: %w", err)
	}

	// Options are written only when truthy, matching boolean-attribute
	// semantics: false and zero are left at the element's defaults.
	apply := []struct {
		name  string
		value any
		set   bool
	}{
		{media.OptAutoplay, opts.Autoplay, opts.Autoplay},
		{media.OptLoop, opts.Loop, opts.Loop},
		{media.OptMuted, opts.Muted, opts.Muted},
		{media.OptPreload, opts.Preload, opts.Preload},
		{media.OptVolume, opts.Volume, opts.Volume != 0},
	}
	for _, a := range apply {
		if !a.set {
			continue
		}
		if err := el.SetOption(a.name, a.value); err != nil {
			_ = el.Close()
			return fmt.Errorf("failed to set %s: %w", a.name, err)
		}
	}

	enc, err := format.FirstPlayable(media.Caps{D: b.driver}, format.Preferred(browser.Detect(b.driver.Identity())))
	if err != nil {
		_ = el.Close()
		return err
	}

	src := media.Source{
		URL:  b.path + s.name + "." + string(enc),
		MIME: format.SourceMIME(enc),
	}
	if err := el.AttachSource(src); err != nil {
		_ = el.Close()
		return fmt.Errorf("failed to attach source %s: %w", src.URL, err)
	}

	b.mu.Lock()
	s.element = el
	s.encoding = enc
	s.source = src
	b.mu.Unlock()

	b.logger.Debug("prepared sound", "sound", s.name, "id", s.id.String(), "url", src.URL)
	return nil
}

// await is the facade's entry gate: it waits for preparation and reports
// whether the board is usable, logging the failure otherwise.
func (b *Board) await(ctx context.Context) bool {
	if err := b.Prepare(ctx); err != nil {
		b.logger.Warn("soundboard not ready", "error", err)
		return false
	}
	return true
}

// findLocked returns the first entry with the given name. Duplicate
// registrations are allowed; lookups always see the first one.
func (b *Board) findLocked(name string) (*sound, error) {
	for _, s := range b.sounds {
		if s.name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrSoundNotFound, name)
}

// element looks up a sound's prepared media element.
func (b *Board) element(name string) (media.Element, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, err := b.findLocked(name)
	if err != nil {
		return nil, err
	}
	if s.element == nil {
		return nil, fmt.Errorf("sound %q has no prepared media element", name)
	}
	return s.element, nil
}

// Play starts playback of the named sound. Fire and forget: lookup
// misses and playback rejections are logged, never returned.
func (b *Board) Play(ctx context.Context, name string) {
	if !b.await(ctx) {
		return
	}
	el, err := b.element(name)
	if err != nil {
		b.logger.Warn("cannot play sound", "sound", name, "error", err)
		return
	}
	if err := el.Play(); err != nil {
		b.logger.Warn("failed to play sound", "sound", name, "error", err)
	}
}

// Pause suspends playback of the named sound, keeping its position.
func (b *Board) Pause(ctx context.Context, name string) {
	if !b.await(ctx) {
		return
	}
	el, err := b.element(name)
	if err != nil {
		b.logger.Warn("cannot pause sound", "sound", name, "error", err)
		return
	}
	if err := el.Pause(); err != nil {
		b.logger.Warn("failed to pause sound", "sound", name, "error", err)
	}
}

// Stop pauses the named sound and resets its position to the start.
func (b *Board) Stop(ctx context.Context, name string) {
	if !b.await(ctx) {
		return
	}
	b.stop(name)
}

// stop pauses and rewinds one sound without awaiting preparation.
func (b *Board) stop(name string) {
	el, err := b.element(name)
	if err != nil {
		b.logger.Warn("cannot stop sound", "sound", name, "error", err)
		return
	}
	if err := el.Pause(); err != nil {
		b.logger.Warn("failed to pause sound", "sound", name, "error", err)
		return
	}
	if err := el.Rewind(); err != nil {
		b.logger.Warn("failed to rewind sound", "sound", name, "error", err)
	}
}

// StopAll stops every registered sound. Stops are issued concurrently and
// StopAll returns once all of them have completed, in no particular
// order.
func (b *Board) StopAll(ctx context.Context) {
	if !b.await(ctx) {
		return
	}

	b.mu.Lock()
	names := make([]string, 0, len(b.sounds))
	for _, s := range b.sounds {
		names = append(names, s.name)
	}
	b.mu.Unlock()

	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			b.stop(name)
		}(name)
	}
	wg.Wait()
}

// HasSound reports whether a sound with the given name is registered.
// Pure probe: it never waits and never fails.
func (b *Board) HasSound(name string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.findLocked(name)
	return err == nil
}

// AddSounds validates and registers additional sounds, prepares media
// elements for exactly the new entries, and returns the board for
// chaining. Invalid specs and per-sound failures are logged.
func (b *Board) AddSounds(ctx context.Context, specs []SoundSpec) *Board {
	if !b.await(ctx) {
		return b
	}

	b.mu.Lock()
	defaults := b.defaults
	b.mu.Unlock()

	added := make([]*sound, 0, len(specs))
	for i, spec := range specs {
		s, err := newSound(spec, defaults)
		if err != nil {
			b.logger.Warn("skipping invalid sound spec", "index", i, "error", err)
			continue
		}
		added = append(added, s)
	}
	if len(added) == 0 {
		return b
	}

	// Existing entries are not re-touched; only the new ones are
	// prepared.
	if err := b.prepareAll(ctx, added); err != nil {
		b.logger.Warn("failed to prepare added sounds", "error", err)
	}

	b.mu.Lock()
	b.sounds = append(b.sounds, added...)
	b.mu.Unlock()

	return b
}

// Sounds returns a snapshot of the registry.
func (b *Board) Sounds() []Info {
	b.mu.Lock()
	defer b.mu.Unlock()

	infos := make([]Info, 0, len(b.sounds))
	for _, s := range b.sounds {
		infos = append(infos, Info{
			ID:       s.id.String(),
			Name:     s.name,
			Options:  s.options,
			Encoding: s.encoding,
			URL:      s.source.URL,
			Prepared: s.element != nil,
		})
	}
	return infos
}

// Destruct stops every sound and clears the registry. The board is
// unusable for playback afterwards.
func (b *Board) Destruct(ctx context.Context) {
	b.StopAll(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.sounds {
		if s.element == nil {
			continue
		}
		if err := s.element.Close(); err != nil {
			b.logger.Warn("failed to close media element", "sound", s.name, "error", err)
		}
	}
	b.sounds = nil
	b.destroyed = true
	b.logger.Debug("soundboard destroyed")
}
