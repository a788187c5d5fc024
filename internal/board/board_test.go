package board

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/soundboard/internal/format"
	"github.com/jmylchreest/soundboard/internal/media"
)

// fakeDriver is a scripted media driver recording every element it
// creates.
type fakeDriver struct {
	mu       sync.Mutex
	vendor   string
	ua       string
	playable map[string]media.Support
	elements []*fakeElement

	// attachFailSubstr makes AttachSource fail for URLs containing it.
	attachFailSubstr string
}

// newFakeDriver scripts a driver that can play exactly the given
// encodings.
func newFakeDriver(encs ...format.Encoding) *fakeDriver {
	playable := make(map[string]media.Support, len(encs))
	for _, enc := range encs {
		q, err := format.MIMEQuery(enc)
		if err != nil {
			panic(err)
		}
		playable[q] = media.SupportProbably
	}
	return &fakeDriver{playable: playable}
}

func (d *fakeDriver) NewElement() (media.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el := &fakeElement{driver: d, options: make(map[string]any)}
	d.elements = append(d.elements, el)
	return el, nil
}

func (d *fakeDriver) CanPlayType(mime string) media.Support {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playable[mime]
}

func (d *fakeDriver) Identity() (string, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vendor, d.ua
}

func (d *fakeDriver) created() []*fakeElement {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeElement(nil), d.elements...)
}

// fakeElement records option writes and playback operations.
type fakeElement struct {
	driver *fakeDriver

	mu       sync.Mutex
	options  map[string]any
	src      media.Source
	attached bool
	playing  bool
	position int
	ops      []string
	closed   bool
}

func (e *fakeElement) SetOption(name string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.options[name] = value
	return nil
}

func (e *fakeElement) AttachSource(src media.Source) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.driver.attachFailSubstr != "" && strings.Contains(src.URL, e.driver.attachFailSubstr) {
		return fmt.Errorf("attach refused for %s", src.URL)
	}
	e.src = src
	e.attached = true
	return nil
}

func (e *fakeElement) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = true
	e.position += 100
	e.ops = append(e.ops, "play")
	return nil
}

func (e *fakeElement) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playing = false
	e.ops = append(e.ops, "pause")
	return nil
}

func (e *fakeElement) Rewind() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = 0
	e.ops = append(e.ops, "rewind")
	return nil
}

func (e *fakeElement) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.ops = append(e.ops, "close")
	return nil
}

func (e *fakeElement) snapshot() (options map[string]any, ops []string, position int, playing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	options = make(map[string]any, len(e.options))
	for k, v := range e.options {
		options[k] = v
	}
	return options, append([]string(nil), e.ops...), e.position, e.playing
}

// gatedDriver blocks element creation until its gate is released,
// pinning a preparation run in flight.
type gatedDriver struct {
	*fakeDriver
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedDriver(encs ...format.Encoding) *gatedDriver {
	return &gatedDriver{
		fakeDriver: newFakeDriver(encs...),
		entered:    make(chan struct{}),
		gate:       make(chan struct{}),
	}
}

func (d *gatedDriver) NewElement() (media.Element, error) {
	d.once.Do(func() { close(d.entered) })
	<-d.gate
	return d.fakeDriver.NewElement()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBoard(t *testing.T, driver *fakeDriver, cfg Config) *Board {
	t.Helper()
	cfg.Driver = driver
	cfg.Logger = testLogger()
	b, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Wait(context.Background()))
	return b
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func TestNew_MissingName(t *testing.T) {
	_, err := New(Config{
		Driver: newFakeDriver(format.MP3),
		Logger: testLogger(),
		Sounds: []SoundSpec{{Name: "ok"}, {}},
	})
	assert.ErrorIs(t, err, ErrInvalidSoundName)
}

func TestNew_RequiresDriver(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoDriver)
}

func TestHasSound(t *testing.T) {
	b := newTestBoard(t, newFakeDriver(format.MP3), Config{
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}},
	})

	assert.True(t, b.HasSound("a"))
	assert.True(t, b.HasSound("b"))
	assert.False(t, b.HasSound("c"))
}

func TestPrepare_ScenarioDefaultsAndOverrides(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Path: "/s/",
		Sounds: []SoundSpec{
			{Name: "a", Loop: boolPtr(true), Volume: floatPtr(1.0)},
			{Name: "b"},
		},
	})

	assert.True(t, b.HasSound("a"))
	assert.True(t, b.HasSound("b"))

	infos := b.Sounds()
	require.Len(t, infos, 2)

	a, bb := infos[0], infos[1]
	assert.Equal(t, "a", a.Name)
	assert.True(t, a.Options.Loop)
	assert.Equal(t, 1.0, a.Options.Volume)
	assert.True(t, a.Prepared)
	assert.Equal(t, "/s/a.mp3", a.URL)

	// b inherits the instance defaults.
	assert.Equal(t, "b", bb.Name)
	assert.False(t, bb.Options.Loop)
	assert.True(t, bb.Options.Preload)
	assert.Equal(t, 1.0, bb.Options.Volume)
	assert.True(t, bb.Prepared)
}

func TestPrepare_OnlyTruthyOptionsWritten(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "b"}},
	})

	els := driver.created()
	require.Len(t, els, 1)
	options, _, _, _ := els[0].snapshot()

	// Defaults are loop=false, muted=false, autoplay=false,
	// preload=true, volume=1: only the truthy two get written.
	assert.Equal(t, map[string]any{
		media.OptPreload: true,
		media.OptVolume:  1.0,
	}, options)
}

func TestPrepare_FirefoxNegotiation(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	driver.ua = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

	b := newTestBoard(t, driver, Config{
		Path:   "/s/",
		Sounds: []SoundSpec{{Name: "a"}},
	})

	infos := b.Sounds()
	require.Len(t, infos, 1)
	assert.Equal(t, format.MP3, infos[0].Encoding)
	assert.Equal(t, "/s/a.mp3", infos[0].URL)
}

func TestPrepare_Coalescing(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b, err := New(Config{
		Driver: driver,
		Logger: testLogger(),
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	})
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.Prepare(context.Background()))
		}()
	}
	wg.Wait()

	// One run: exactly one element per registered sound, no matter how
	// many callers raced (including the constructor's eager kick).
	assert.Len(t, driver.created(), 3)
}

func TestPrepare_CancelledContextRevertsToIdle(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b, err := New(Config{
		Driver: driver,
		Logger: testLogger(),
		Lazy:   true,
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled run fails without doing any of the per-sound work.
	assert.ErrorIs(t, b.Prepare(ctx), ErrPrepareFailed)
	assert.Empty(t, driver.created())

	// The failure reverted the pipeline to idle, so a live context
	// retries and succeeds.
	require.NoError(t, b.Prepare(context.Background()))
	assert.Len(t, driver.created(), 2)
}

func TestPrepare_WaiterCancelledMidWait(t *testing.T) {
	driver := newGatedDriver(format.MP3)
	b, err := New(Config{
		Driver: driver,
		Logger: testLogger(),
		Lazy:   true,
		Sounds: []SoundSpec{{Name: "a"}},
	})
	require.NoError(t, err)

	go func() { _ = b.Prepare(context.Background()) }()
	<-driver.entered // run is in flight, pinned on the gate

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.Prepare(ctx) }()
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	// The in-flight run is unaffected by the waiter's cancellation.
	close(driver.gate)
	require.NoError(t, b.Wait(context.Background()))
	assert.Len(t, driver.created(), 1)
}

func TestPrepare_PerSoundFailureTolerated(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	driver.attachFailSubstr = "broken"

	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "ok"}, {Name: "broken"}},
	})

	infos := b.Sounds()
	require.Len(t, infos, 2)
	assert.True(t, infos[0].Prepared)
	assert.False(t, infos[1].Prepared)

	// Playing the dropped sound warns and no-ops instead of failing.
	b.Play(context.Background(), "broken")
}

func TestPrepare_NoPlayableFormat(t *testing.T) {
	driver := newFakeDriver() // nothing playable
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}},
	})

	infos := b.Sounds()
	require.Len(t, infos, 1)
	assert.False(t, infos[0].Prepared)
}

func TestStop_IsPauseThenRewind(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}},
	})
	ctx := context.Background()

	b.Play(ctx, "a")
	b.Stop(ctx, "a")

	els := driver.created()
	require.Len(t, els, 1)
	_, ops, position, playing := els[0].snapshot()
	assert.Equal(t, []string{"play", "pause", "rewind"}, ops)
	assert.Zero(t, position)
	assert.False(t, playing)
}

func TestStopAll_ZeroesEveryPosition(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	})
	ctx := context.Background()

	b.Play(ctx, "a")
	b.Play(ctx, "b")
	b.StopAll(ctx)

	for _, el := range driver.created() {
		_, _, position, playing := el.snapshot()
		assert.Zero(t, position)
		assert.False(t, playing)
	}
}

func TestPlay_MissingSoundWarnsOnly(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}},
	})

	before := b.Sounds()
	b.Play(context.Background(), "missing")
	assert.Equal(t, before, b.Sounds())
}

func TestAddSounds(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}},
	})
	ctx := context.Background()

	existing := driver.created()
	require.Len(t, existing, 2)
	optsBefore := make([]map[string]any, len(existing))
	for i, el := range existing {
		optsBefore[i], _, _, _ = el.snapshot()
	}

	got := b.AddSounds(ctx, []SoundSpec{{Name: "c"}})
	assert.Same(t, b, got)

	assert.True(t, b.HasSound("c"))
	assert.Len(t, driver.created(), 3)

	// Existing entries were not re-touched.
	for i, el := range existing {
		opts, _, _, _ := el.snapshot()
		assert.Equal(t, optsBefore[i], opts)
	}
}

func TestAddSounds_InvalidSpecSkipped(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}},
	})

	b.AddSounds(context.Background(), []SoundSpec{{}, {Name: "c"}})
	assert.True(t, b.HasSound("c"))
	assert.Len(t, b.Sounds(), 2)
}

func TestDuplicateNames_FirstWins(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{
			{Name: "dup", Loop: boolPtr(true)},
			{Name: "dup"},
		},
	})
	ctx := context.Background()

	// Both entries are registered; lookups resolve to the first.
	assert.Len(t, b.Sounds(), 2)
	b.Play(ctx, "dup")

	var first, second *fakeElement
	for _, el := range driver.created() {
		opts, _, _, _ := el.snapshot()
		if _, ok := opts[media.OptLoop]; ok {
			first = el
		} else {
			second = el
		}
	}
	require.NotNil(t, first)
	require.NotNil(t, second)

	_, ops, _, _ := first.snapshot()
	assert.Equal(t, []string{"play"}, ops)
	_, ops, _, _ = second.snapshot()
	assert.Empty(t, ops)
}

func TestDestruct(t *testing.T) {
	driver := newFakeDriver(format.MP3)
	b := newTestBoard(t, driver, Config{
		Sounds: []SoundSpec{{Name: "a"}, {Name: "b"}},
	})
	ctx := context.Background()

	b.Play(ctx, "a")
	b.Destruct(ctx)

	assert.False(t, b.HasSound("a"))
	assert.False(t, b.HasSound("b"))
	assert.Empty(t, b.Sounds())

	for _, el := range driver.created() {
		_, _, position, _ := el.snapshot()
		assert.Zero(t, position)
	}

	// Further facade calls warn and no-op.
	b.Play(ctx, "a")
	assert.Empty(t, b.Sounds())
}
