package midi

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/evdev-midi/internal/logger"
	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

type chanSource struct {
	events chan contracts.RawInputEvent
	panics bool
}

func newChanSource() *chanSource {
	return &chanSource{events: make(chan contracts.RawInputEvent, 16)}
}

func (s *chanSource) ReadBatch() ([]contracts.RawInputEvent, error) {
	if s.panics {
		panic("device exploded")
	}
	var batch []contracts.RawInputEvent
	for {
		select {
		case ev := <-s.events:
			batch = append(batch, ev)
		default:
			return batch, nil
		}
	}
}

func (s *chanSource) Close() error { return nil }

type recordingOutput struct {
	mu      sync.Mutex
	sent    []contracts.Message
	openErr error
}

func (o *recordingOutput) ListDevices() ([]contracts.DeviceInfo, error) {
	return []contracts.DeviceInfo{{Name: "recorder"}}, nil
}

func (o *recordingOutput) Open(string) (contracts.Connection, error) {
	if o.openErr != nil {
		return nil, o.openErr
	}
	return o, nil
}

func (o *recordingOutput) Send(msg contracts.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *recordingOutput) Close() error { return nil }

func (o *recordingOutput) messages() []contracts.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]contracts.Message(nil), o.sent...)
}

func newTestConverter(t *testing.T, out contracts.MIDIOutput, opts ...contracts.Option) *Converter {
	t.Helper()
	opts = append([]contracts.Option{
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithMIDIOutput(out),
		contracts.WithPollInterval(time.Millisecond),
	}, opts...)
	c, err := NewConverter(opts...)
	require.NoError(t, err)
	return c
}

func testMapping() *contracts.Mapping {
	return contracts.NewMapping("Test", map[uint16]uint8{256: 1})
}

func stopWithin(t *testing.T, c *Converter, d time.Duration) error {
	t.Helper()
	result := make(chan error, 1)
	go func() { result <- c.Stop() }()
	select {
	case err := <-result:
		return err
	case <-time.After(d):
		t.Fatal("Stop did not return")
		return nil
	}
}

func TestConverterStopBeforeAnyEvent(t *testing.T) {
	out := &recordingOutput{}
	c := newTestConverter(t, out)

	require.NoError(t, c.Start(newChanSource(), testMapping()))
	require.NoError(t, stopWithin(t, c, time.Second))

	assert.Empty(t, out.messages())
	select {
	case <-c.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	assert.NoError(t, c.Err())
}

func TestConverterSendsEvents(t *testing.T) {
	out := &recordingOutput{}
	var reported []error
	var mu sync.Mutex
	c := newTestConverter(t, out, contracts.WithErrorHandler(func(err error) {
		mu.Lock()
		defer mu.Unlock()
		reported = append(reported, err)
	}))
	src := newChanSource()

	require.NoError(t, c.Start(src, testMapping()))
	src.events <- contracts.RawInputEvent{Type: 1, Code: 256, Value: 1}
	src.events <- contracts.RawInputEvent{Type: 1, Code: 7, Value: 1}
	src.events <- contracts.RawInputEvent{Type: 3, Code: 256, Value: 2048}

	require.Eventually(t, func() bool { return len(out.messages()) == 2 }, time.Second, time.Millisecond)
	require.NoError(t, stopWithin(t, c, time.Second))

	assert.Equal(t, []contracts.Message{{144, 1, 127}, {176, 1, 63}}, out.messages())
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, reported, 1)
	assert.ErrorIs(t, reported[0], contracts.ErrInvalidEventCode)
}

func TestConverterLifecycleMisuse(t *testing.T) {
	c := newTestConverter(t, &recordingOutput{})

	assert.ErrorIs(t, c.Stop(), contracts.ErrNotStarted)

	require.NoError(t, c.Start(newChanSource(), testMapping()))
	assert.ErrorIs(t, c.Start(newChanSource(), testMapping()), contracts.ErrAlreadyStarted)

	require.NoError(t, stopWithin(t, c, time.Second))
	assert.ErrorIs(t, c.Stop(), contracts.ErrStopped)
	assert.ErrorIs(t, c.Start(newChanSource(), testMapping()), contracts.ErrStopped)
}

func TestConverterSinkInitFailure(t *testing.T) {
	c := newTestConverter(t, &recordingOutput{openErr: errors.New("no output ports")})

	require.NoError(t, c.Start(newChanSource(), testMapping()))

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("worker kept running without an output")
	}
	assert.ErrorIs(t, c.Err(), contracts.ErrSinkInit)
	assert.ErrorIs(t, stopWithin(t, c, time.Second), contracts.ErrSinkInit)
}

func TestConverterWorkerPanicIsJoinFailure(t *testing.T) {
	c := newTestConverter(t, &recordingOutput{})
	src := newChanSource()
	src.panics = true

	require.NoError(t, c.Start(src, testMapping()))

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not end after panicking")
	}
	assert.ErrorIs(t, c.Err(), contracts.ErrJoinFailure)

	err := stopWithin(t, c, time.Second)
	require.ErrorIs(t, err, contracts.ErrJoinFailure)
	var jerr *contracts.JoinError
	require.ErrorAs(t, err, &jerr)
	assert.Equal(t, "device exploded", jerr.Value)
}

func TestConverterIDsAreUnique(t *testing.T) {
	a := newTestConverter(t, &recordingOutput{})
	b := newTestConverter(t, &recordingOutput{})
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestApplyDefaultOptions(t *testing.T) {
	opts, err := applyDefaultOptions(contracts.WithLogger(logger.NewNopLogger()))
	require.NoError(t, err)

	assert.Equal(t, contracts.DefaultPollInterval, opts.PollInterval)
	assert.Equal(t, contracts.DefaultClientName, opts.ClientName)
	assert.Equal(t, contracts.DefaultConnectionName, opts.ConnectionName)
	assert.Equal(t, contracts.InfoLevel, opts.LogLevel)

	_, err = applyDefaultOptions(contracts.WithPollInterval(-time.Second))
	assert.Error(t, err)

	_, err = applyDefaultOptions(
		contracts.WithLogger(logger.NewNopLogger()),
		contracts.WithOutputPort(contracts.OutputPortConfig{Index: -1}))
	assert.Error(t, err)
}
