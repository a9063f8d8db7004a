package midi

import (
	"testing"
	"time"

	"github.com/leandrodaf/midisteno/internal/logger"
	"github.com/leandrodaf/midisteno/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	capture chan contracts.MIDI
	stopped bool
}

func (f *fakeClient) Stop() error                                  { f.stopped = true; return nil }
func (f *fakeClient) ListDevices() ([]contracts.DeviceInfo, error) { return nil, nil }
func (f *fakeClient) SelectDevice(int) error                       { return nil }
func (f *fakeClient) StartCapture(ch chan contracts.MIDI)          { f.capture = ch }

func TestSourceForwardsNoteEvents(t *testing.T) {
	client := &fakeClient{}
	src := NewSource(client, logger.NewFromZap(zap.NewNop()))
	received := time.Unix(500, 0)
	src.now = func() time.Time { return received }
	events := make(chan contracts.RawEvent, 4)
	require.NoError(t, src.Start(events))
	assert.ErrorIs(t, src.Start(events), ErrSourceStarted)

	client.capture <- contracts.MIDI{Timestamp: 1_000_000, Command: 0xB0, Note: 1, Velocity: 2}
	client.capture <- contracts.MIDI{Timestamp: 2_000_000, Command: 0x91, Note: 60, Velocity: 90}
	client.capture <- contracts.MIDI{Timestamp: 3_000_000, Command: 0x90, Note: 60, Velocity: 0}

	select {
	case ev := <-events:
		assert.Equal(t, 60, ev.Key)
		assert.True(t, ev.Down)
		assert.Equal(t, 90, ev.Velocity)
		assert.Equal(t, received, ev.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no event forwarded")
	}
	select {
	case ev := <-events:
		assert.False(t, ev.Down)
	case <-time.After(time.Second):
		t.Fatal("no release forwarded")
	}

	require.NoError(t, src.Stop())
	assert.True(t, client.stopped)
	require.NoError(t, src.Stop())
}

func TestApplyDefaultOptions(t *testing.T) {
	opts, err := applyDefaultOptions(contracts.WithLogger(logger.NewFromZap(zap.NewNop())))
	require.NoError(t, err)
	assert.True(t, opts.MIDIEventFilter.Allows(0x93))
	assert.True(t, opts.MIDIEventFilter.Allows(0x80))
	assert.False(t, opts.MIDIEventFilter.Allows(0xB0))
	assert.Equal(t, "midisteno", opts.CoreMIDIConfig.ClientName)
	assert.NotEmpty(t, opts.RawMIDIConfig.DevicePattern)
}

func TestSourceStampsWithMonotonicClock(t *testing.T) {
	client := &fakeClient{}
	src := NewSource(client, logger.NewFromZap(zap.NewNop()))
	events := make(chan contracts.RawEvent, 1)
	require.NoError(t, src.Start(events))
	defer func() { _ = src.Stop() }()

	client.capture <- contracts.MIDI{Timestamp: 1, Command: 0x90, Note: 60, Velocity: 90}
	select {
	case ev := <-events:
		// Round(0) strips the monotonic reading; a stamp that still has one differs from it.
		assert.NotEqual(t, ev.Timestamp.Round(0), ev.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no event forwarded")
	}
}
