package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

func testMapping() *contracts.Mapping {
	return contracts.NewMapping("Test", map[uint16]uint8{256: 1, 279: 2, 16: 22})
}

func TestEventToMIDIButton(t *testing.T) {
	m := testMapping()

	tests := []struct {
		name  string
		value int32
		want  contracts.Message
	}{
		{"released", 0, contracts.Message{128, 1, 0}},
		{"pressed", 1, contracts.Message{144, 1, 127}},
		{"autorepeat", 2, contracts.Message{144, 1, 127}},
		{"large", 5, contracts.Message{144, 1, 127}},
		{"negative", -1, contracts.Message{144, 1, 127}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(m, contracts.RawInputEvent{Type: contracts.EventButton, Code: 256, Value: tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventToMIDIRotary(t *testing.T) {
	m := testMapping()

	for _, raw := range []int32{0, 1, 32, 33, 1000, 2048, 4000, 4094, 4095} {
		got, err := Translate(m, contracts.RawInputEvent{Type: contracts.EventRotary, Code: 16, Value: raw})
		require.NoError(t, err)
		assert.Equal(t, byte(contracts.ControlChange), got[0])
		assert.Equal(t, byte(22), got[1])
		assert.Equal(t, byte(raw*127/4095), got[2], "raw value %d", raw)
	}
}

func TestScaleRotaryBoundaries(t *testing.T) {
	assert.Equal(t, byte(0), ScaleRotary(0))
	assert.Equal(t, byte(127), ScaleRotary(4095))
	assert.Equal(t, byte(63), ScaleRotary(2048))
	assert.Equal(t, byte(0), ScaleRotary(32))
	assert.Equal(t, byte(1), ScaleRotary(33))
}

func TestScaleRotaryOutOfRangeSaturates(t *testing.T) {
	assert.Equal(t, byte(0), ScaleRotary(-1))
	assert.Equal(t, byte(0), ScaleRotary(-1<<31))
	assert.Equal(t, byte(127), ScaleRotary(4096))
	assert.Equal(t, byte(127), ScaleRotary(1<<31-1))
}

func TestEventToMIDIUnmappedCode(t *testing.T) {
	m := testMapping()

	for _, ev := range []contracts.RawInputEvent{
		{Type: contracts.EventButton, Code: 999, Value: 0},
		{Type: contracts.EventButton, Code: 999, Value: 1},
		{Type: contracts.EventRotary, Code: 999, Value: 2048},
	} {
		_, err := Translate(m, ev)
		require.ErrorIs(t, err, contracts.ErrInvalidEventCode)

		var terr *contracts.TranslationError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, ev, terr.Event)
	}
}

func TestEventToMIDIInvalidType(t *testing.T) {
	m := testMapping()

	for _, typ := range []uint16{0, 2, 4, 17, 0xffff} {
		_, err := Translate(m, contracts.RawInputEvent{Type: typ, Code: 256, Value: 1})
		assert.ErrorIs(t, err, contracts.ErrInvalidEventType, "type %d", typ)
	}
}

func TestEventToMIDIInvalidTypeWinsOverCode(t *testing.T) {
	_, err := Translate(testMapping(), contracts.RawInputEvent{Type: 2, Code: 999, Value: 1})
	assert.ErrorIs(t, err, contracts.ErrInvalidEventType)
}

func TestEventToMIDINoPartialWrite(t *testing.T) {
	msg := contracts.Message{1, 2, 3}

	err := EventToMIDI(testMapping(), contracts.RawInputEvent{Type: contracts.EventButton, Code: 999, Value: 1}, &msg)
	require.Error(t, err)
	assert.Equal(t, contracts.Message{1, 2, 3}, msg)
}

func TestEventToMIDIIdempotent(t *testing.T) {
	m := testMapping()
	ev := contracts.RawInputEvent{Type: contracts.EventRotary, Code: 279, Value: 3000}

	first, err := Translate(m, ev)
	require.NoError(t, err)
	second, err := Translate(m, ev)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEventToMIDIEndToEndExample(t *testing.T) {
	m := contracts.NewMapping("", map[uint16]uint8{256: 1})

	var msg contracts.Message
	require.NoError(t, EventToMIDI(m, contracts.RawInputEvent{Type: 1, Code: 256, Value: 0}, &msg))
	assert.Equal(t, contracts.Message{128, 1, 0}, msg)

	require.NoError(t, EventToMIDI(m, contracts.RawInputEvent{Type: 1, Code: 256, Value: 5}, &msg))
	assert.Equal(t, contracts.Message{144, 1, 127}, msg)

	require.NoError(t, EventToMIDI(m, contracts.RawInputEvent{Type: 3, Code: 256, Value: 2048}, &msg))
	assert.Equal(t, contracts.Message{176, 1, 63}, msg)
}
