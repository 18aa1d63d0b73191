package replay

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

const recording = `# pressed, released
{"type":1,"code":256,"value":1}
{"type":0,"code":0,"value":0}

{"type":1,"code":256,"value":0}


{"type":3,"code":16,"value":4095}
`

func TestReadBatchSplitsOnBlankLines(t *testing.T) {
	s := New("rec", strings.NewReader(recording))

	batch, err := s.ReadBatch()
	require.NoError(t, err)
	assert.Equal(t, []contracts.RawInputEvent{{Type: 1, Code: 256, Value: 1}, {}}, batch)

	batch, err = s.ReadBatch()
	require.NoError(t, err)
	assert.Equal(t, []contracts.RawInputEvent{{Type: 1, Code: 256, Value: 0}}, batch)

	batch, err = s.ReadBatch()
	require.NoError(t, err)
	assert.Equal(t, []contracts.RawInputEvent{{Type: 3, Code: 16, Value: 4095}}, batch)

	for i := 0; i < 3; i++ {
		batch, err = s.ReadBatch()
		require.NoError(t, err)
		assert.Empty(t, batch)
	}
}

func TestReadBatchMalformedLine(t *testing.T) {
	s := New("rec", strings.NewReader("{\"type\":1,\"code\":256,\"value\":1}\nnot json\n"))

	batch, err := s.ReadBatch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rec:2")
	assert.Len(t, batch, 1)
}

func TestOpenAndClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(recording), 0o600))

	s, err := Open(path)
	require.NoError(t, err)

	batch, err := s.ReadBatch()
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
