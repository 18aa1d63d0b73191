// Package mapping loads code-to-controller tables from disk.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/leandrodaf/evdev-midi/sdk/contracts"
)

// Format is the serialization of a mapping file.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// BuiltinPrefix marks a path that names a built-in preset instead of a file.
const BuiltinPrefix = "builtin:"

// document is the persisted form. Codes are keyed by their decimal string.
type document struct {
	DeviceName string           `json:"device_name" yaml:"device_name" toml:"device_name"`
	Map        map[string]int64 `json:"map" yaml:"map" toml:"map"`
}

// Load reads the mapping at path. The format follows the file extension and
// defaults to JSON. Paths starting with "builtin:" resolve to a preset.
func Load(path string) (*contracts.Mapping, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		return Builtin(name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	m, err := Parse(data, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// FormatOf guesses the format from a file name.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	default:
		return JSON
	}
}

// Parse decodes a mapping document.
func Parse(data []byte, format Format) (*contracts.Mapping, error) {
	var doc document
	var err error
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", contracts.ErrInvalidMapping, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contracts.ErrInvalidMapping, err)
	}
	return doc.mapping()
}

func (d *document) mapping() (*contracts.Mapping, error) {
	if len(d.Map) == 0 {
		return nil, fmt.Errorf("%w: no codes mapped", contracts.ErrInvalidMapping)
	}
	codes := make(map[uint16]uint8, len(d.Map))
	for key, controller := range d.Map {
		code, err := strconv.ParseUint(strings.TrimSpace(key), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: event code %q is not in [0, 65535]", contracts.ErrInvalidMapping, key)
		}
		// MIDI data bytes have the high bit clear.
		if controller < 0 || controller > int64(contracts.VelocityMax) {
			return nil, fmt.Errorf("%w: controller %d for code %d is not in [0, 127]", contracts.ErrInvalidMapping, controller, code)
		}
		if _, dup := codes[uint16(code)]; dup {
			return nil, fmt.Errorf("%w: event code %d mapped twice", contracts.ErrInvalidMapping, code)
		}
		codes[uint16(code)] = uint8(controller)
	}
	return contracts.NewMapping(d.DeviceName, codes), nil
}

// Marshal encodes m as a JSON document, codes in ascending order.
func Marshal(m *contracts.Mapping) ([]byte, error) {
	codes := m.Codes()
	keys := make([]int, 0, len(codes))
	for code := range codes {
		keys = append(keys, int(code))
	}
	sort.Ints(keys)

	var buf bytes.Buffer
	name, err := json.Marshal(m.DeviceName())
	if err != nil {
		return nil, err
	}
	buf.WriteString(`{"device_name":`)
	buf.Write(name)
	buf.WriteString(`,"map":{`)
	for i, code := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"%d":%d`, code, codes[uint16(code)])
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
