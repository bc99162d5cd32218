package identity

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/selfmap/pkg/errors"
)

// =============================================================================
// Reading
// =============================================================================

// ReadJSON decodes a JSON object keyed by category name.
// Keys keep the order they appear in the document.
func ReadJSON(r io.Reader) (*Map, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read identity map")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New(errors.ErrCodeInvalidInput, "identity map must be a JSON object")
	}

	m := New()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read category name")
		}
		name := tok.(string)
		if err := errors.ValidateCategoryName(name); err != nil {
			return nil, err
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode category %q", name)
		}
		m.Set(name, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read identity map")
	}
	return m, nil
}

// ReadTOML decodes a TOML document with one table per category.
// Tables keep the order they appear in the document.
func ReadTOML(r io.Reader) (*Map, error) {
	var raw map[string]Record
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode identity map")
	}

	m := New()
	for _, key := range md.Keys() {
		if len(key) != 1 {
			continue
		}
		name := key[0]
		if err := errors.ValidateCategoryName(name); err != nil {
			return nil, err
		}
		m.Set(name, raw[name])
	}
	return m, nil
}

// Load reads an identity map from path, choosing the decoder by extension.
// Files ending in .toml are read as TOML; anything else as JSON.
func Load(path string) (*Map, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "identity map %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode parses data using the format implied by ext (".json" or ".toml").
func Decode(data []byte, ext string) (*Map, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		return ReadTOML(bytes.NewReader(data))
	case "json", "":
		return ReadJSON(bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported data format %q", ext)
	}
}

// =============================================================================
// Writing
// =============================================================================

// WriteJSON encodes m as an indented JSON object in insertion order.
func WriteJSON(w io.Writer, m *Map) error {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range m.Entries() {
		if i > 0 {
			buf.WriteString(",")
		}
		name, err := json.Marshal(e.Name)
		if err != nil {
			return err
		}
		rec, err := json.MarshalIndent(e.Record, "  ", "  ")
		if err != nil {
			return err
		}
		buf.WriteString("\n  ")
		buf.Write(name)
		buf.WriteString(": ")
		buf.Write(rec)
	}
	if m.Len() > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalJSON encodes the map as an ordered JSON object.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, m); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}

// UnmarshalJSON decodes an ordered JSON object into the map.
func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := ReadJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}
