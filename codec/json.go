package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Its output is byte-compatible with GoJSON for the ledger types, so either
// can read files written by the other; the name still pins the writer.
type JSON struct{}

// Marshal encodes the value as indented JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }
