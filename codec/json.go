package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Snapshots written with JSON are readable by any tool, at the cost of
// size. Id types must round-trip through encoding/json; integer ids wider
// than 53 bits lose precision when decoded into interface values but not
// when decoded into their concrete type, which is what snapshots do.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for new snapshots.
//
// NOTE: Existing snapshots are self-describing and are always read with the
// codec named in their header.
var Default Codec = MsgPack{}
