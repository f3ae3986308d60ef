package codec

import segjson "github.com/segmentio/encoding/json"

// SegmentJSON is a JSON codec backed by github.com/segmentio/encoding/json.
// Its output is interchangeable with JSON but encodes noticeably faster for
// large snapshots.
type SegmentJSON struct{}

// Marshal encodes the value to JSON.
func (SegmentJSON) Marshal(v any) ([]byte, error) { return segjson.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (SegmentJSON) Unmarshal(data []byte, v any) error { return segjson.Unmarshal(data, v) }

// Name returns the unique name of the codec ("segmentio-json").
func (SegmentJSON) Name() string { return "segmentio-json" }
