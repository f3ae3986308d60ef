package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID   uint64     `json:"id" msgpack:"id"`
	Box  [4]float64 `json:"box" msgpack:"box"`
	Tags []string   `json:"tags" msgpack:"tags"`
}

func TestCodecs(t *testing.T) {
	in := []entry{
		{ID: 1, Box: [4]float64{0, 0, 31, 31}, Tags: []string{"static"}},
		{ID: 1<<63 + 5, Box: [4]float64{-40.5, 0, -0.25, 31}},
	}

	for _, name := range []string{"json", "segmentio-json", "msgpack"} {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())

			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out []entry
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)
		})
	}

	_, ok := ByName("gob")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	assert.NotEmpty(t, MustMarshal(nil, map[string]int{"a": 1}))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}

func BenchmarkCodec_Marshal(b *testing.B) {
	entries := make([]entry, 1024)
	for i := range entries {
		entries[i] = entry{ID: uint64(i), Box: [4]float64{float64(i), 0, float64(i) + 16, 16}}
	}

	for _, c := range []Codec{JSON{}, SegmentJSON{}, MsgPack{}} {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := c.Marshal(entries); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
