package library

import (
	"testing"

	"github.com/dhowden/tag"
)

// rawMetadata is a tag.Metadata with its raw frame map set directly. Only
// Raw is ever called on it.
type rawMetadata struct {
	tag.Metadata
	raw map[string]interface{}
}

func (m *rawMetadata) Raw() map[string]interface{} {
	return m.raw
}

// TestCompilationFlag makes sure the various-artists marker is recognized
// in the raw frames of the different tag formats.
func TestCompilationFlag(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]interface{}
		want bool
	}{
		{"no marker", map[string]interface{}{"TIT2": "Wrathchild"}, false},
		{"id3v2 text frame set", map[string]interface{}{"TCMP": "1"}, true},
		{"id3v2 text frame unset", map[string]interface{}{"TCMP": "0"}, false},
		{"id3v22 text frame set", map[string]interface{}{"TCP": "1"}, true},
		{"mp4 atom set", map[string]interface{}{"cpil": true}, true},
		{"mp4 atom unset", map[string]interface{}{"cpil": false}, false},
		{"mp4 byte atom set", map[string]interface{}{"cpil": []byte{1}}, true},
		{"vorbis comment set", map[string]interface{}{"compilation": "1"}, true},
		{"vorbis comment uppercase", map[string]interface{}{"COMPILATION": "1"}, true},
		{"empty value", map[string]interface{}{"TCMP": ""}, false},
	}

	for _, test := range tests {
		meta := &rawMetadata{raw: test.raw}
		if got := compilationFlag(meta); got != test.want {
			t.Errorf("%s: expected %v but got %v", test.name, test.want, got)
		}
	}
}
