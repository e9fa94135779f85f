package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		resp string
		want []Pair
	}{
		{
			name: "two tokens with checksum suffix",
			resp: "$10:123$20:45,CRC",
			want: []Pair{{Addr: "10", Value: "123"}, {Addr: "20", Value: "45"}},
		},
		{
			name: "single token no checksum",
			resp: "$7:3.14",
			want: []Pair{{Addr: "7", Value: "3.14"}},
		},
		{
			name: "negative and hex-ish values",
			resp: "$1:-5.5$2:0A3F",
			want: []Pair{{Addr: "1", Value: "-5.5"}, {Addr: "2", Value: "0A3F"}},
		},
		{
			name: "surrounding whitespace",
			resp: "  $10:1$20:2,FF\r\n",
			want: []Pair{{Addr: "10", Value: "1"}, {Addr: "20", Value: "2"}},
		},
		{
			name: "empty response",
			resp: "",
			want: nil,
		},
		{
			name: "garbage yields nothing",
			resp: "hello world",
			want: nil,
		},
		{
			name: "checksum strip uses last comma",
			resp: "$10:1,$20:2,CRC",
			want: []Pair{{Addr: "10", Value: "1"}, {Addr: "20", Value: "2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseResponse(tt.resp))
		})
	}
}

func TestParseResponseMap(t *testing.T) {
	m := ParseResponseMap("$10:123$20:45,CRC")
	require.Len(t, m, 2)
	assert.Equal(t, "123", m["10"])
	assert.Equal(t, "45", m["20"])

	// Later occurrence of the same address wins
	m = ParseResponseMap("$10:1$10:2")
	assert.Equal(t, "2", m["10"])

	assert.Nil(t, ParseResponseMap("not a response"))
}

func TestParseCells(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   []Cell
	}{
		{
			name:   "named and bare cells",
			tokens: []string{"V1:10", "20"},
			want:   []Cell{{Name: "V1", Addr: "10"}, {Name: "20", Addr: "20"}},
		},
		{
			name:   "whitespace trimmed",
			tokens: []string{" Temp : 33 "},
			want:   []Cell{{Name: "Temp", Addr: "33"}},
		},
		{
			name:   "empty tokens skipped",
			tokens: []string{"", "  ", "5"},
			want:   []Cell{{Name: "5", Addr: "5"}},
		},
		{
			name:   "no tokens",
			tokens: nil,
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCells(tt.tokens))
		})
	}
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 123.0, ParseValue("123"))
	assert.Equal(t, -5.5, ParseValue("-5.5"))
	assert.Equal(t, 0.0, ParseValue("garbage"))
	assert.Equal(t, 0.0, ParseValue(""))
}
