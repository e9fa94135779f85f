// Package protocol parses responses from polled serial devices.
//
// Devices answer requests with a concatenation of $<address>:<value> tokens,
// optionally followed by a comma and a checksum suffix:
//
//	$10:123$20:45.6,A3F2
//
// The checksum is produced by the device firmware and is not verified here;
// everything after the last comma is discarded before tokenizing.
package protocol

import (
	"regexp"
	"strconv"
	"strings"
)

// tokenPattern matches one $<address>:<value> token. Values may be numeric,
// hex-ish, or signed decimals depending on firmware, so the value class is loose.
var tokenPattern = regexp.MustCompile(`\$(\d+):([0-9A-Za-z\.\-]+)`)

// Pair is one (address, raw value string) extracted from a device response.
// Order matches the order of appearance in the response.
type Pair struct {
	Addr  string
	Value string
}

// ParseResponse extracts the ordered (address, value) pairs from a raw response.
// A malformed or empty response yields no pairs, never an error: the poller
// treats "nothing parsed" as "no data this cycle".
func ParseResponse(resp string) []Pair {
	if resp == "" {
		return nil
	}
	s := strings.TrimSpace(resp)
	if i := strings.LastIndex(s, ","); i >= 0 {
		s = s[:i]
	}

	matches := tokenPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}

	pairs := make([]Pair, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, Pair{Addr: m[1], Value: m[2]})
	}
	return pairs
}

// ParseResponseMap returns the pairs keyed by address. Later occurrences of the
// same address win, matching how a device would report a refreshed value.
func ParseResponseMap(resp string) map[string]string {
	pairs := ParseResponse(resp)
	if len(pairs) == 0 {
		return nil
	}
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Addr] = p.Value
	}
	return m
}

// Cell is one configured poll target: a display name plus the device address
// queried for it. A bare address serves as its own name.
type Cell struct {
	Name string
	Addr string
}

// ParseCells converts command-line cell tokens into Cells. Each token is either
// "<Name>:<Addr>" or a bare "<Addr>". Empty tokens are skipped.
func ParseCells(tokens []string) []Cell {
	var cells []Cell
	for _, tok := range tokens {
		if name, addr, ok := strings.Cut(tok, ":"); ok {
			cells = append(cells, Cell{Name: strings.TrimSpace(name), Addr: strings.TrimSpace(addr)})
			continue
		}
		addr := strings.TrimSpace(tok)
		if addr != "" {
			cells = append(cells, Cell{Name: addr, Addr: addr})
		}
	}
	return cells
}

// ParseValue converts a raw value string to a float64. Unparseable values
// become 0, the sentinel for "no data": a device glitch should plot as a
// dropout, not kill the cycle.
func ParseValue(raw string) float64 {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
