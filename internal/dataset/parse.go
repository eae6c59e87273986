// Package dataset loads and cleans the four tabular sources feeding the
// overdose mortality report: mortality records, facility counts, the census
// region lookup, and the population/density series. Cleaning is silent by
// design: rows with missing or sentinel values are dropped and counted, never
// surfaced as errors.
package dataset

import (
	"bufio"
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Sentinel values published in place of a number when the source considers a
// figure unreliable or suppressed.
var sentinels = map[string]bool{
	"":               true,
	"Unreliable":     true,
	"Suppressed":     true,
	"Missing":        true,
	"Not Applicable": true,
	"N/A":            true,
	"*":              true,
	"**":             true,
}

// isSentinel reports whether a trimmed field is a known non-numeric placeholder.
func isSentinel(s string) bool {
	return sentinels[strings.TrimSpace(s)]
}

// parseCount parses an integer field, tolerating thousands separators.
// Returns false for sentinels and anything else non-numeric.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if isSentinel(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseRate parses a float field, tolerating thousands separators.
// Returns false for sentinels and anything else non-numeric.
func parseRate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if isSentinel(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseRateOrNaN parses a float field, mapping sentinels and junk to NaN so the
// densifier can fill the gap later.
func parseRateOrNaN(s string) float64 {
	v, ok := parseRate(s)
	if !ok {
		return math.NaN()
	}
	return v
}

// parseYear parses a year field, rejecting anything outside a sane window.
func parseYear(s string) (int, bool) {
	v, ok := parseCount(s)
	if !ok || v < 1900 || v > 2100 {
		return 0, false
	}
	return v, true
}

// trimQuotes removes surrounding double quotes from a field.
func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// mapColumns builds a case-insensitive column name to index map.
func mapColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

// getCol gets a column value by name from a record, returning empty string if
// the column is absent or the record is short.
func getCol(record []string, colIdx map[string]int, name string) string {
	idx, ok := colIdx[strings.ToLower(name)]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// sniffDelimiter inspects the first line of a buffered reader and picks tab
// over comma when the export is tab-delimited (CDC WONDER ships both).
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.Count(peek, []byte{'\t'}) > bytes.Count(peek, []byte{','}) {
		return '\t'
	}
	return ','
}
