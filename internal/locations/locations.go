// Package locations turns the province/district table (il_ilce.csv) into the
// two lookup views the booking UI needs: the province list and the district
// lists per province.
package locations

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/hetulpatel/Randex/internal/domain"
)

// ErrDataUnavailable means the table is missing or malformed. It wraps domain.ErrNotFound.
var ErrDataUnavailable = fmt.Errorf("location data unavailable: %w", domain.ErrNotFound)

var (
	provinceHeaders = []string{"il", "province", "city"}
	districtHeaders = []string{"ilce", "ilçe", "district"}
)

// Entry is one province with its districts in source order.
type Entry struct {
	Province  string   `json:"province"`
	Districts []string `json:"districts"`
}

// Lookup holds provinces in first-appearance order.
type Lookup struct {
	entries []Entry
	index   map[string]int
	rows    int
}

// FromEntries rebuilds a lookup, e.g. from a cached copy.
func FromEntries(entries []Entry) *Lookup {
	l := &Lookup{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		for _, d := range e.Districts {
			l.add(e.Province, d)
		}
	}
	return l
}

func (l *Lookup) add(province, district string) {
	i, ok := l.index[province]
	if !ok {
		i = len(l.entries)
		l.index[province] = i
		l.entries = append(l.entries, Entry{Province: province})
	}
	l.entries[i].Districts = append(l.entries[i].Districts, district)
	l.rows++
}

// LoadFile parses the CSV at path.
func LoadFile(path string) (*Lookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, path, err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse reads a header row followed by one (province, district) row per line.
// Any malformed row fails the whole call.
func Parse(r io.Reader) (*Lookup, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		br.Discard(3)
	}
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty table", ErrDataUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrDataUnavailable, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header needs province and district columns, got %d", ErrDataUnavailable, len(header))
	}
	pc, dc := columns(header)

	l := &Lookup{index: make(map[string]int)}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) <= pc || len(rec) <= dc {
			return nil, fmt.Errorf("%w: line %d has %d columns", ErrDataUnavailable, line, len(rec))
		}
		province, district := strings.TrimSpace(rec[pc]), strings.TrimSpace(rec[dc])
		if province == "" || district == "" {
			return nil, fmt.Errorf("%w: line %d has an empty province or district", ErrDataUnavailable, line)
		}
		if !utf8.ValidString(province) || !utf8.ValidString(district) {
			return nil, fmt.Errorf("%w: line %d is not valid UTF-8", ErrDataUnavailable, line)
		}
		l.add(province, district)
	}
	return l, nil
}

// columns picks the province and district columns by header name, falling
// back to the first two columns.
func columns(header []string) (int, int) {
	pc, dc := -1, -1
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if pc < 0 && contains(provinceHeaders, h) {
			pc = i
		}
		if dc < 0 && contains(districtHeaders, h) {
			dc = i
		}
	}
	if pc < 0 || dc < 0 || pc == dc {
		return 0, 1
	}
	return pc, dc
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Provinces returns distinct provinces by first appearance.
func (l *Lookup) Provinces() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Province
	}
	return out
}

// Districts maps each province to its districts in source order.
func (l *Lookup) Districts() map[string][]string {
	out := make(map[string][]string, len(l.entries))
	for _, e := range l.entries {
		out[e.Province] = append([]string(nil), e.Districts...)
	}
	return out
}

// Entries returns a copy of the ordered entries.
func (l *Lookup) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		out[i] = Entry{Province: e.Province, Districts: append([]string(nil), e.Districts...)}
	}
	return out
}

// Rows is the number of (province, district) rows read.
func (l *Lookup) Rows() int {
	return l.rows
}

// ProvincesJSON encodes the province list without escaping non-ASCII text.
func (l *Lookup) ProvincesJSON() ([]byte, error) {
	return marshal(l.Provinces())
}

// DistrictsJSON encodes the province -> districts object. Keys follow
// province first-appearance order.
func (l *Lookup) DistrictsJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshal(e.Province)
		if err != nil {
			return nil, err
		}
		val, err := marshal(e.Districts)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
