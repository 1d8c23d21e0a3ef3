package palette

import (
	_ "embed" // Embed the default reference table
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

//go:embed colors.csv
var defaultTable string

// fieldCount is the number of columns in a reference table row:
// label, name, hex, R, G, B.
const fieldCount = 6

// ColorEntry is one named reference color.
//
// Entries are created by Load and never mutated afterwards.
type ColorEntry struct {
	Label string `json:"label"` // Display token from the first column
	Name  string `json:"name"`  // Human-readable color name
	Hex   string `json:"hex"`   // Hex token as written in the table (not checked against R/G/B)
	R     uint8  `json:"r"`     // Red component (0-255)
	G     uint8  `json:"g"`     // Green component (0-255)
	B     uint8  `json:"b"`     // Blue component (0-255)
}

// Color returns the entry's R/G/B as a colorful.Color.
func (e ColorEntry) Color() colorful.Color {
	return colorful.Color{
		R: float64(e.R) / 255.0,
		G: float64(e.G) / 255.0,
		B: float64(e.B) / 255.0,
	}
}

// Index is an immutable, non-empty, ordered set of reference colors.
//
// An Index is safe for concurrent use once constructed.
type Index struct {
	entries []ColorEntry
}

// ConfigError reports a reference table that cannot be turned into an Index.
//
// Row is the 1-based row number of the offending record, or 0 when the
// problem is not tied to a single row (empty table, unreadable source).
type ConfigError struct {
	Row    int
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("palette config error")
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Load builds an Index from table rows of the form
// label, name, hex, R, G, B.
//
// Rows keep their input order. Load fails with *ConfigError when records is
// empty, a row is short, or any of R/G/B is missing, not a decimal integer
// or outside [0,255].
func Load(records [][]string) (*Index, error) {
	if len(records) == 0 {
		return nil, &ConfigError{Reason: "reference table is empty"}
	}

	entries := make([]ColorEntry, 0, len(records))
	for i, rec := range records {
		row := i + 1
		if len(rec) < fieldCount {
			return nil, &ConfigError{
				Row:    row,
				Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(rec)),
			}
		}

		var rgb [3]uint8
		for c, field := range []string{"R", "G", "B"} {
			v, err := parseChannel(rec[3+c])
			if err != nil {
				return nil, &ConfigError{Row: row, Field: field, Reason: err.Error()}
			}
			rgb[c] = v
		}

		entries = append(entries, ColorEntry{
			Label: strings.TrimSpace(rec[0]),
			Name:  strings.TrimSpace(rec[1]),
			Hex:   strings.TrimSpace(rec[2]),
			R:     rgb[0],
			G:     rgb[1],
			B:     rgb[2],
		})
	}

	return &Index{entries: entries}, nil
}

func parseChannel(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("missing value")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Errorf("%q is not an integer", s)
	}
	if v < 0 || v > 255 {
		return 0, errors.Errorf("%d outside range 0-255", v)
	}
	return uint8(v), nil
}

// LoadCSV reads a headerless CSV reference table and builds an Index from it.
func LoadCSV(r io.Reader) (*Index, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &ConfigError{Reason: "malformed csv", Err: err}
	}
	return Load(records)
}

// LoadFile opens path and reads it with LoadCSV.
func LoadFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Err: errors.Wrapf(err, "open palette %s", path)}
	}
	defer f.Close()

	idx, err := LoadCSV(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "load palette %s", path)
	}
	return idx, nil
}

// Default returns an Index over the embedded reference table.
func Default() (*Index, error) {
	return LoadCSV(strings.NewReader(defaultTable))
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns a copy of the entries in table order.
func (idx *Index) Entries() []ColorEntry {
	out := make([]ColorEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Lookup returns the last entry whose name matches name, ignoring case.
func (idx *Index) Lookup(name string) (ColorEntry, bool) {
	for i := len(idx.entries) - 1; i >= 0; i-- {
		if strings.EqualFold(idx.entries[i].Name, name) {
			return idx.entries[i], true
		}
	}
	return ColorEntry{}, false
}
