package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options controls how the input table is read.
type Options struct {
	// Delimiter for the file. If 0, chosen from the file extension (',' or '\t').
	Delimiter rune
	// MaxRows limits the number of data rows read; 0 means unlimited.
	MaxRows int
	// Logger receives load progress. Nil disables logging.
	Logger *zap.Logger
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{}
}

// naTokens are the field values read as missing, matching the usual CSV NA conventions.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func cell(v string) Cell {
	if _, na := naTokens[v]; na {
		return Absent
	}
	return Present(v)
}

// Load opens path and reads every collision record from it. The file is closed
// before Load returns, on success and on failure.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open", Err: err}
	}
	defer f.Close()

	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	t, err := Read(f, opt)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Read parses a collisions table from r. Any malformed row aborts the read.
func Read(r io.Reader, opt Options) (*Table, error) {
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Op: "read header", Err: ErrEmptyInput}
		}
		return nil, &LoadError{Op: "read header", Err: err}
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, &LoadError{Op: "check header", Err: err}
	}
	ncol := len(header)

	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	t := &Table{}
	for {
		if len(t.Records) >= maxRows {
			if _, err := cr.Read(); err == nil {
				t.Truncated = true
			}
			break
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &LoadError{Row: len(t.Records) + 1, Op: "read row", Err: err}
		}
		row := len(t.Records) + 1
		if len(rec) > ncol {
			return nil, &LoadError{Row: row, Op: "read row", Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		parsed, err := parseRecord(rec, idx)
		if err != nil {
			return nil, &LoadError{Row: row, Op: "parse row", Err: err}
		}
		parsed.Row = row
		if parsed.Injured.N < 0 || parsed.Killed.N < 0 {
			t.NegativeCounts++
		}
		if !parsed.HasDate() {
			t.MissingDates++
		}
		t.Records = append(t.Records, parsed)
	}
	log.Debug("collision table read",
		zap.Int("rows", len(t.Records)),
		zap.Bool("truncated", t.Truncated),
		zap.Int("negative_counts", t.NegativeCounts),
		zap.Int("missing_dates", t.MissingDates))
	return t, nil
}

type columnIndex struct {
	id, date, injured, killed, factor1, factor2 int
	vehicles                                    [VehicleSlots]int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	idx := columnIndex{
		id:      lookup(ColCollisionID),
		date:    lookup(ColCrashDate),
		injured: lookup(ColInjured),
		killed:  lookup(ColKilled),
		factor1: lookup(ColFactor1),
		factor2: lookup(ColFactor2),
	}
	for i := range idx.vehicles {
		idx.vehicles[i] = lookup(fmt.Sprintf("VEHICLE TYPE CODE %d", i+1))
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(rec []string, idx columnIndex) (Record, error) {
	field := func(i int) Cell {
		// short rows are padded with missing values
		if i >= len(rec) {
			return Absent
		}
		return cell(rec[i])
	}
	var out Record
	out.CollisionID = field(idx.id)
	out.Factor1 = field(idx.factor1)
	out.Factor2 = field(idx.factor2)
	for i, c := range idx.vehicles {
		out.VehicleTypes[i] = field(c)
	}
	if d := field(idx.date); d.Valid {
		t, ok := parseDate(d.Value)
		if !ok {
			return out, fmt.Errorf("%s: unparsable date %q", ColCrashDate, d.Value)
		}
		out.CrashDate = t
	}
	var err error
	if out.Injured, err = parseCount(field(idx.injured)); err != nil {
		return out, fmt.Errorf("%s: %w", ColInjured, err)
	}
	if out.Killed, err = parseCount(field(idx.killed)); err != nil {
		return out, fmt.Errorf("%s: %w", ColKilled, err)
	}
	return out, nil
}

// parseCount accepts integers and decimal text, truncating toward zero.
func parseCount(c Cell) (Count, error) {
	if !c.Valid {
		return Count{}, nil
	}
	raw := strings.TrimSpace(c.Value)
	if n, err := strconv.Atoi(raw); err == nil {
		return Known(n), nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Count{}, fmt.Errorf("not a number: %q", c.Value)
	}
	return Known(int(f)), nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") {
		return '\t'
	}
	return ','
}

var dateLayouts = []string{
	"01/02/2006", "1/2/2006", "2006-01-02", "2006/01/02",
	"2006-01-02T15:04:05.000", "2006-01-02T15:04:05", time.RFC3339,
	"2006-01-02 15:04:05", "2006-01-02 15:04", "01/02/2006 15:04",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
