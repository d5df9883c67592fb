package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "CRASH DATE,CRASH TIME,NUMBER OF PERSONS INJURED,NUMBER OF PERSONS KILLED," +
	"CONTRIBUTING FACTOR VEHICLE 1,CONTRIBUTING FACTOR VEHICLE 2,COLLISION_ID," +
	"VEHICLE TYPE CODE 1,VEHICLE TYPE CODE 2,VEHICLE TYPE CODE 3,VEHICLE TYPE CODE 4,VEHICLE TYPE CODE 5"

func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadParsesRecords(t *testing.T) {
	path := writeCSV(t, "crashes.csv",
		header,
		"09/11/2021,2:39,2,0,Unsafe Speed,,4455765,Sedan,Sedan,,,",
		"2021-03-26,11:45,,1.0,NA,Driver Inattention/Distraction,4513547,Sedan,,,,",
		"12/14/2021,8:13,0,0,Unspecified,Unspecified,4541903,Sedan,Station Wagon/Sport Utility Vehicle,Bike,,",
	)

	tab, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tab.Records, 3)
	assert.Equal(t, "crashes.csv", tab.Name)
	assert.False(t, tab.Truncated)

	r0 := tab.Records[0]
	assert.Equal(t, 1, r0.Row)
	assert.Equal(t, Present("4455765"), r0.CollisionID)
	assert.Equal(t, time.Date(2021, 9, 11, 0, 0, 0, 0, time.UTC), r0.CrashDate)
	assert.Equal(t, Known(2), r0.Injured)
	assert.Equal(t, Known(0), r0.Killed)
	assert.Equal(t, Present("Unsafe Speed"), r0.Factor1)
	assert.Equal(t, Absent, r0.Factor2)
	assert.Equal(t, [VehicleSlots]Cell{Present("Sedan"), Present("Sedan"), Absent, Absent, Absent}, r0.VehicleTypes)

	r1 := tab.Records[1]
	assert.False(t, r1.Injured.Valid, "empty injured cell is missing")
	assert.Equal(t, Known(1), r1.Killed)
	assert.Equal(t, Absent, r1.Factor1, "NA token is missing")
	assert.Equal(t, time.Date(2021, 3, 26, 0, 0, 0, 0, time.UTC), r1.CrashDate)

	assert.True(t, tab.Records[2].VehicleTypes[2].Valid)
}

func TestLoadTSVByExtension(t *testing.T) {
	tsvHeader := strings.ReplaceAll(header, ",", "\t")
	path := writeCSV(t, "crashes.tsv", tsvHeader, "09/11/2021\t2:39\t0\t0\tA\tB\t1\tSedan\tBus\t\t\t")

	tab, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tab.Records, 1)
	assert.Equal(t, Present("Bus"), tab.Records[0].VehicleTypes[1])
}

func TestLoadShortRowsArePadded(t *testing.T) {
	path := writeCSV(t, "short.csv", header, "09/11/2021,2:39,1,0,A,B,7,Sedan,Bus")

	tab, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tab.Records, 1)
	for i := 2; i < VehicleSlots; i++ {
		assert.False(t, tab.Records[0].VehicleTypes[i].Valid)
	}
}

func TestLoadMaxRowsTruncates(t *testing.T) {
	path := writeCSV(t, "many.csv", header,
		"09/11/2021,1:00,0,0,A,B,1,Sedan,Bus,,,",
		"09/11/2021,1:00,0,0,A,B,2,Sedan,Bus,,,",
		"09/11/2021,1:00,0,0,A,B,3,Sedan,Bus,,,",
	)
	opt := DefaultOptions()
	opt.MaxRows = 2

	tab, err := Load(path, opt)
	require.NoError(t, err)
	assert.Len(t, tab.Records, 2)
	assert.True(t, tab.Truncated)
}

func TestLoadCountsNegativeAndMissingDates(t *testing.T) {
	path := writeCSV(t, "neg.csv", header,
		"09/11/2021,1:00,-1,0,A,B,1,Sedan,Bus,,,",
		",1:00,0,0,A,B,2,Sedan,Bus,,,",
	)

	tab, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, tab.NegativeCounts)
	assert.Equal(t, 1, tab.MissingDates)
	assert.Equal(t, Known(-1), tab.Records[0].Injured, "negative counts pass through")
	assert.False(t, tab.Records[1].HasDate())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name  string
		lines []string
		row   int
		is    error
		inMsg string
	}{
		{name: "empty", lines: nil, is: ErrEmptyInput},
		{name: "missing columns", lines: []string{"COLLISION_ID,CRASH DATE", "1,09/11/2021"}, is: ErrMissingColumns, inMsg: "VEHICLE TYPE CODE 5"},
		{name: "bad date", lines: []string{header, "someday,1:00,0,0,A,B,1,Sedan,Bus,,,"}, row: 1, inMsg: "unparsable date"},
		{name: "bad count", lines: []string{header, "09/11/2021,1:00,0,0,A,B,1,Sedan,Bus,,,", "09/11/2021,1:00,two,0,A,B,2,Sedan,Bus,,,"}, row: 2, inMsg: "NUMBER OF PERSONS INJURED"},
		{name: "too many fields", lines: []string{header, "09/11/2021,1:00,0,0,A,B,1,Sedan,Bus,,,,extra"}, row: 1, inMsg: "expected 12 fields"},
		{name: "bad quoting", lines: []string{header, `09/11/2021,1:00,0,0,"A,B,1,Sedan,Bus,,,`}, row: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "in.csv")
			body := strings.Join(tc.lines, "\n")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			tab, err := Load(path, DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, tab)

			var le *LoadError
			require.True(t, errors.As(err, &le), "want *LoadError, got %T", err)
			assert.Equal(t, path, le.Path)
			assert.Equal(t, tc.row, le.Row)
			if tc.is != nil {
				assert.ErrorIs(t, err, tc.is)
			}
			if tc.inMsg != "" {
				assert.Contains(t, err.Error(), tc.inMsg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "open", le.Op)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadStripsByteOrderMark(t *testing.T) {
	body := "\ufeff" + header + "\n" + "09/11/2021,1:00,0,0,A,B,1,Sedan,Bus,,,\n"

	tab, err := Read(strings.NewReader(body), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tab.Records, 1)
	assert.True(t, tab.Records[0].HasDate())
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   Cell
		want Count
		err  bool
	}{
		{Absent, Count{}, false},
		{Present("3"), Known(3), false},
		{Present(" 4 "), Known(4), false},
		{Present("2.0"), Known(2), false},
		{Present("2.9"), Known(2), false},
		{Present("-1"), Known(-1), false},
		{Present("many"), Count{}, true},
		{Present("inf"), Count{}, true},
	}
	for _, tc := range cases {
		got, err := parseCount(tc.in)
		if tc.err {
			assert.Error(t, err, "input %q", tc.in.Value)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in.Value)
		assert.Equal(t, tc.want, got, "input %q", tc.in.Value)
	}
}

func TestCountOrZero(t *testing.T) {
	assert.Equal(t, 0, Count{}.OrZero())
	assert.Equal(t, 5, Known(5).OrZero())
}
