// Package dataset reads collision records from delimited text files.
package dataset

import "time"

// Column names expected in the input header. Matching is exact and case-sensitive.
const (
	ColCollisionID = "COLLISION_ID"
	ColCrashDate   = "CRASH DATE"
	ColInjured     = "NUMBER OF PERSONS INJURED"
	ColKilled      = "NUMBER OF PERSONS KILLED"
	ColFactor1     = "CONTRIBUTING FACTOR VEHICLE 1"
	ColFactor2     = "CONTRIBUTING FACTOR VEHICLE 2"
	ColVehicle1    = "VEHICLE TYPE CODE 1"
	ColVehicle2    = "VEHICLE TYPE CODE 2"
	ColVehicle3    = "VEHICLE TYPE CODE 3"
	ColVehicle4    = "VEHICLE TYPE CODE 4"
	ColVehicle5    = "VEHICLE TYPE CODE 5"
)

// VehicleSlots is the number of vehicle type columns in the schema.
const VehicleSlots = 5

// RequiredColumns lists every header the loader needs, in schema order.
var RequiredColumns = []string{
	ColCollisionID, ColCrashDate, ColInjured, ColKilled, ColFactor1, ColFactor2,
	ColVehicle1, ColVehicle2, ColVehicle3, ColVehicle4, ColVehicle5,
}

// Cell is an optional string value. Valid is false when the source field was missing.
type Cell struct {
	Value string
	Valid bool
}

// Present wraps a non-missing value.
func Present(v string) Cell { return Cell{Value: v, Valid: true} }

// Absent is the missing-value marker.
var Absent = Cell{}

// Count is an optional integer value.
type Count struct {
	N     int
	Valid bool
}

// Known returns a Count holding n.
func Known(n int) Count { return Count{N: n, Valid: true} }

// OrZero returns the count, treating a missing value as zero.
func (c Count) OrZero() int {
	if !c.Valid {
		return 0
	}
	return c.N
}

// Record is one row of the collisions table.
type Record struct {
	// Row is the 1-based data row in the source file (header excluded).
	Row          int
	CollisionID  Cell
	CrashDate    time.Time // zero when the source field was missing
	VehicleTypes [VehicleSlots]Cell
	Factor1      Cell
	Factor2      Cell
	Injured      Count
	Killed       Count
}

// HasDate reports whether the crash date was present in the source row.
func (r Record) HasDate() bool { return !r.CrashDate.IsZero() }

// Table is the result of a load: the records plus bookkeeping about the read.
type Table struct {
	Name    string
	Records []Record
	// Truncated is set when MaxRows stopped the read before EOF.
	Truncated bool
	// NegativeCounts is the number of rows with a negative injured or killed value.
	NegativeCounts int
	// MissingDates is the number of rows without a crash date.
	MissingDates int
}
