package analysis

import "github.com/KaramelBytes/crashpair/internal/dataset"

// IsTwoVehicle reports whether exactly the first two vehicle type slots are filled.
func IsTwoVehicle(r dataset.Record) bool {
	v := r.VehicleTypes
	return v[0].Valid && v[1].Valid && !v[2].Valid && !v[3].Valid && !v[4].Valid
}

// SelectTwoVehicle keeps the two-vehicle collisions, preserving input order.
// The input slice is not modified.
func SelectTwoVehicle(records []dataset.Record) []dataset.Record {
	out := make([]dataset.Record, 0, len(records)/2)
	for _, r := range records {
		if IsTwoVehicle(r) {
			out = append(out, r)
		}
	}
	return out
}
