package dataset

import (
	"strconv"
)

// Sentinel value the geocoding backend writes into coordinate fields
// it could not resolve.
const NotFound = "Not found"

// Reserved Status_Log values that change how a record is treated.
const (
	StatusManualFix   = "MANUAL_FIX"
	StatusCondominium = "CONDOMINIUM_DETECTED"
)

// Column names the core logic reads. Every other column is opaque
// payload carried through to the exports.
const (
	ColLatitude          = "Geo_Latitude"
	ColLongitude         = "Geo_Longitude"
	ColNormalizedAddress = "Normalized_Address"
	ColPartialMatch      = "Partial_Match"
	ColStatusLog         = "Status_Log"
)

// Housekeeping columns injected by the upstream ingestion process,
// dropped on load.
var housekeepingColumns = []string{"Unnamed: 0", "idx"}

// Columns the original spreadsheet may use for the destination address,
// checked in order when the correction editor needs display text.
var addressColumns = []string{"Destination Address", "Endereço", "Address", "Rua"}

// Record is one row of the uploaded dataset after geocoding: a mapping
// from column name to a JSON scalar (string, float64, bool or nil).
type Record map[string]any

// fieldString renders a field as a string. Absent and null fields come
// back empty; numbers keep their shortest exact representation so that
// coordinate strings compare stable across reads.
func (r Record) fieldString(col string) string {
	v, ok := r[col]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// Latitude returns the resolved latitude as a string, which may be the
// NotFound sentinel or empty when the field is absent.
func (r Record) Latitude() string { return r.fieldString(ColLatitude) }

// Longitude returns the resolved longitude as a string.
func (r Record) Longitude() string { return r.fieldString(ColLongitude) }

// NormalizedAddress returns the canonicalized address string.
func (r Record) NormalizedAddress() string { return r.fieldString(ColNormalizedAddress) }

// StatusLog returns the free-form status tag.
func (r Record) StatusLog() string { return r.fieldString(ColStatusLog) }

// PartialMatch reports whether geocoding matched only part of the address.
func (r Record) PartialMatch() bool {
	v, ok := r[ColPartialMatch].(bool)
	return ok && v
}

// HasCoordinate reports whether both coordinate fields hold a usable
// value, i.e. are present, non-empty and not the sentinel.
func (r Record) HasCoordinate() bool {
	lat, lng := r.Latitude(), r.Longitude()
	if lat == "" || lng == "" {
		return false
	}
	return lat != NotFound && lng != NotFound
}

// BestAddress returns the first populated address column, used as the
// map-editor label and search seed for a record under correction.
func (r Record) BestAddress() string {
	for _, col := range addressColumns {
		if s := r.fieldString(col); s != "" {
			return s
		}
	}
	return r.NormalizedAddress()
}

// IsEmpty reports whether every field is null, absent or an empty string.
// Trailing blank spreadsheet rows arrive this way and must not survive
// ingestion.
func (r Record) IsEmpty() bool {
	for _, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// clone returns a shallow copy so store readers never alias live rows.
func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
