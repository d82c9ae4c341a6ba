// Package classify derives a resolution status for a record from its
// current field values. It is the single shared implementation behind
// the table badges, the correction affordance and the workbook
// partitioning; classification is never stored, always recomputed, so
// an edit changes it immediately.
package classify

import (
	"github.com/geoproc/internal/dataset"
)

// Classification is the derived resolution-quality tag of a record.
type Classification int

const (
	Found Classification = iota
	NotFound
	Partial
	Condominium
	ManualFix
)

// String returns the wire/API name of the classification.
func (c Classification) String() string {
	switch c {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Partial:
		return "partial"
	case Condominium:
		return "condominium"
	case ManualFix:
		return "manual_fix"
	}
	return "unknown"
}

// Classify computes the classification of a record. Pure and
// deterministic; rules are evaluated in priority order, first match
// wins:
//
//  1. Status_Log == MANUAL_FIX
//  2. Status_Log == CONDOMINIUM_DETECTED
//  3. Partial_Match == true
//  4. latitude absent or the "Not found" sentinel
//  5. otherwise Found
func Classify(r dataset.Record) Classification {
	switch {
	case r.StatusLog() == dataset.StatusManualFix:
		return ManualFix
	case r.StatusLog() == dataset.StatusCondominium:
		return Condominium
	case r.PartialMatch():
		return Partial
	case r.Latitude() == "" || r.Latitude() == dataset.NotFound:
		return NotFound
	}
	return Found
}

// NeedsFix reports whether a record wants operator attention: anything
// other than a clean geocode or a manual fix.
func NeedsFix(c Classification) bool {
	return c != Found && c != ManualFix
}
