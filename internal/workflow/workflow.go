// Package workflow is the manual-correction state machine: the
// operator picks a record, chooses a coordinate on the map or through a
// text search, and commits it back into the dataset store. Only the
// commit step mutates the store, and it writes exactly one patch.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/geoproc/internal/corrections"
	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/geocode"
)

// State of the correction workflow.
type State int

const (
	Idle State = iota
	Editing
	LocationSelected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Editing:
		return "editing"
	case LocationSelected:
		return "location_selected"
	}
	return "unknown"
}

var (
	// ErrInvalidState indicates a transition driven from the wrong
	// state, e.g. a commit without a selected location.
	ErrInvalidState = errors.New("invalid workflow state for operation")

	// ErrNoCandidates indicates a manual search that returned nothing;
	// the workflow stays in Editing so the operator can try again.
	ErrNoCandidates = errors.New("no candidates for search query")

	// ErrStaleResponse indicates a completion that belongs to a
	// superseded editing session or dataset load; its result is
	// discarded, never applied.
	ErrStaleResponse = errors.New("response belongs to a superseded session")
)

// Searcher is the manual-search side channel, satisfied by
// geocode.Client.
type Searcher interface {
	Geocode(ctx context.Context, query string) ([]geocode.Candidate, error)
}

// FixSink receives committed fixes for persistence, satisfied by
// corrections.Repository. Persistence is best-effort: a sink failure
// never fails a commit.
type FixSink interface {
	Save(ctx context.Context, fix corrections.Fix) (bool, error)
}

// Workflow drives one correction at a time against a dataset store.
type Workflow struct {
	store  *dataset.Store
	search Searcher
	sink   FixSink

	state      State
	index      int
	address    string
	centerLat  string
	centerLng  string
	selLat     float64
	selLng     float64
	session    uuid.UUID
	generation uuid.UUID
}

// New returns an idle workflow over the store. search and sink may be
// nil when manual search or persistence are not configured.
func New(store *dataset.Store, search Searcher, sink FixSink) *Workflow {
	return &Workflow{store: store, search: search, sink: sink, state: Idle, index: -1}
}

// State returns the current state.
func (w *Workflow) State() State { return w.state }

// Index returns the record index under correction, -1 when idle.
func (w *Workflow) Index() int { return w.index }

// Address returns the best-known address text of the record under
// correction, shown as the editor label and search seed.
func (w *Workflow) Address() string { return w.address }

// MapCenter returns the record's existing coordinate as strings; both
// empty when the record has no usable coordinate and the map should
// fall back to its default center.
func (w *Workflow) MapCenter() (lat, lng string) {
	return w.centerLat, w.centerLng
}

// Selected returns the currently chosen coordinate. Only meaningful in
// LocationSelected.
func (w *Workflow) Selected() (lat, lng float64) { return w.selLat, w.selLng }

// Begin enters Editing for the record at index. An index outside the
// current dataset bounds is a caller bug and fails fast with the
// store's range error, leaving the workflow untouched.
func (w *Workflow) Begin(index int) error {
	if w.state != Idle {
		return fmt.Errorf("%w: begin from %s", ErrInvalidState, w.state)
	}
	record, err := w.store.At(index)
	if err != nil {
		return err
	}

	w.state = Editing
	w.index = index
	w.address = record.BestAddress()
	w.session = uuid.New()
	w.generation = w.store.Generation()
	w.centerLat, w.centerLng = "", ""
	if record.HasCoordinate() {
		w.centerLat = record.Latitude()
		w.centerLng = record.Longitude()
	}
	return nil
}

// SelectLocation records a map click. Valid from Editing, and from
// LocationSelected when the operator picks again.
func (w *Workflow) SelectLocation(lat, lng float64) error {
	if w.state != Editing && w.state != LocationSelected {
		return fmt.Errorf("%w: select from %s", ErrInvalidState, w.state)
	}
	w.selLat, w.selLng = lat, lng
	w.state = LocationSelected
	return nil
}

// Search resolves a free-text query through the search service and, on
// success, treats the top candidate exactly like a map click. On zero
// candidates or a transport failure the workflow stays where it was and
// the error is surfaced to the operator; a guess is never committed.
//
// The completion is applied only if the editing session and the dataset
// generation are still the ones the search was started under; a result
// that arrives after the operator moved on is discarded.
func (w *Workflow) Search(ctx context.Context, query string) (geocode.Candidate, error) {
	if w.state != Editing && w.state != LocationSelected {
		return geocode.Candidate{}, fmt.Errorf("%w: search from %s", ErrInvalidState, w.state)
	}
	if w.search == nil {
		return geocode.Candidate{}, fmt.Errorf("%w: no search service configured", geocode.ErrUnavailable)
	}

	session := w.session
	generation := w.generation

	candidates, err := w.search.Geocode(ctx, query)
	if err != nil {
		return geocode.Candidate{}, err
	}

	if session != w.session || generation != w.store.Generation() {
		return geocode.Candidate{}, ErrStaleResponse
	}
	if len(candidates) == 0 {
		return geocode.Candidate{}, ErrNoCandidates
	}

	top := candidates[0]
	if err := w.SelectLocation(top.Latitude, top.Longitude); err != nil {
		return geocode.Candidate{}, err
	}
	return top, nil
}

// Commit writes the selected location into the store and returns to
// Idle. The patch sets exactly Geo_Latitude, Geo_Longitude,
// Status_Log=MANUAL_FIX and Partial_Match=false; every other field of
// the record is untouched. No other state may perform this mutation.
func (w *Workflow) Commit(ctx context.Context) error {
	if w.state != LocationSelected {
		return fmt.Errorf("%w: commit from %s", ErrInvalidState, w.state)
	}
	if w.generation != w.store.Generation() {
		w.reset()
		return ErrStaleResponse
	}

	patch := dataset.Record{
		dataset.ColLatitude:     w.selLat,
		dataset.ColLongitude:    w.selLng,
		dataset.ColStatusLog:    dataset.StatusManualFix,
		dataset.ColPartialMatch: false,
	}
	if err := w.store.UpdateAt(w.index, patch); err != nil {
		return err
	}

	w.persistFix(ctx)
	w.reset()
	return nil
}

// persistFix hands the committed fix to the corrections store. Failures
// are logged and swallowed: the in-session dataset is already correct.
func (w *Workflow) persistFix(ctx context.Context) {
	if w.sink == nil {
		return
	}
	record, err := w.store.At(w.index)
	if err != nil {
		return
	}
	address := record.NormalizedAddress()
	if address == "" {
		return
	}
	fix := corrections.Fix{
		Address:   address,
		District:  fieldOrEmpty(record, "Bairro"),
		City:      fieldOrEmpty(record, "City"),
		Latitude:  w.selLat,
		Longitude: w.selLng,
	}
	if _, err := w.sink.Save(ctx, fix); err != nil {
		log.Printf("corrections: persisting fix for %q failed: %v", address, err)
	}
}

func fieldOrEmpty(r dataset.Record, col string) string {
	if v, ok := r[col].(string); ok {
		return v
	}
	return ""
}

// Cancel discards any selected location and returns to Idle without
// touching the store. Cancelling an idle workflow is a no-op.
func (w *Workflow) Cancel() {
	w.reset()
}

func (w *Workflow) reset() {
	w.state = Idle
	w.index = -1
	w.address = ""
	w.centerLat, w.centerLng = "", ""
	w.selLat, w.selLng = 0, 0
	w.session = uuid.Nil
	w.generation = uuid.Nil
}
