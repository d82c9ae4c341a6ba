// Package export builds the two downloadable artifacts: the
// deduplicated route-planning CSV for Circuit and the multi-sheet
// workbook partitioned by classification.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geoproc/internal/dataset"
	"github.com/geoproc/internal/normalize"
)

// ErrEmptyExport indicates an export where every record was filtered
// out, e.g. all coordinates unresolved. Reported to the operator, not a
// crash; the dataset itself is left untouched.
var ErrEmptyExport = errors.New("no exportable records")

// CircuitRow is one route-planning stop: a distinct coordinate with the
// original sequence numbers of every record sharing it. Built fresh for
// each export, never persisted.
type CircuitRow struct {
	Latitude  string
	Longitude string
	Block     string
	Lot       string
	Sequences []int
}

// Observation renders the comma-joined sequence list and the block/lot
// fragment in the format the route planner expects.
func (r CircuitRow) Observation() string {
	seqs := make([]string, len(r.Sequences))
	for i, s := range r.Sequences {
		seqs[i] = strconv.Itoa(s)
	}
	return fmt.Sprintf("%s - Block:%s - Lot:%s", strings.Join(seqs, ", "), r.Block, r.Lot)
}

// GroupCircuit groups records by their exact coordinate strings in
// first-seen order. Records with an absent or unresolved coordinate are
// skipped. Sequence numbers are 1-based positions in the dataset as it
// stands now, not as it was at ingestion: a delete changes them.
//
// The block/lot fragment of the first record seen for a coordinate is
// retained; later records at the same coordinate are not re-parsed even
// when their addresses disagree.
func GroupCircuit(records []dataset.Record) []CircuitRow {
	index := make(map[string]int)
	var rows []CircuitRow

	for i, r := range records {
		if !r.HasCoordinate() {
			continue
		}
		seq := i + 1
		lat, lng := r.Latitude(), r.Longitude()
		key := lat + "|" + lng

		if at, ok := index[key]; ok {
			rows[at].Sequences = append(rows[at].Sequences, seq)
			continue
		}

		block, lot := normalize.ExtractBlockLot(r.NormalizedAddress())
		index[key] = len(rows)
		rows = append(rows, CircuitRow{
			Latitude:  lat,
			Longitude: lng,
			Block:     block,
			Lot:       lot,
			Sequences: []int{seq},
		})
	}
	return rows
}

// WriteCircuitCSV serializes grouped rows as the Circuit CSV artifact.
// An empty group set returns ErrEmptyExport and writes nothing.
func WriteCircuitCSV(w io.Writer, rows []CircuitRow) error {
	if len(rows) == 0 {
		return ErrEmptyExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Geo_Latitude", "Geo_Longitude", "Observations"}); err != nil {
		return fmt.Errorf("write circuit header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Latitude, r.Longitude, r.Observation()}); err != nil {
			return fmt.Errorf("write circuit row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CircuitFilename derives the download name from the upload name.
func CircuitFilename(sourceName string) string {
	return baseName(sourceName) + "_CIRCUIT.csv"
}

func baseName(sourceName string) string {
	name := sourceName
	if idx := strings.IndexByte(name, '.'); idx > 0 {
		name = name[:idx]
	}
	if name == "" {
		name = "dataset"
	}
	return name
}
