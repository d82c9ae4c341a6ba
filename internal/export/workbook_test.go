package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoproc/internal/dataset"
)

func TestBuildWorkbookPartitionsByClassification(t *testing.T) {
	columns := []string{"Destination Address", "Geo_Latitude", "Geo_Longitude", "Partial_Match", "Status_Log"}
	records := []dataset.Record{
		{"Destination Address": "Rua A", "Geo_Latitude": -16.1, "Geo_Longitude": -49.1},
		{"Destination Address": "Rua B", "Geo_Latitude": -16.2, "Geo_Longitude": -49.2},
		{"Destination Address": "Rua C", "Geo_Latitude": -16.3, "Geo_Longitude": -49.3, "Partial_Match": true},
	}

	f, err := BuildWorkbook(records, columns)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFound, SheetPartial}, f.GetSheetList())

	// header row carries the load-time column order
	got, err := f.GetCellValue(SheetFound, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Destination Address", got)

	// both found records land on the Found sheet in dataset order
	a2, err := f.GetCellValue(SheetFound, "A2")
	require.NoError(t, err)
	a3, err := f.GetCellValue(SheetFound, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Rua A", a2)
	assert.Equal(t, "Rua B", a3)

	p2, err := f.GetCellValue(SheetPartial, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Rua C", p2)
}

func TestBuildWorkbookSheetOrder(t *testing.T) {
	columns := []string{"Destination Address", "Geo_Latitude"}
	records := []dataset.Record{
		{"Destination Address": "Rua NF", "Geo_Latitude": "Not found"},
		{"Destination Address": "Rua Cond", "Status_Log": "CONDOMINIUM_DETECTED"},
		{"Destination Address": "Rua OK", "Geo_Latitude": -16.1},
		{"Destination Address": "Rua P", "Geo_Latitude": -16.2, "Partial_Match": true},
	}

	f, err := BuildWorkbook(records, columns)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetFound, SheetPartial, SheetCondominium, SheetNotFound}, f.GetSheetList())
}

func TestBuildWorkbookManualFixShipsAsFound(t *testing.T) {
	columns := []string{"Destination Address", "Geo_Latitude", "Status_Log"}
	records := []dataset.Record{
		{"Destination Address": "Rua M", "Geo_Latitude": -16.1, "Status_Log": "MANUAL_FIX"},
	}

	f, err := BuildWorkbook(records, columns)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetFound}, f.GetSheetList())
	status, err := f.GetCellValue(SheetFound, "C2")
	require.NoError(t, err)
	assert.Equal(t, "MANUAL_FIX", status)
}

func TestBuildWorkbookEmpty(t *testing.T) {
	_, err := BuildWorkbook(nil, nil)
	assert.ErrorIs(t, err, ErrEmptyExport)
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Not Found    Errors", SanitizeSheetName("Not Found [/ Errors"))
	long := "0123456789012345678901234567890123456789"
	assert.Len(t, SanitizeSheetName(long), 31)
}

func TestWorkbookFilename(t *testing.T) {
	assert.Equal(t, "rotas_processed.xlsx", WorkbookFilename("rotas.xlsx"))
}
