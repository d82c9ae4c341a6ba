package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geoproc/internal/dataset"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record dataset.Record
		want   Classification
	}{
		{
			name:   "resolved coordinate",
			record: dataset.Record{"Geo_Latitude": -16.6868, "Geo_Longitude": -49.2647},
			want:   Found,
		},
		{
			name:   "sentinel latitude",
			record: dataset.Record{"Geo_Latitude": "Not found", "Geo_Longitude": "Not found"},
			want:   NotFound,
		},
		{
			name:   "absent latitude",
			record: dataset.Record{"Destination Address": "Rua Sem Numero"},
			want:   NotFound,
		},
		{
			name:   "null latitude",
			record: dataset.Record{"Geo_Latitude": nil},
			want:   NotFound,
		},
		{
			name:   "partial match beats found",
			record: dataset.Record{"Geo_Latitude": -16.7, "Partial_Match": true},
			want:   Partial,
		},
		{
			name:   "condominium beats partial",
			record: dataset.Record{"Status_Log": "CONDOMINIUM_DETECTED", "Partial_Match": true},
			want:   Condominium,
		},
		{
			name: "manual fix beats everything",
			record: dataset.Record{
				"Status_Log":   "MANUAL_FIX",
				"Partial_Match": false,
				"Geo_Latitude": -16.7,
			},
			want: ManualFix,
		},
		{
			name:   "manual fix on sentinel coordinate",
			record: dataset.Record{"Status_Log": "MANUAL_FIX", "Geo_Latitude": "Not found"},
			want:   ManualFix,
		},
		{
			name:   "false partial flag is ignored",
			record: dataset.Record{"Geo_Latitude": -16.7, "Partial_Match": false},
			want:   Found,
		},
		{
			name:   "unreserved status log does not reclassify",
			record: dataset.Record{"Geo_Latitude": -16.7, "Status_Log": "BAIRRO_MISMATCH"},
			want:   Found,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.record))
		})
	}
}

func TestClassifyIdempotentUnderUnrelatedEdits(t *testing.T) {
	r := dataset.Record{"Geo_Latitude": -16.7, "Geo_Longitude": -49.2}
	before := Classify(r)

	r["Courier Notes"] = "left at gate"
	assert.Equal(t, before, Classify(r))
	assert.Equal(t, before, Classify(r))
}

func TestNeedsFix(t *testing.T) {
	assert.False(t, NeedsFix(Found))
	assert.False(t, NeedsFix(ManualFix))
	assert.True(t, NeedsFix(NotFound))
	assert.True(t, NeedsFix(Partial))
	assert.True(t, NeedsFix(Condominium))
}

func TestClassificationString(t *testing.T) {
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "not_found", NotFound.String())
	assert.Equal(t, "partial", Partial.String())
	assert.Equal(t, "condominium", Condominium.String())
	assert.Equal(t, "manual_fix", ManualFix.String())
}
