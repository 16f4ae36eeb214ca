package mapper

import (
	"testing"
	"time"

	"survey-bot-be/internal/entity"
	"survey-bot-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSurveyReportRoundTrip(t *testing.T) {
	m := NewSurveyReportMapper()
	lat, lng := -6.2, 106.8
	finalizedAt := time.Now()

	e := &entity.SurveyReport{
		Id:            uuid.New(),
		ChatID:        42,
		Segment:       "SEGMENT UTARA",
		Category:      "KABEL UDARA",
		Designator:    "DES-AC-OF-SM-24",
		FolderPath:    "SEGMENT UTARA/DES-AC-OF-SM-24",
		EvidenceRefs:  []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		Latitude:      &lat,
		Longitude:     &lng,
		Address:       "Jl. Merdeka No. 1",
		Note:          "tarik kabel selesai",
		MaterialValue: 15000,
		ServiceValue:  8500,
		Total:         23500,
		FinalizedAt:   &finalizedAt,
	}

	got := m.ToEntity(m.ToModel(e))
	require.NotNil(t, got)
	assert.Equal(t, e.EvidenceRefs, got.EvidenceRefs)
	assert.Equal(t, e.Designator, got.Designator)
	assert.Equal(t, e.Total, got.Total)
	assert.Equal(t, e.Latitude, got.Latitude)
	assert.Equal(t, e.FinalizedAt, got.FinalizedAt)
}

func TestMalformedEvidenceRefsDegradeToEmpty(t *testing.T) {
	m := NewSurveyReportMapper()

	got := m.ToEntity(&model.SurveyReport{
		Id:           uuid.New(),
		EvidenceRefs: datatypes.JSON([]byte(`{not json`)),
	})
	require.NotNil(t, got)
	assert.Empty(t, got.EvidenceRefs)
	assert.NotNil(t, got.EvidenceRefs)
}

func TestNilRefsMarshalToEmptyArray(t *testing.T) {
	m := NewSurveyReportMapper()

	mod := m.ToModel(&entity.SurveyReport{Id: uuid.New()})
	assert.Equal(t, `[]`, string(mod.EvidenceRefs))
}
