package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/billing"
	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/roster"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "TREE BRAZILIAN JIU JITSU", cfg.AcademyName)
	assert.True(t, cfg.AllowCheckinWithOverdue)
	assert.Len(t, cfg.Plans, 2)
	assert.Equal(t, DefaultBelts, cfg.Belts)
	assert.NoError(t, cfg.Validate())
}

func TestDefault_ReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Belts[0] = "VERDE"

	b := Default()
	assert.Equal(t, DefaultBelts[0], b.Belts[0])
}

func TestNormalize(t *testing.T) {
	cfg := AppSettings{AcademyName: "Academia"}
	cfg.Normalize()
	assert.Equal(t, DefaultBelts, cfg.Belts)

	// A custom sequence is never replaced.
	custom := AppSettings{AcademyName: "Academia", Belts: []roster.Belt{"BRANCA", "PRETA"}}
	custom.Normalize()
	assert.Equal(t, []roster.Belt{"BRANCA", "PRETA"}, custom.Belts)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.AcademyName = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Belts = nil
	assert.ErrorIs(t, cfg.Validate(), ErrEmptyBeltSequence)

	cfg = Default()
	cfg.Plans = append(cfg.Plans, billing.Plan{ID: "3", Name: "", Price: 5000})
	assert.ErrorIs(t, cfg.Validate(), billing.ErrInvalidPlanName)
}
