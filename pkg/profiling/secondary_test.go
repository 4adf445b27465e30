package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/dispatch"
	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func TestQualifiesForFrequency(t *testing.T) {
	ok := &models.ProfileResult{
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     100,
		MaxLength:   int64p(20),
	}
	assert.True(t, qualifiesForFrequency(ok))

	numeric := &models.ProfileResult{
		GeneralType: models.GeneralTypeNumeric,
		ValueCt:     100,
		MaxLength:   int64p(20),
	}
	assert.False(t, qualifiesForFrequency(numeric))

	empty := &models.ProfileResult{
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     0,
		MaxLength:   int64p(20),
	}
	assert.False(t, qualifiesForFrequency(empty))

	long := &models.ProfileResult{
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     100,
		MaxLength:   int64p(freqMaxLength + 1),
	}
	assert.False(t, qualifiesForFrequency(long))

	noLength := &models.ProfileResult{
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     100,
	}
	assert.False(t, qualifiesForFrequency(noLength))
}

func TestDigestByColumn(t *testing.T) {
	batch := &dispatch.BatchResult{
		Columns: []string{"COLUMN_NAME", "TOP_VALUE", "FREQ_CT"},
		Rows: [][]any{
			{"status", "active", int64(70)},
			{"status", "closed", int64(25)},
			{"region", "west", int64(40)},
			{"status", "frozen", int64(5)},
		},
	}

	digests := digestByColumn(batch, "top_value")
	assert.Len(t, digests, 2)
	assert.Equal(t, "| active | 70\n| closed | 25\n| frozen | 5", digests["status"])
	assert.Equal(t, "| west | 40", digests["region"])
}

func TestDigestByColumn_EmptyBatch(t *testing.T) {
	digests := digestByColumn(&dispatch.BatchResult{}, "top_value")
	assert.Empty(t, digests)
}

func TestFirstDigestValue(t *testing.T) {
	assert.Equal(t, "active", firstDigestValue("| active | 70\n| closed | 25"))
	assert.Equal(t, "NNN-NN-NNNN", firstDigestValue("| NNN-NN-NNNN | 990"))
	assert.Equal(t, "", firstDigestValue(""))
	assert.Equal(t, "", firstDigestValue("garbage"))
}
