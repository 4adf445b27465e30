package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func TestClassifyGeneralType(t *testing.T) {
	tests := []struct {
		columnType string
		expected   models.GeneralType
	}{
		{"boolean", models.GeneralTypeBoolean},
		{"bit", models.GeneralTypeBoolean},
		{"timestamp without time zone", models.GeneralTypeDate},
		{"timestamp_ntz", models.GeneralTypeDate},
		{"datetime2", models.GeneralTypeDate},
		{"date", models.GeneralTypeDate},
		{"time", models.GeneralTypeTime},
		{"time without time zone", models.GeneralTypeTime},
		{"character varying", models.GeneralTypeAlpha},
		{"varchar", models.GeneralTypeAlpha},
		{"nvarchar", models.GeneralTypeAlpha},
		{"text", models.GeneralTypeAlpha},
		{"uuid", models.GeneralTypeAlpha},
		{"name", models.GeneralTypeAlpha},
		{"integer", models.GeneralTypeNumeric},
		{"bigint", models.GeneralTypeNumeric},
		{"smallserial", models.GeneralTypeNumeric},
		{"double precision", models.GeneralTypeNumeric},
		{"numeric", models.GeneralTypeNumeric},
		{"NUMBER", models.GeneralTypeNumeric},
		{"money", models.GeneralTypeNumeric},
		{"real", models.GeneralTypeNumeric},
		// Unknown types fall back to alpha so they still get profiled.
		{"geography", models.GeneralTypeAlpha},
		{"", models.GeneralTypeAlpha},
	}

	for _, tc := range tests {
		t.Run(tc.columnType, func(t *testing.T) {
			assert.Equal(t, tc.expected, classifyGeneralType(tc.columnType, 0))
		})
	}
}

func TestClassifyGeneralType_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, models.GeneralTypeDate, classifyGeneralType("  TIMESTAMP  ", 0))
	assert.Equal(t, models.GeneralTypeAlpha, classifyGeneralType("VARCHAR", 0))
}

func int64p(v int64) *int64       { return &v }
func float64p(v float64) *float64 { return &v }
func stringp(v string) *string    { return &v }

func TestSuggestDatatype_AllNumericText(t *testing.T) {
	pr := &models.ProfileResult{
		ColumnType:      "varchar",
		GeneralType:     models.GeneralTypeAlpha,
		ValueCt:         100,
		NumericCt:       int64p(100),
		IncludesDigitCt: int64p(100),
		MaxLength:       int64p(9),
	}
	assert.Equal(t, "BIGINT", suggestDatatype(pr))

	pr.MaxLength = int64p(25)
	assert.Equal(t, "DECIMAL(18,4)", suggestDatatype(pr))
}

func TestSuggestDatatype_AllDateText(t *testing.T) {
	pr := &models.ProfileResult{
		ColumnType:  "varchar",
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     40,
		NumericCt:   int64p(0),
		DateCt:      int64p(40),
		MaxLength:   int64p(10),
	}
	assert.Equal(t, "DATE", suggestDatatype(pr))
}

func TestSuggestDatatype_TextGetsBoundedVarchar(t *testing.T) {
	pr := &models.ProfileResult{
		ColumnType:  "text",
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     40,
		NumericCt:   int64p(0),
		DateCt:      int64p(0),
		MaxLength:   int64p(37),
	}
	assert.Equal(t, "VARCHAR(50)", suggestDatatype(pr))
}

func TestSuggestDatatype_NonAlphaKeepsDeclaredType(t *testing.T) {
	pr := &models.ProfileResult{
		ColumnType:  "integer",
		GeneralType: models.GeneralTypeNumeric,
		ValueCt:     40,
	}
	assert.Equal(t, "integer", suggestDatatype(pr))
}

func TestSuggestDatatype_EmptyColumnKeepsDeclaredType(t *testing.T) {
	pr := &models.ProfileResult{
		ColumnType:  "varchar",
		GeneralType: models.GeneralTypeAlpha,
		ValueCt:     0,
	}
	assert.Equal(t, "varchar", suggestDatatype(pr))
}

func TestSuggestedVarcharLength(t *testing.T) {
	assert.Equal(t, int64(10), suggestedVarcharLength(1))
	assert.Equal(t, int64(10), suggestedVarcharLength(10))
	assert.Equal(t, int64(20), suggestedVarcharLength(11))
	assert.Equal(t, int64(100), suggestedVarcharLength(73))
	assert.Equal(t, int64(4000), suggestedVarcharLength(2500))
	assert.Equal(t, int64(9001), suggestedVarcharLength(9001))
}
