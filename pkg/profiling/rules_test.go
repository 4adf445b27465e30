package profiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func alphaResult(name string) *models.ProfileResult {
	return &models.ProfileResult{
		ColumnName:      name,
		GeneralType:     models.GeneralTypeAlpha,
		RecordCt:        1000,
		ValueCt:         1000,
		DistinctValueCt: 900,
		MaxLength:       int64p(30),
	}
}

func TestClassifyFunctionalType_PIITypes(t *testing.T) {
	tests := []struct {
		column   string
		expected string
		risk     string
	}{
		{"ssn", "SSN", "HIGH"},
		{"customer_ssn", "SSN", "HIGH"},
		{"email", "Email", "HIGH"},
		{"contact_email", "Email", "HIGH"},
		{"phone", "Phone", "HIGH"},
		{"mobile_number", "Phone", "HIGH"},
		{"date_of_birth_year", "Birthdate", "HIGH"},
		{"dob", "Birthdate", "HIGH"},
		{"first_name", "Person Name", "MODERATE"},
		{"surname", "Person Name", "MODERATE"},
		{"street_address", "Address", "MODERATE"},
		{"zip_code", "Zip", "MODERATE"},
	}

	for _, tc := range tests {
		t.Run(tc.column, func(t *testing.T) {
			funcType, risk := classifyFunctionalType(alphaResult(tc.column), "", "")
			assert.Equal(t, tc.expected, funcType)
			assert.Equal(t, tc.risk, risk)
		})
	}
}

func TestClassifyFunctionalType_StateNeedsShortValues(t *testing.T) {
	pr := alphaResult("state")
	pr.MaxLength = int64p(2)
	funcType, risk := classifyFunctionalType(pr, "", "")
	assert.Equal(t, "State", funcType)
	assert.Empty(t, risk)

	// Long values mean it is not a state code column.
	pr.MaxLength = int64p(30)
	funcType, _ = classifyFunctionalType(pr, "", "")
	assert.NotEqual(t, "State", funcType)
}

func TestClassifyFunctionalType_IDNeedsUniqueEvidence(t *testing.T) {
	pr := alphaResult("customer_id")
	pr.DistinctValueCt = pr.ValueCt
	funcType, _ := classifyFunctionalType(pr, "", "")
	assert.Equal(t, "ID", funcType)

	// Non-unique id-suffixed columns degrade to Code.
	pr.DistinctValueCt = 10
	funcType, _ = classifyFunctionalType(pr, "", "")
	assert.Equal(t, "Code", funcType)
}

func TestClassifyFunctionalType_MasksTakePrecedence(t *testing.T) {
	pr := alphaResult("customer_sk")
	funcType, risk := classifyFunctionalType(pr, "%id", "%_sk")
	assert.Equal(t, "Surrogate Key", funcType)
	assert.Empty(t, risk)

	pr = alphaResult("orderid")
	funcType, _ = classifyFunctionalType(pr, "%id", "%_sk")
	assert.Equal(t, "ID", funcType)
}

func TestClassifyFunctionalType_MoneyAndPercent(t *testing.T) {
	pr := alphaResult("total_amount")
	pr.GeneralType = models.GeneralTypeNumeric
	funcType, _ := classifyFunctionalType(pr, "", "")
	assert.Equal(t, "Money", funcType)

	pr = alphaResult("discount_pct")
	pr.GeneralType = models.GeneralTypeNumeric
	funcType, _ = classifyFunctionalType(pr, "", "")
	assert.Equal(t, "Percentage", funcType)

	// Money names on alpha columns do not match the numeric-only rule.
	funcType, _ = classifyFunctionalType(alphaResult("total_amount"), "", "")
	assert.NotEqual(t, "Money", funcType)
}

func TestFallbackFunctionalType(t *testing.T) {
	boolCol := &models.ProfileResult{GeneralType: models.GeneralTypeBoolean}
	assert.Equal(t, "Boolean", fallbackFunctionalType(boolCol))

	dateCol := &models.ProfileResult{GeneralType: models.GeneralTypeDate}
	assert.Equal(t, "Transactional Date", fallbackFunctionalType(dateCol))

	timeCol := &models.ProfileResult{GeneralType: models.GeneralTypeTime}
	assert.Equal(t, "Time of Day", fallbackFunctionalType(timeCol))

	intCol := &models.ProfileResult{
		GeneralType:     models.GeneralTypeNumeric,
		ValueCt:         100,
		DistinctValueCt: 40,
		FractionalSum:   float64p(0),
	}
	assert.Equal(t, "Integer", fallbackFunctionalType(intCol))

	uniqueInt := &models.ProfileResult{
		GeneralType:     models.GeneralTypeNumeric,
		ValueCt:         100,
		DistinctValueCt: 100,
		FractionalSum:   float64p(0),
	}
	assert.Equal(t, "ID", fallbackFunctionalType(uniqueInt))

	measure := &models.ProfileResult{
		GeneralType:   models.GeneralTypeNumeric,
		ValueCt:       100,
		FractionalSum: float64p(12.5),
	}
	assert.Equal(t, "Measurement", fallbackFunctionalType(measure))

	category := &models.ProfileResult{
		GeneralType:     models.GeneralTypeAlpha,
		ValueCt:         1000,
		DistinctValueCt: 5,
	}
	assert.Equal(t, "Category", fallbackFunctionalType(category))

	text := &models.ProfileResult{
		GeneralType:     models.GeneralTypeAlpha,
		ValueCt:         1000,
		DistinctValueCt: 900,
	}
	assert.Equal(t, "Text", fallbackFunctionalType(text))
}

func TestMaskToRegex(t *testing.T) {
	re, err := maskToRegex("%_sk")
	require.NoError(t, err)
	assert.True(t, re.MatchString("customer_sk"))
	assert.True(t, re.MatchString("CUSTOMER_SK"), "masks are case-insensitive")
	assert.False(t, re.MatchString("sk_customer"))

	re, err = maskToRegex("ord_r%")
	require.NoError(t, err)
	assert.True(t, re.MatchString("order_total"), "underscore matches any one char")
	assert.False(t, re.MatchString("ordr_total"))

	// Regex metacharacters in the mask are literals.
	re, err = maskToRegex("a.b%")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a.b_col"))
	assert.False(t, re.MatchString("axb_col"))
}

func TestClassifyTableType(t *testing.T) {
	t.Run("code table", func(t *testing.T) {
		cols := []*models.ProfileResult{
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 50, ValueCt: 50, DistinctValueCt: 50},
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 50, ValueCt: 50, DistinctValueCt: 8},
		}
		assert.Equal(t, "Code", classifyTableType(cols))
	})

	t.Run("transactional table", func(t *testing.T) {
		cols := []*models.ProfileResult{
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 50000, ValueCt: 50000, DistinctValueCt: 30000},
			{GeneralType: models.GeneralTypeDate, RecordCt: 50000, ValueCt: 50000, DistinctValueCt: 900},
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 50000, ValueCt: 49000, DistinctValueCt: 200},
		}
		assert.Equal(t, "Transactional", classifyTableType(cols))
	})

	t.Run("entity table", func(t *testing.T) {
		cols := []*models.ProfileResult{
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 2000},
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 1800, MaxLength: int64p(40)},
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 2000, ValueCt: 1900, DistinctValueCt: 300, MaxLength: int64p(40)},
			{GeneralType: models.GeneralTypeAlpha, RecordCt: 2000, ValueCt: 1900, DistinctValueCt: 300, MaxLength: int64p(40)},
		}
		assert.Equal(t, "Entity", classifyTableType(cols))
	})

	t.Run("summary fallback", func(t *testing.T) {
		cols := []*models.ProfileResult{
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 100},
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 500},
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 500},
			{GeneralType: models.GeneralTypeNumeric, RecordCt: 2000, ValueCt: 2000, DistinctValueCt: 500},
		}
		assert.Equal(t, "Summary", classifyTableType(cols))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", classifyTableType(nil))
	})
}

func TestMatchStdPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		expected string
	}{
		{"NNN-NN-NNNN", "SSN_USA"},
		{"NNNNN", "ZIP_USA"},
		{"NNNNN-NNNN", "ZIP_USA"},
		{"NNNN-NN-NN", "DATE_ISO"},
		{"AA", "STATE_USA"},
		{"(NNN) NNN-NNNN", "PHONE_USA"},
		{"NNN-NNN-NNNN", "PHONE_USA"},
		{"NNNNNNNNNN", "PHONE_USA"},
		{"aaaa@aaaa.aaa", "EMAIL"},
		{"aaaa.aaa@aaaa.aa", "EMAIL"},
		{"AAAA", ""},
		{"aaaaaa", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.pattern, func(t *testing.T) {
			assert.Equal(t, tc.expected, matchStdPattern(tc.pattern))
		})
	}
}

func TestCDEFunctionalTypes_CoverPersonIdentifiers(t *testing.T) {
	assert.Contains(t, cdeFunctionalTypes, "SSN")
	assert.Contains(t, cdeFunctionalTypes, "Email")
	assert.Contains(t, cdeFunctionalTypes, "ID")
	assert.NotContains(t, cdeFunctionalTypes, "Category")
}
