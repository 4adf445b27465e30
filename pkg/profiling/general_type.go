package profiling

import (
	"fmt"
	"strings"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// classifyGeneralType maps a target DB data_type to the profiling branch.
// numericScale distinguishes exact integers from decimals on flavors that
// report both as "numeric".
func classifyGeneralType(columnType string, numericScale int) models.GeneralType {
	t := strings.ToLower(strings.TrimSpace(columnType))

	switch {
	case strings.Contains(t, "bool"), t == "bit":
		return models.GeneralTypeBoolean
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"),
		t == "date", strings.HasPrefix(t, "date("):
		return models.GeneralTypeDate
	case strings.HasPrefix(t, "time"):
		// Time-of-day without a date part.
		return models.GeneralTypeTime
	case strings.Contains(t, "char"), strings.Contains(t, "text"),
		strings.Contains(t, "string"), strings.Contains(t, "enum"),
		strings.Contains(t, "uuid"), strings.Contains(t, "name"):
		return models.GeneralTypeAlpha
	case strings.Contains(t, "int"), strings.Contains(t, "serial"),
		strings.Contains(t, "float"), strings.Contains(t, "double"),
		strings.Contains(t, "real"), strings.Contains(t, "decimal"),
		strings.Contains(t, "numeric"), strings.Contains(t, "number"),
		strings.Contains(t, "money"):
		_ = numericScale
		return models.GeneralTypeNumeric
	default:
		// Unrecognised types are profiled as text.
		return models.GeneralTypeAlpha
	}
}

// suggestDatatype proposes a tighter storage type from profile evidence.
// Only alpha columns get suggestions; everything else keeps its declared
// type.
func suggestDatatype(pr *models.ProfileResult) string {
	if pr.GeneralType != models.GeneralTypeAlpha || pr.ValueCt == 0 {
		return pr.ColumnType
	}

	numericCt := int64(0)
	if pr.NumericCt != nil {
		numericCt = *pr.NumericCt
	}
	dateCt := int64(0)
	if pr.DateCt != nil {
		dateCt = *pr.DateCt
	}

	switch {
	case numericCt == pr.ValueCt:
		if pr.IncludesDigitCt != nil && pr.MaxLength != nil && *pr.MaxLength <= 18 {
			return "BIGINT"
		}
		return "DECIMAL(18,4)"
	case dateCt == pr.ValueCt:
		return "DATE"
	case pr.MaxLength != nil && *pr.MaxLength > 0:
		declared := strings.ToLower(pr.ColumnType)
		if strings.Contains(declared, "text") || strings.Contains(declared, "clob") {
			return fmt.Sprintf("VARCHAR(%d)", suggestedVarcharLength(*pr.MaxLength))
		}
		return pr.ColumnType
	default:
		return pr.ColumnType
	}
}

// suggestedVarcharLength rounds max observed length up to a conventional
// column size so suggestions survive modest growth.
func suggestedVarcharLength(maxLen int64) int64 {
	for _, size := range []int64{10, 20, 50, 100, 200, 500, 1000, 4000} {
		if maxLen <= size {
			return size
		}
	}
	return maxLen
}
