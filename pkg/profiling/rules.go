package profiling

import (
	"regexp"
	"strings"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

// The functional-type rules engine maps column names plus profile evidence
// to a semantic type. Rules are evaluated in order; the first match wins.

type functionalRule struct {
	// namePattern matches the lower-cased column name.
	namePattern *regexp.Regexp
	// generalTypes restricts the rule to these branches; empty means any.
	generalTypes []models.GeneralType
	// evidence, when set, must also hold on the profile row.
	evidence func(pr *models.ProfileResult) bool
	// result is the functional data type assigned.
	result string
	// piiRisk is set for types that identify a person.
	piiRisk string
}

const (
	piiRiskHigh     = "HIGH"
	piiRiskModerate = "MODERATE"
)

var functionalRules = []functionalRule{
	{
		namePattern:  regexp.MustCompile(`(^|_)(ssn|social_security)`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha, models.GeneralTypeNumeric},
		result:       "SSN",
		piiRisk:      piiRiskHigh,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)e?mail`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha},
		result:       "Email",
		piiRisk:      piiRiskHigh,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(phone|mobile|fax)`),
		result:       "Phone",
		piiRisk:      piiRiskHigh,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(dob|birth)`),
		result:       "Birthdate",
		piiRisk:      piiRiskHigh,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(first|last|middle|full|sur|given)_?name$`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha},
		result:       "Person Name",
		piiRisk:      piiRiskModerate,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(addr|address|street)`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha},
		result:       "Address",
		piiRisk:      piiRiskModerate,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(zip|postal)`),
		result:       "Zip",
		piiRisk:      piiRiskModerate,
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)city$`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha},
		result:       "City",
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(state|province)(_code)?$`),
		generalTypes: []models.GeneralType{models.GeneralTypeAlpha},
		evidence: func(pr *models.ProfileResult) bool {
			return pr.MaxLength != nil && *pr.MaxLength <= 3
		},
		result: "State",
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(id|key|num|no)$`),
		evidence: func(pr *models.ProfileResult) bool {
			return pr.ValueCt > 0 && pr.DistinctValueCt == pr.ValueCt
		},
		result: "ID",
	},
	{
		namePattern: regexp.MustCompile(`(^|_)(id|key|code)$`),
		result:      "Code",
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(amt|amount|price|cost|total|balance|salary|revenue)`),
		generalTypes: []models.GeneralType{models.GeneralTypeNumeric},
		result:       "Money",
	},
	{
		namePattern:  regexp.MustCompile(`(^|_)(pct|percent|ratio|rate)`),
		generalTypes: []models.GeneralType{models.GeneralTypeNumeric},
		result:       "Percentage",
	},
}

// classifyFunctionalType assigns the column's semantic type and PII risk.
// idMask and skMask are the table group's SQL LIKE masks for surrogate and
// natural key columns; they take precedence over the rule table.
func classifyFunctionalType(pr *models.ProfileResult, idMask, skMask string) (functionalType, piiRisk string) {
	name := strings.ToLower(pr.ColumnName)

	if skMask != "" && maskMatches(skMask, name) {
		return "Surrogate Key", ""
	}
	if idMask != "" && maskMatches(idMask, name) {
		return "ID", ""
	}

	for _, rule := range functionalRules {
		if !rule.namePattern.MatchString(name) {
			continue
		}
		if len(rule.generalTypes) > 0 && !containsGeneralType(rule.generalTypes, pr.GeneralType) {
			continue
		}
		if rule.evidence != nil && !rule.evidence(pr) {
			continue
		}
		return rule.result, rule.piiRisk
	}

	return fallbackFunctionalType(pr), ""
}

func containsGeneralType(set []models.GeneralType, gt models.GeneralType) bool {
	for _, g := range set {
		if g == gt {
			return true
		}
	}
	return false
}

// fallbackFunctionalType derives a type from profile stats alone.
func fallbackFunctionalType(pr *models.ProfileResult) string {
	switch pr.GeneralType {
	case models.GeneralTypeBoolean:
		return "Boolean"
	case models.GeneralTypeDate:
		return "Transactional Date"
	case models.GeneralTypeTime:
		return "Time of Day"
	case models.GeneralTypeNumeric:
		if pr.FractionalSum != nil && *pr.FractionalSum == 0 {
			if pr.ValueCt > 0 && pr.DistinctValueCt == pr.ValueCt {
				return "ID"
			}
			return "Integer"
		}
		return "Measurement"
	default:
		if pr.ValueCt > 0 && pr.DistinctValueCt <= 20 && pr.DistinctValueCt < pr.ValueCt/2 {
			return "Category"
		}
		return "Text"
	}
}

// maskMatches evaluates a SQL LIKE mask (% and _ wildcards) against a name.
func maskMatches(mask, name string) bool {
	re, err := maskToRegex(mask)
	if err != nil {
		return false
	}
	return re.MatchString(name)
}

func maskToRegex(mask string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("(?i)^")
	for _, r := range mask {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// classifyTableType assigns the table-level classification from its
// columns' profiles.
func classifyTableType(cols []*models.ProfileResult) string {
	if len(cols) == 0 {
		return ""
	}

	var recordCt int64
	dateCols := 0
	uniqueIDCols := 0
	categoryish := 0
	for _, pr := range cols {
		if pr.RecordCt > recordCt {
			recordCt = pr.RecordCt
		}
		switch pr.GeneralType {
		case models.GeneralTypeDate:
			dateCols++
		case models.GeneralTypeAlpha:
			if pr.DistinctValueCt > 0 && pr.DistinctValueCt <= 20 {
				categoryish++
			}
		}
		if pr.ValueCt > 0 && pr.DistinctValueCt == pr.ValueCt {
			uniqueIDCols++
		}
	}

	switch {
	case recordCt < 500 && len(cols) <= 3 && categoryish > 0:
		return "Code"
	case dateCols > 0 && recordCt >= 10000:
		return "Transactional"
	case uniqueIDCols > 0:
		return "Entity"
	default:
		return "Summary"
	}
}

// cdeFunctionalTypes is the default critical-data-element set: anything
// identifying a person plus primary identifiers.
var cdeFunctionalTypes = []string{
	"SSN", "Email", "Phone", "Birthdate", "Person Name", "Address", "ID",
}

// stdPatterns maps well-known value shapes (in the a/A/N pattern language
// the profiling queries emit) to a named standard pattern.
var stdPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"EMAIL", regexp.MustCompile(`^[aAN._%+-]+@[aAN.-]+\.[aA]{2,}$`)},
	{"SSN_USA", regexp.MustCompile(`^NNN-NN-NNNN$`)},
	{"PHONE_USA", regexp.MustCompile(`^(\(NNN\) |NNN[-. ])NNN[-. ]NNNN$|^NNNNNNNNNN$`)},
	{"ZIP_USA", regexp.MustCompile(`^NNNNN(-NNNN)?$`)},
	{"DATE_ISO", regexp.MustCompile(`^NNNN-NN-NN$`)},
	{"STATE_USA", regexp.MustCompile(`^AA$`)},
}

// matchStdPattern returns the standard pattern name the top pattern
// conforms to, or "".
func matchStdPattern(topPattern string) string {
	p := strings.TrimSpace(topPattern)
	for _, sp := range stdPatterns {
		if sp.re.MatchString(p) {
			return sp.name
		}
	}
	return ""
}
