package models

import (
	"github.com/google/uuid"
)

// IssueLikelihood grades how strongly an anomaly indicates a real problem.
type IssueLikelihood string

const (
	LikelihoodDefinite     IssueLikelihood = "Definite"
	LikelihoodLikely       IssueLikelihood = "Likely"
	LikelihoodPossible     IssueLikelihood = "Possible"
	LikelihoodPotentialPII IssueLikelihood = "Potential PII"
)

// Disposition is the user verdict applied to a detected anomaly.
// An empty value means no verdict yet; scoring treats NULL and Confirmed
// as active.
type Disposition string

const (
	DispositionNone      Disposition = ""
	DispositionConfirmed Disposition = "Confirmed"
	DispositionDismissed Disposition = "Dismissed"
	DispositionInactive  Disposition = "Inactive"
)

// ActiveForScoring reports whether an anomaly with this disposition
// participates in score rollups.
func (d Disposition) ActiveForScoring() bool {
	return d == DispositionNone || d == DispositionConfirmed
}

// ProfileAnomalyType is one entry in the static hygiene-test catalog.
type ProfileAnomalyType struct {
	ID              string          `json:"id"`
	AnomalyName     string          `json:"anomaly_name"`
	DataObject      string          `json:"data_object"` // "Column" | "Multi-Col" | "Dates" | "Variant"
	AnomalyDescription string       `json:"anomaly_description"`
	IssueLikelihood IssueLikelihood `json:"issue_likelihood"`
	SuggestedAction string          `json:"suggested_action"`
	// AnomalyCriteria is a SQL boolean expression over profile_results rows
	// selecting the columns this test flags.
	AnomalyCriteria string `json:"anomaly_criteria"`
	// DetailExpression is a SQL expression rendering the free-text detail.
	// Downstream report code parses certain prefixes; the format is part of
	// the interface.
	DetailExpression string `json:"detail_expression"`
	// DQScorePrevalenceFormula, when present, computes the affected-record
	// fraction used by scoring. Types without one do not affect scores.
	DQScorePrevalenceFormula string `json:"dq_score_prevalence_formula"`
	DQScoreRiskFactor        string `json:"dq_score_risk_factor"`
	DQDimension              string `json:"dq_dimension"`
}

// ProfileAnomalyResult is one detection: (run, schema, table, column, type).
type ProfileAnomalyResult struct {
	ID            uuid.UUID   `json:"id"`
	ProfileRunID  uuid.UUID   `json:"profile_run_id"`
	TableGroupID  uuid.UUID   `json:"table_groups_id"`
	AnomalyID     string      `json:"anomaly_id"`
	SchemaName    string      `json:"schema_name"`
	TableName     string      `json:"table_name"`
	ColumnName    string      `json:"column_name"`
	ColumnType    string      `json:"column_type"`
	Detail        string      `json:"detail"`
	Disposition   Disposition `json:"disposition"`
	// DQPrevalence is the affected-record fraction computed from the
	// anomaly type's prevalence formula, when it declares one.
	DQPrevalence *float64 `json:"dq_prevalence"`
}
