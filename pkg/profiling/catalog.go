package profiling

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

//go:embed anomaly_types.yaml
var anomalyTypesYAML []byte

type catalogFile struct {
	AnomalyTypes []catalogEntry `yaml:"anomaly_types"`
}

type catalogEntry struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	DataObject        string `yaml:"data_object"`
	Description       string `yaml:"description"`
	Likelihood        string `yaml:"likelihood"`
	SuggestedAction   string `yaml:"suggested_action"`
	Criteria          string `yaml:"criteria"`
	Detail            string `yaml:"detail"`
	PrevalenceFormula string `yaml:"prevalence_formula"`
	RiskFactor        string `yaml:"risk_factor"`
	Dimension         string `yaml:"dimension"`
}

// LoadAnomalyCatalog decodes the compiled-in hygiene-test catalog. The
// migrate command seeds it into profile_anomaly_types; detection reads the
// seeded table so catalog edits made there take effect without a rebuild.
func LoadAnomalyCatalog() ([]*models.ProfileAnomalyType, error) {
	var file catalogFile
	if err := yaml.Unmarshal(anomalyTypesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse anomaly catalog: %w", err)
	}
	if len(file.AnomalyTypes) == 0 {
		return nil, fmt.Errorf("anomaly catalog is empty")
	}

	types := make([]*models.ProfileAnomalyType, 0, len(file.AnomalyTypes))
	for _, e := range file.AnomalyTypes {
		if e.ID == "" || e.Name == "" || e.Criteria == "" || e.Detail == "" {
			return nil, fmt.Errorf("anomaly catalog entry %q is incomplete", e.ID)
		}
		types = append(types, &models.ProfileAnomalyType{
			ID:                       e.ID,
			AnomalyName:              e.Name,
			DataObject:               e.DataObject,
			AnomalyDescription:       e.Description,
			IssueLikelihood:          models.IssueLikelihood(e.Likelihood),
			SuggestedAction:          e.SuggestedAction,
			AnomalyCriteria:          e.Criteria,
			DetailExpression:         e.Detail,
			DQScorePrevalenceFormula: e.PrevalenceFormula,
			DQScoreRiskFactor:        e.RiskFactor,
			DQDimension:              e.Dimension,
		})
	}
	return types, nil
}
