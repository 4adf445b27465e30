package profiling

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DataKitchen/dataops-testgen-sub000/pkg/models"
)

func TestLoadAnomalyCatalog(t *testing.T) {
	types, err := LoadAnomalyCatalog()
	require.NoError(t, err)
	require.Len(t, types, 12)

	byID := make(map[string]*models.ProfileAnomalyType, len(types))
	for _, at := range types {
		byID[at.ID] = at
	}

	for _, at := range types {
		assert.NotEmpty(t, at.AnomalyName, "type %s needs a name", at.ID)
		assert.NotEmpty(t, at.AnomalyCriteria, "type %s needs criteria", at.ID)
		assert.NotEmpty(t, at.DetailExpression, "type %s needs a detail expression", at.ID)
		assert.NotEmpty(t, at.IssueLikelihood, "type %s needs a likelihood", at.ID)
	}

	pii, ok := byID["1011"]
	require.True(t, ok, "catalog must include the PII detection")
	assert.Equal(t, "Potential_PII", pii.AnomalyName)
	assert.Equal(t, models.LikelihoodPotentialPII, pii.IssueLikelihood)
	assert.True(t, strings.Contains(pii.DetailExpression, "Risk: "),
		"PII detail must carry the risk prefix")

	noValues, ok := byID["1007"]
	require.True(t, ok)
	assert.Equal(t, "No_Values", noValues.AnomalyName)
	assert.Equal(t, "1.0", strings.TrimSpace(noValues.DQScorePrevalenceFormula))
}

func TestLoadAnomalyCatalog_CriteriaReferenceProfileAlias(t *testing.T) {
	types, err := LoadAnomalyCatalog()
	require.NoError(t, err)

	// Criteria and details are evaluated against profile_results aliased p.
	for _, at := range types {
		assert.Contains(t, at.AnomalyCriteria, "p.",
			"type %s criteria must reference the profile row", at.ID)
	}
}
