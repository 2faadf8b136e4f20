package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRubric() []RubricItem {
	return []RubricItem{
		{Key: "impact", Name: "Impact", Weight: 0.30},
		{Key: "feasibility", Name: "Feasibility", Weight: 0.25},
		{Key: "innovation", Name: "Innovation", Weight: 0.25},
		{Key: "responsible_ai", Name: "Responsible AI", Weight: 0.20},
	}
}

func TestValidateRubric(t *testing.T) {
	t.Run("valid rubric passes", func(t *testing.T) {
		require.NoError(t, ValidateRubric(defaultRubric()))
	})

	t.Run("empty rubric is fatal", func(t *testing.T) {
		err := ValidateRubric(nil)
		require.Error(t, err)
		assert.IsType(t, &FatalJobError{}, err)
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		rubric := defaultRubric()
		rubric[0].Weight = 0.50
		err := ValidateRubric(rubric)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum")
	})

	t.Run("tolerance admits float noise", func(t *testing.T) {
		rubric := []RubricItem{
			{Key: "a", Weight: 0.1},
			{Key: "b", Weight: 0.2},
			{Key: "c", Weight: 0.3},
			{Key: "d", Weight: 0.4},
		}
		require.NoError(t, ValidateRubric(rubric))
	})

	t.Run("duplicate keys rejected", func(t *testing.T) {
		rubric := defaultRubric()
		rubric[1].Key = "impact"
		require.Error(t, ValidateRubric(rubric))
	})

	t.Run("zero weight rejected", func(t *testing.T) {
		rubric := []RubricItem{
			{Key: "a", Weight: 0},
			{Key: "b", Weight: 1.0},
		}
		require.Error(t, ValidateRubric(rubric))
	})
}
