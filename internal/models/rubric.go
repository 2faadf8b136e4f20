package models

import (
	"fmt"
	"math"
)

// WeightTolerance is the allowed deviation of the active rubric weight sum
// from 1.0.
const WeightTolerance = 1e-6

type RubricItem struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight"`
	ScaleAnchor string  `json:"scale_anchor"`
}

// FatalJobError aborts a job before any worker starts.
type FatalJobError struct {
	Reason string
}

func (e *FatalJobError) Error() string {
	return fmt.Sprintf("fatal job error: %s", e.Reason)
}

// ValidateRubric checks the active rubric set: non-empty, unique keys,
// weights in (0,1], and weight sum equal to 1.0 within WeightTolerance.
func ValidateRubric(items []RubricItem) error {
	if len(items) == 0 {
		return &FatalJobError{Reason: "rubric set is empty"}
	}

	seen := make(map[string]bool, len(items))
	sum := 0.0
	for _, item := range items {
		if item.Key == "" {
			return &FatalJobError{Reason: "rubric item with empty key"}
		}
		if seen[item.Key] {
			return &FatalJobError{Reason: fmt.Sprintf("duplicate rubric key: %s", item.Key)}
		}
		seen[item.Key] = true

		if item.Weight <= 0 || item.Weight > 1 {
			return &FatalJobError{Reason: fmt.Sprintf("rubric weight out of range for %s: %v", item.Key, item.Weight)}
		}
		sum += item.Weight
	}

	if math.Abs(sum-1.0) >= WeightTolerance {
		return &FatalJobError{Reason: fmt.Sprintf("rubric weights sum to %v, expected 1.0", sum)}
	}

	return nil
}
