package models

import (
	"errors"
)

// CategoryRate is the churn rate of the customers sharing one categorical value
type CategoryRate struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Churned int     `json:"churned"`
	Rate    float64 `json:"rate"` // Churned / Count
}

// Validate checks that the rate is consistent with its counts
func (r *CategoryRate) Validate() error {
	if r.Count <= 0 {
		return errors.New("category count must be positive")
	}
	if r.Churned < 0 || r.Churned > r.Count {
		return errors.New("churned must be between 0 and count")
	}
	if r.Rate < 0.0 || r.Rate > 1.0 {
		return errors.New("rate must be between 0.0 and 1.0")
	}
	return nil
}

// GroupMean is the mean of a numeric attribute over one group of customers
type GroupMean struct {
	Label string  `json:"label"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}
