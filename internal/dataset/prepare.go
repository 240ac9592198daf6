package dataset

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rewired-gh/churnlens/internal/models"
)

var (
	// ErrAllMissing is returned when no total-charges value is available to impute from
	ErrAllMissing = errors.New("every value is missing, median is undefined")
	// ErrInvalidLabel is returned when a churn cell is neither label literal
	ErrInvalidLabel = errors.New("invalid churn label")
)

// Labels names the two churn literals of the dataset
type Labels struct {
	Positive string
	Negative string
}

// DefaultLabels match the IBM Telco dataset
var DefaultLabels = Labels{Positive: "Yes", Negative: "No"}

// Preparation reports what Prepare changed
type Preparation struct {
	Imputed int     // rows whose total charges were filled
	Median  float64 // value used for filling
	Churned int     // rows labelled positive
}

// Prepare imputes missing total charges with the median of the valid entries and
// derives the churn flag. It mutates customers in place and is idempotent: a second
// call finds nothing to impute and derives the same labels.
func Prepare(customers []models.Customer, labels Labels) (Preparation, error) {
	var prep Preparation

	valid := make([]float64, 0, len(customers))
	for i := range customers {
		if customers[i].HasTotalCharges {
			valid = append(valid, customers[i].TotalCharges)
		}
	}
	if len(valid) == 0 {
		return prep, fmt.Errorf("%s: %w", models.ColumnTotalCharges, ErrAllMissing)
	}
	prep.Median = Median(valid)

	for i := range customers {
		c := &customers[i]
		if !c.HasTotalCharges {
			c.TotalCharges = prep.Median
			c.HasTotalCharges = true
			prep.Imputed++
		}

		switch c.Churn {
		case labels.Positive:
			c.Churned = true
			prep.Churned++
		case labels.Negative:
			c.Churned = false
		default:
			return prep, fmt.Errorf("%w: customer %s has %q, expected %q or %q",
				ErrInvalidLabel, c.ID, c.Churn, labels.Positive, labels.Negative)
		}

		if err := c.Validate(); err != nil {
			return prep, fmt.Errorf("invalid customer %s: %w", c.ID, err)
		}
	}

	return prep, nil
}

// Median returns the middle value of values, averaging the two middle values for an
// even count. The input is not modified. Median of an empty slice is 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
