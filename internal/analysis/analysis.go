// Package analysis computes descriptive churn statistics over prepared customers:
// the overall churn split, churn rate per categorical value, and mean charges per
// churn status. All functions are read-only reductions over the record set.
package analysis

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/rewired-gh/churnlens/internal/models"
)

// Overview holds the headline numbers of the dataset
type Overview struct {
	Total          int
	Churned        int
	Retained       int
	ChurnRate      float64
	AvgTenure      float64
	AvgMonthlyBill float64
}

// Summary is everything the text report and the dashboard need from aggregation
type Summary struct {
	Overview       Overview
	ByContract     []models.CategoryRate
	ByInternet     []models.CategoryRate
	ChargesByChurn []models.GroupMean // retained first, then churned
}

// Summarize runs every aggregation used by the report
func Summarize(customers []models.Customer) (Summary, error) {
	var s Summary
	var err error

	s.Overview = Describe(customers)

	s.ByContract, err = ChurnRateBy(customers, models.ColumnContract)
	if err != nil {
		return s, err
	}
	s.ByInternet, err = ChurnRateBy(customers, models.ColumnInternetService)
	if err != nil {
		return s, err
	}
	s.ChargesByChurn, err = MeanByChurn(customers, models.ColumnMonthlyCharges)
	if err != nil {
		return s, err
	}
	return s, nil
}

// Describe computes the overview block
func Describe(customers []models.Customer) Overview {
	o := Overview{Total: len(customers)}
	if o.Total == 0 {
		return o
	}

	o.Churned = lo.CountBy(customers, func(c models.Customer) bool { return c.Churned })
	o.Retained = o.Total - o.Churned
	o.ChurnRate = float64(o.Churned) / float64(o.Total)
	o.AvgTenure = stat.Mean(lo.Map(customers, func(c models.Customer, _ int) float64 {
		return float64(c.Tenure)
	}), nil)
	o.AvgMonthlyBill = stat.Mean(lo.Map(customers, func(c models.Customer, _ int) float64 {
		return c.MonthlyCharges
	}), nil)
	return o
}

// ChurnRateBy groups customers by a categorical column and returns the mean of the
// churn flag per value, highest rate first (ties broken by value).
func ChurnRateBy(customers []models.Customer, column string) ([]models.CategoryRate, error) {
	groups := make(map[string]*models.CategoryRate)
	for i := range customers {
		value, err := customers[i].Category(column)
		if err != nil {
			return nil, fmt.Errorf("failed to group by %s: %w", column, err)
		}
		g, ok := groups[value]
		if !ok {
			g = &models.CategoryRate{Value: value}
			groups[value] = g
		}
		g.Count++
		if customers[i].Churned {
			g.Churned++
		}
	}

	rates := make([]models.CategoryRate, 0, len(groups))
	for _, g := range groups {
		g.Rate = float64(g.Churned) / float64(g.Count)
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("invalid churn rate for %s=%q: %w", column, g.Value, err)
		}
		rates = append(rates, *g)
	}

	SortRates(rates)
	return rates, nil
}

// SortRates orders rates by rate descending, then by value ascending
func SortRates(rates []models.CategoryRate) {
	sort.Slice(rates, func(i, j int) bool {
		if rates[i].Rate != rates[j].Rate {
			return rates[i].Rate > rates[j].Rate
		}
		return rates[i].Value < rates[j].Value
	})
}

// MeanByChurn returns the mean of a numeric column for retained and churned customers,
// in that order. An empty group reports a zero mean and zero count.
func MeanByChurn(customers []models.Customer, column string) ([]models.GroupMean, error) {
	if !models.IsNumeric(column) {
		return nil, fmt.Errorf("failed to average %s: %w", column, models.ErrUnknownColumn)
	}

	means := make([]models.GroupMean, 0, 2)
	for _, g := range []struct {
		label   string
		churned bool
	}{{"Retained", false}, {"Churned", true}} {
		values, err := Values(customers, column, g.churned)
		if err != nil {
			return nil, fmt.Errorf("failed to average %s: %w", column, err)
		}

		m := models.GroupMean{Label: g.label, Count: len(values)}
		if len(values) > 0 {
			m.Mean = stat.Mean(values, nil)
		}
		means = append(means, m)
	}
	return means, nil
}

// Values extracts a numeric column for the customers matching churned
func Values(customers []models.Customer, column string, churned bool) ([]float64, error) {
	var values []float64
	for i := range customers {
		if customers[i].Churned != churned {
			continue
		}
		v, err := customers[i].Number(column)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}
