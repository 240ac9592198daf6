// Package dataset loads the telco churn CSV into customer records and prepares them
// for analysis: the total-charges column is coerced to a number, missing values are
// filled with the column median, and the binary churn label is derived.
//
// Every failure here is fatal to the pipeline; functions return wrapped sentinel
// errors so callers can tell input problems from data-quality problems.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rewired-gh/churnlens/internal/models"
)

var (
	// ErrMissingColumn is returned when the header lacks a required column
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedRow is returned when a row cannot be parsed against the schema
	ErrMalformedRow = errors.New("malformed row")
	// ErrEmptyDataset is returned when the file has a header but no rows
	ErrEmptyDataset = errors.New("dataset has no rows")
)

// field binds a CSV column to a Customer setter
type field struct {
	column string
	set    func(c *models.Customer, raw string) error
}

func text(dst func(*models.Customer) *string) func(*models.Customer, string) error {
	return func(c *models.Customer, raw string) error {
		*dst(c) = raw
		return nil
	}
}

// schema lists every column of the input file in header order
var schema = []field{
	{models.ColumnCustomerID, text(func(c *models.Customer) *string { return &c.ID })},
	{models.ColumnGender, text(func(c *models.Customer) *string { return &c.Gender })},
	{models.ColumnSeniorCitizen, func(c *models.Customer, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		c.SeniorCitizen = v
		return nil
	}},
	{models.ColumnPartner, text(func(c *models.Customer) *string { return &c.Partner })},
	{models.ColumnDependents, text(func(c *models.Customer) *string { return &c.Dependents })},
	{models.ColumnTenure, func(c *models.Customer, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		c.Tenure = v
		return nil
	}},
	{models.ColumnPhoneService, text(func(c *models.Customer) *string { return &c.PhoneService })},
	{models.ColumnMultipleLines, text(func(c *models.Customer) *string { return &c.MultipleLines })},
	{models.ColumnInternetService, text(func(c *models.Customer) *string { return &c.InternetService })},
	{models.ColumnOnlineSecurity, text(func(c *models.Customer) *string { return &c.OnlineSecurity })},
	{models.ColumnOnlineBackup, text(func(c *models.Customer) *string { return &c.OnlineBackup })},
	{models.ColumnDeviceProtection, text(func(c *models.Customer) *string { return &c.DeviceProtection })},
	{models.ColumnTechSupport, text(func(c *models.Customer) *string { return &c.TechSupport })},
	{models.ColumnStreamingTV, text(func(c *models.Customer) *string { return &c.StreamingTV })},
	{models.ColumnStreamingMovies, text(func(c *models.Customer) *string { return &c.StreamingMovies })},
	{models.ColumnContract, text(func(c *models.Customer) *string { return &c.Contract })},
	{models.ColumnPaperlessBilling, text(func(c *models.Customer) *string { return &c.PaperlessBilling })},
	{models.ColumnPaymentMethod, text(func(c *models.Customer) *string { return &c.PaymentMethod })},
	{models.ColumnMonthlyCharges, func(c *models.Customer, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		c.MonthlyCharges = v
		return nil
	}},
	{models.ColumnTotalCharges, func(c *models.Customer, raw string) error {
		c.TotalCharges, c.HasTotalCharges = CoerceNumber(raw)
		return nil
	}},
	{models.ColumnChurn, text(func(c *models.Customer) *string { return &c.Churn })},
}

// CoerceNumber parses a currency-like cell. Unparseable cells, including the blank
// placeholder used for first-month customers, are reported as missing. So are NaN
// and infinities.
func CoerceNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Load reads customers from the CSV file at path
func Load(path string) ([]models.Customer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	customers, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return customers, nil
}

// Parse reads customers from CSV with a header row. Column order is free but every
// schema column must be present; extra columns are ignored.
func Parse(r io.Reader) ([]models.Customer, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	positions := make([]int, len(schema))
	for i, f := range schema {
		pos, ok := index[f.column]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, f.column)
		}
		positions[i] = pos
	}

	var customers []models.Customer
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRow, line, err)
		}

		var c models.Customer
		for i, f := range schema {
			raw := row[positions[i]]
			if f.column != models.ColumnTotalCharges {
				raw = strings.TrimSpace(raw)
			}
			if err := f.set(&c, raw); err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid %s %q: %v", ErrMalformedRow, line, f.column, raw, err)
			}
		}
		customers = append(customers, c)
	}

	if len(customers) == 0 {
		return nil, ErrEmptyDataset
	}
	return customers, nil
}
