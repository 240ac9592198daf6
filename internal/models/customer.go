// Package models defines the core domain entities for the churnlens application.
// These models represent telco customers, grouped churn rates, and classifier evaluation results.
// Entities that cross a component boundary carry built-in validation.
//
// Column names match the header of the IBM Telco Customer Churn CSV so that
// lookups by column (encoding, grouping) read the same as the source data.
package models

import (
	"errors"
	"fmt"
	"math"
)

// Column names of the fixed input schema.
const (
	ColumnCustomerID       = "customerID"
	ColumnGender           = "gender"
	ColumnSeniorCitizen    = "SeniorCitizen"
	ColumnPartner          = "Partner"
	ColumnDependents       = "Dependents"
	ColumnTenure           = "tenure"
	ColumnPhoneService     = "PhoneService"
	ColumnMultipleLines    = "MultipleLines"
	ColumnInternetService  = "InternetService"
	ColumnOnlineSecurity   = "OnlineSecurity"
	ColumnOnlineBackup     = "OnlineBackup"
	ColumnDeviceProtection = "DeviceProtection"
	ColumnTechSupport      = "TechSupport"
	ColumnStreamingTV      = "StreamingTV"
	ColumnStreamingMovies  = "StreamingMovies"
	ColumnContract         = "Contract"
	ColumnPaperlessBilling = "PaperlessBilling"
	ColumnPaymentMethod    = "PaymentMethod"
	ColumnMonthlyCharges   = "MonthlyCharges"
	ColumnTotalCharges     = "TotalCharges"
	ColumnChurn            = "Churn"
)

// ErrUnknownColumn is returned when a column lookup names no field of Customer
var ErrUnknownColumn = errors.New("unknown column")

// ErrMissingValue is returned when a numeric lookup hits a value that has not been imputed yet
var ErrMissingValue = errors.New("missing value")

// Customer is one row of the churn dataset.
//
// TotalCharges is blank for customers in their first month; HasTotalCharges is false
// until the value is imputed. Churned is derived from Churn during preparation.
type Customer struct {
	ID               string  `json:"customer_id"`
	Gender           string  `json:"gender"`
	SeniorCitizen    int     `json:"senior_citizen"` // 0 or 1
	Partner          string  `json:"partner"`
	Dependents       string  `json:"dependents"`
	Tenure           int     `json:"tenure"` // months
	PhoneService     string  `json:"phone_service"`
	MultipleLines    string  `json:"multiple_lines"`
	InternetService  string  `json:"internet_service"`
	OnlineSecurity   string  `json:"online_security"`
	OnlineBackup     string  `json:"online_backup"`
	DeviceProtection string  `json:"device_protection"`
	TechSupport      string  `json:"tech_support"`
	StreamingTV      string  `json:"streaming_tv"`
	StreamingMovies  string  `json:"streaming_movies"`
	Contract         string  `json:"contract"`
	PaperlessBilling string  `json:"paperless_billing"`
	PaymentMethod    string  `json:"payment_method"`
	MonthlyCharges   float64 `json:"monthly_charges"`
	TotalCharges     float64 `json:"total_charges"`
	HasTotalCharges  bool    `json:"has_total_charges"`
	Churn            string  `json:"churn"` // raw label literal
	Churned          bool    `json:"churned"`
}

// Category returns the value of a categorical column
func (c *Customer) Category(column string) (string, error) {
	switch column {
	case ColumnCustomerID:
		return c.ID, nil
	case ColumnGender:
		return c.Gender, nil
	case ColumnPartner:
		return c.Partner, nil
	case ColumnDependents:
		return c.Dependents, nil
	case ColumnPhoneService:
		return c.PhoneService, nil
	case ColumnMultipleLines:
		return c.MultipleLines, nil
	case ColumnInternetService:
		return c.InternetService, nil
	case ColumnOnlineSecurity:
		return c.OnlineSecurity, nil
	case ColumnOnlineBackup:
		return c.OnlineBackup, nil
	case ColumnDeviceProtection:
		return c.DeviceProtection, nil
	case ColumnTechSupport:
		return c.TechSupport, nil
	case ColumnStreamingTV:
		return c.StreamingTV, nil
	case ColumnStreamingMovies:
		return c.StreamingMovies, nil
	case ColumnContract:
		return c.Contract, nil
	case ColumnPaperlessBilling:
		return c.PaperlessBilling, nil
	case ColumnPaymentMethod:
		return c.PaymentMethod, nil
	case ColumnChurn:
		return c.Churn, nil
	}
	return "", fmt.Errorf("%w: %q is not categorical", ErrUnknownColumn, column)
}

// Number returns the value of a numeric column
func (c *Customer) Number(column string) (float64, error) {
	switch column {
	case ColumnSeniorCitizen:
		return float64(c.SeniorCitizen), nil
	case ColumnTenure:
		return float64(c.Tenure), nil
	case ColumnMonthlyCharges:
		return c.MonthlyCharges, nil
	case ColumnTotalCharges:
		if !c.HasTotalCharges {
			return 0, fmt.Errorf("%w: %s for customer %s", ErrMissingValue, column, c.ID)
		}
		return c.TotalCharges, nil
	}
	return 0, fmt.Errorf("%w: %q is not numeric", ErrUnknownColumn, column)
}

// IsNumeric reports whether column names a numeric field
func IsNumeric(column string) bool {
	switch column {
	case ColumnSeniorCitizen, ColumnTenure, ColumnMonthlyCharges, ColumnTotalCharges:
		return true
	}
	return false
}

// Validate checks that a prepared customer is complete and within range
func (c *Customer) Validate() error {
	if c.ID == "" {
		return errors.New("customer ID must not be empty")
	}
	if c.SeniorCitizen != 0 && c.SeniorCitizen != 1 {
		return errors.New("senior citizen flag must be 0 or 1")
	}
	if c.Tenure < 0 {
		return errors.New("tenure must not be negative")
	}
	if !finite(c.MonthlyCharges) {
		return errors.New("monthly charges must be a finite number")
	}
	if c.MonthlyCharges < 0 {
		return errors.New("monthly charges must not be negative")
	}
	if !c.HasTotalCharges {
		return errors.New("total charges must be present after imputation")
	}
	if !finite(c.TotalCharges) {
		return errors.New("total charges must be a finite number")
	}
	if c.TotalCharges < 0 {
		return errors.New("total charges must not be negative")
	}
	if c.Churn == "" {
		return errors.New("churn label must not be empty")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
