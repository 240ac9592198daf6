// Package datasettest builds churn datasets for tests: hand-written rows rendered as
// CSV, and seeded synthetic populations whose churn depends on contract and tenure.
package datasettest

import (
	"bytes"
	"encoding/csv"
	"math/rand"
	"strconv"

	"github.com/rewired-gh/churnlens/internal/models"
)

// Header is the column order written by CSV
var Header = []string{
	models.ColumnCustomerID, models.ColumnGender, models.ColumnSeniorCitizen, models.ColumnPartner,
	models.ColumnDependents, models.ColumnTenure, models.ColumnPhoneService, models.ColumnMultipleLines,
	models.ColumnInternetService, models.ColumnOnlineSecurity, models.ColumnOnlineBackup,
	models.ColumnDeviceProtection, models.ColumnTechSupport, models.ColumnStreamingTV,
	models.ColumnStreamingMovies, models.ColumnContract, models.ColumnPaperlessBilling,
	models.ColumnPaymentMethod, models.ColumnMonthlyCharges, models.ColumnTotalCharges, models.ColumnChurn,
}

// CSV renders customers with a header row. Customers without total charges get the
// blank placeholder the real dataset uses.
func CSV(customers []models.Customer) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	for _, c := range customers {
		total := " "
		if c.HasTotalCharges {
			total = strconv.FormatFloat(c.TotalCharges, 'f', -1, 64)
		}
		_ = w.Write([]string{
			c.ID, c.Gender, strconv.Itoa(c.SeniorCitizen), c.Partner,
			c.Dependents, strconv.Itoa(c.Tenure), c.PhoneService, c.MultipleLines,
			c.InternetService, c.OnlineSecurity, c.OnlineBackup,
			c.DeviceProtection, c.TechSupport, c.StreamingTV,
			c.StreamingMovies, c.Contract, c.PaperlessBilling,
			c.PaymentMethod, strconv.FormatFloat(c.MonthlyCharges, 'f', -1, 64), total, c.Churn,
		})
	}
	w.Flush()
	return buf.Bytes()
}

// Customer returns a fully populated raw customer (churn literal set, label not derived)
func Customer(id string, tenure int, monthly float64, contract, internet string, churned bool) models.Customer {
	churn := "No"
	if churned {
		churn = "Yes"
	}
	return models.Customer{
		ID:               id,
		Gender:           "Female",
		Partner:          "No",
		Dependents:       "No",
		Tenure:           tenure,
		PhoneService:     "Yes",
		MultipleLines:    "No",
		InternetService:  internet,
		OnlineSecurity:   "No",
		OnlineBackup:     "No",
		DeviceProtection: "No",
		TechSupport:      "No",
		StreamingTV:      "No",
		StreamingMovies:  "No",
		Contract:         contract,
		PaperlessBilling: "Yes",
		PaymentMethod:    "Electronic check",
		MonthlyCharges:   monthly,
		TotalCharges:     monthly * float64(tenure),
		HasTotalCharges:  true,
		Churn:            churn,
	}
}

var (
	contracts = []string{"Month-to-month", "One year", "Two year"}
	internets = []string{"DSL", "Fiber optic", "No"}
	yesNo     = []string{"Yes", "No"}
	payments  = []string{"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"}
)

// Synthetic returns n raw customers drawn from a fixed seed. Month-to-month fiber
// customers with short tenure churn most often, which gives a learnable signal.
func Synthetic(n int, seed int64) []models.Customer {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test data

	pick := func(values []string) string { return values[rng.Intn(len(values))] }

	customers := make([]models.Customer, n)
	for i := range customers {
		contract := pick(contracts)
		internet := pick(internets)
		tenure := rng.Intn(73)
		monthly := 20 + rng.Float64()*90
		if internet == "Fiber optic" {
			monthly += 15
		}

		risk := 0.05
		if contract == "Month-to-month" {
			risk += 0.3
		}
		if internet == "Fiber optic" {
			risk += 0.15
		}
		if tenure < 12 {
			risk += 0.2
		}

		c := Customer("C"+strconv.Itoa(i), tenure, float64(int(monthly*100))/100, contract, internet, rng.Float64() < risk)
		c.Gender = pick([]string{"Female", "Male"})
		c.SeniorCitizen = rng.Intn(2)
		c.Partner = pick(yesNo)
		c.Dependents = pick(yesNo)
		c.MultipleLines = pick(yesNo)
		c.OnlineSecurity = pick(yesNo)
		c.TechSupport = pick(yesNo)
		c.PaymentMethod = pick(payments)
		if tenure == 0 {
			c.TotalCharges = 0
			c.HasTotalCharges = false
		}
		customers[i] = c
	}
	return customers
}
