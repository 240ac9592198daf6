package dataset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rewired-gh/churnlens/internal/dataset"
	"github.com/rewired-gh/churnlens/internal/dataset/datasettest"
	"github.com/rewired-gh/churnlens/internal/models"
)

func TestParse(t *testing.T) {
	rq := require.New(t)

	raw := []models.Customer{
		datasettest.Customer("A", 12, 50.5, "One year", "DSL", false),
		datasettest.Customer("B", 0, 70, "Month-to-month", "Fiber optic", true),
	}
	raw[1].HasTotalCharges = false

	customers, err := dataset.Parse(bytes.NewReader(datasettest.CSV(raw)))
	rq.NoError(err)
	rq.Len(customers, 2)

	rq.Equal("A", customers[0].ID)
	rq.Equal(12, customers[0].Tenure)
	rq.Equal(50.5, customers[0].MonthlyCharges)
	rq.True(customers[0].HasTotalCharges)
	rq.InDelta(606.0, customers[0].TotalCharges, 1e-9)
	rq.Equal("One year", customers[0].Contract)

	rq.False(customers[1].HasTotalCharges, "blank total charges must be missing")
	rq.Equal("Yes", customers[1].Churn)
	rq.False(customers[1].Churned, "label is derived by Prepare, not Parse")
}

func TestParseColumnOrderIsFree(t *testing.T) {
	rq := require.New(t)

	header := append([]string{"extra"}, datasettest.Header...)
	// reverse the schema columns
	for i, j := 1, len(header)-1; i < j; i, j = i+1, j-1 {
		header[i], header[j] = header[j], header[i]
	}
	values := map[string]string{
		models.ColumnCustomerID: "X", models.ColumnSeniorCitizen: "1", models.ColumnTenure: "3",
		models.ColumnMonthlyCharges: "20", models.ColumnTotalCharges: "60", models.ColumnChurn: "No",
	}
	row := make([]string, len(header))
	for i, h := range header {
		if v, ok := values[h]; ok {
			row[i] = v
		} else {
			row[i] = "No"
		}
	}
	data := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"

	customers, err := dataset.Parse(strings.NewReader(data))
	rq.NoError(err)
	rq.Len(customers, 1)
	rq.Equal("X", customers[0].ID)
	rq.Equal(1, customers[0].SeniorCitizen)
	rq.Equal(60.0, customers[0].TotalCharges)
}

func TestParseErrors(t *testing.T) {
	valid := string(datasettest.CSV([]models.Customer{
		datasettest.Customer("A", 12, 50, "One year", "DSL", false),
	}))

	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "missing column",
			data: strings.Replace(valid, models.ColumnContract+",", "", 1),
			want: dataset.ErrMissingColumn,
		},
		{
			name: "bad tenure",
			data: strings.Replace(valid, ",12,", ",twelve,", 1),
			want: dataset.ErrMalformedRow,
		},
		{
			name: "short row",
			data: valid + "B,Male,0\n",
			want: dataset.ErrMalformedRow,
		},
		{
			name: "header only",
			data: strings.Join(datasettest.Header, ",") + "\n",
			want: dataset.ErrEmptyDataset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.Parse(strings.NewReader(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	rq := require.New(t)

	_, err := dataset.Load(filepath.Join(t.TempDir(), "missing.csv"))
	rq.ErrorIs(err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "churn.csv")
	rq.NoError(os.WriteFile(path, datasettest.CSV(datasettest.Synthetic(25, 1)), 0o600))

	customers, err := dataset.Load(path)
	rq.NoError(err)
	rq.Len(customers, 25)
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"29.85", 29.85, true},
		{" 1889.5 ", 1889.5, true},
		{" ", 0, false},
		{"", 0, false},
		{"n/a", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"-Infinity", 0, false},
	}

	for _, tt := range tests {
		got, ok := dataset.CoerceNumber(tt.raw)
		if ok != tt.valid || got != tt.want {
			t.Errorf("CoerceNumber(%q) = %v, %v; expected %v, %v", tt.raw, got, ok, tt.want, tt.valid)
		}
	}
}
