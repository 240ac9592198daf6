package features

import (
	"errors"
	"fmt"

	"github.com/rewired-gh/churnlens/internal/models"
)

// Columns is the fixed feature order of the training matrix
var Columns = []string{
	models.ColumnTenure,
	models.ColumnMonthlyCharges,
	models.ColumnTotalCharges,
	models.ColumnContract,
	models.ColumnInternetService,
	models.ColumnOnlineSecurity,
	models.ColumnTechSupport,
	models.ColumnPaymentMethod,
	models.ColumnPaperlessBilling,
	models.ColumnSeniorCitizen,
	models.ColumnPartner,
	models.ColumnDependents,
	models.ColumnMultipleLines,
}

// Matrix is the encoded feature table with one row per customer and the churn label
type Matrix struct {
	Columns []string
	Rows    [][]float64
	Labels  []bool
}

// Len returns the number of rows
func (m *Matrix) Len() int {
	return len(m.Rows)
}

// Subset returns the rows at idx, sharing row storage
func (m *Matrix) Subset(idx []int) *Matrix {
	sub := &Matrix{
		Columns: m.Columns,
		Rows:    make([][]float64, len(idx)),
		Labels:  make([]bool, len(idx)),
	}
	for i, j := range idx {
		sub.Rows[i] = m.Rows[j]
		sub.Labels[i] = m.Labels[j]
	}
	return sub
}

// Build encodes customers into a matrix over columns. Numeric columns are copied;
// every other column must have an encoder.
func Build(customers []models.Customer, encoders Encoders, columns []string) (*Matrix, error) {
	if len(columns) == 0 {
		return nil, errors.New("no feature columns")
	}

	m := &Matrix{
		Columns: columns,
		Rows:    make([][]float64, len(customers)),
		Labels:  make([]bool, len(customers)),
	}
	for i := range customers {
		c := &customers[i]
		row := make([]float64, len(columns))
		for j, column := range columns {
			if models.IsNumeric(column) {
				v, err := c.Number(column)
				if err != nil {
					return nil, fmt.Errorf("failed to build row %d: %w", i, err)
				}
				row[j] = v
				continue
			}
			code, err := encoders.Encode(c, column)
			if err != nil {
				return nil, fmt.Errorf("failed to build row %d: %w", i, err)
			}
			row[j] = float64(code)
		}
		m.Rows[i] = row
		m.Labels[i] = c.Churned
	}
	return m, nil
}
