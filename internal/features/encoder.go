// Package features turns prepared customers into the numeric matrix the classifier
// trains on. Categorical columns are label-encoded with one independent encoder per
// column; numeric columns pass through unchanged.
package features

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/rewired-gh/churnlens/internal/models"
)

// ErrUnseenCategory is returned when encoding a value the encoder was not fitted on
var ErrUnseenCategory = errors.New("unseen category")

// LabelEncoder maps the observed values of one column to the codes 0..k-1,
// assigned in lexicographic order.
type LabelEncoder struct {
	Column string
	Values []string // sorted; Values[code] decodes
	codes  map[string]int
}

// FitLabelEncoder learns the value set of column over customers
func FitLabelEncoder(customers []models.Customer, column string) (*LabelEncoder, error) {
	seen := make(map[string]struct{})
	for i := range customers {
		v, err := customers[i].Category(column)
		if err != nil {
			return nil, fmt.Errorf("failed to fit encoder: %w", err)
		}
		seen[v] = struct{}{}
	}

	values := lo.Keys(seen)
	sort.Strings(values)

	e := &LabelEncoder{Column: column, Values: values, codes: make(map[string]int, len(values))}
	for code, v := range values {
		e.codes[v] = code
	}
	return e, nil
}

// Encode returns the code of value
func (e *LabelEncoder) Encode(value string) (int, error) {
	code, ok := e.codes[value]
	if !ok {
		return 0, fmt.Errorf("%w: %q in column %s", ErrUnseenCategory, value, e.Column)
	}
	return code, nil
}

// Len returns the number of distinct values
func (e *LabelEncoder) Len() int {
	return len(e.Values)
}

// Encoders holds one fitted encoder per categorical column
type Encoders map[string]*LabelEncoder

// CategoricalColumns are the columns label-encoded before training
var CategoricalColumns = []string{
	models.ColumnGender,
	models.ColumnPartner,
	models.ColumnDependents,
	models.ColumnPhoneService,
	models.ColumnMultipleLines,
	models.ColumnInternetService,
	models.ColumnOnlineSecurity,
	models.ColumnOnlineBackup,
	models.ColumnDeviceProtection,
	models.ColumnTechSupport,
	models.ColumnStreamingTV,
	models.ColumnStreamingMovies,
	models.ColumnContract,
	models.ColumnPaperlessBilling,
	models.ColumnPaymentMethod,
}

// FitEncoders fits an encoder for each of columns
func FitEncoders(customers []models.Customer, columns []string) (Encoders, error) {
	encoders := make(Encoders, len(columns))
	for _, column := range columns {
		e, err := FitLabelEncoder(customers, column)
		if err != nil {
			return nil, err
		}
		encoders[column] = e
	}
	return encoders, nil
}

// Encode returns the code of the customer's value in column
func (e Encoders) Encode(c *models.Customer, column string) (int, error) {
	enc, ok := e[column]
	if !ok {
		return 0, fmt.Errorf("no encoder for column %s", column)
	}
	value, err := c.Category(column)
	if err != nil {
		return 0, err
	}
	return enc.Encode(value)
}
