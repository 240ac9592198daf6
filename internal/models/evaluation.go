package models

import (
	"errors"
	"math"
)

// ConfusionMatrix counts binary classification outcomes with churn as the positive class
type ConfusionMatrix struct {
	TN int `json:"tn"` // retained, predicted retained
	FP int `json:"fp"` // retained, predicted churned
	FN int `json:"fn"` // churned, predicted retained
	TP int `json:"tp"` // churned, predicted churned
}

// NewConfusionMatrix tallies actual against predicted labels.
// Extra entries in the longer slice are ignored.
func NewConfusionMatrix(actual, predicted []bool) ConfusionMatrix {
	var m ConfusionMatrix
	n := min(len(actual), len(predicted))
	for i := 0; i < n; i++ {
		switch {
		case actual[i] && predicted[i]:
			m.TP++
		case actual[i]:
			m.FN++
		case predicted[i]:
			m.FP++
		default:
			m.TN++
		}
	}
	return m
}

// Total returns the number of classified samples
func (m ConfusionMatrix) Total() int {
	return m.TN + m.FP + m.FN + m.TP
}

// Precision returns TP/(TP+FP), or 0 when nothing was predicted positive
func (m ConfusionMatrix) Precision() float64 {
	return ratio(m.TP, m.TP+m.FP)
}

// Recall returns TP/(TP+FN), or 0 when there are no positives
func (m ConfusionMatrix) Recall() float64 {
	return ratio(m.TP, m.TP+m.FN)
}

// F1 returns the harmonic mean of precision and recall
func (m ConfusionMatrix) F1() float64 {
	p, r := m.Precision(), m.Recall()
	if p+r == 0 {
		return 0
	}
	return 2 * p * r / (p + r)
}

// Accuracy returns the share of correctly classified samples
func (m ConfusionMatrix) Accuracy() float64 {
	return ratio(m.TP+m.TN, m.Total())
}

// Cells returns the matrix as rows of actual class, columns of predicted class,
// retained first.
func (m ConfusionMatrix) Cells() [2][2]int {
	return [2][2]int{
		{m.TN, m.FP},
		{m.FN, m.TP},
	}
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// Metrics summarizes classifier quality on the evaluation partition
type Metrics struct {
	AUC       float64 `json:"auc"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Accuracy  float64 `json:"accuracy"`
	Support   int     `json:"support"` // churned customers in the evaluation partition
}

// NewMetrics derives threshold metrics from a confusion matrix and attaches the AUC
func NewMetrics(m ConfusionMatrix, auc float64) Metrics {
	return Metrics{
		AUC:       auc,
		Precision: m.Precision(),
		Recall:    m.Recall(),
		F1:        m.F1(),
		Accuracy:  m.Accuracy(),
		Support:   m.TP + m.FN,
	}
}

// Validate checks that every score is a probability
func (m *Metrics) Validate() error {
	for _, v := range []float64{m.AUC, m.Precision, m.Recall, m.F1, m.Accuracy} {
		if math.IsNaN(v) || v < 0.0 || v > 1.0 {
			return errors.New("metric must be between 0.0 and 1.0")
		}
	}
	if m.Support < 0 {
		return errors.New("support must not be negative")
	}
	return nil
}

// FeatureImportance is one feature's share of the forest's impurity reduction
type FeatureImportance struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}
