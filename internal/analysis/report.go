package analysis

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rewired-gh/churnlens/internal/models"
)

const reportWidth = 58

// WriteSummary prints the dataset overview and the grouped churn rates
func WriteSummary(w io.Writer, s Summary) error {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", reportWidth) + "\n")
	b.WriteString("  TELECOM CUSTOMER CHURN ANALYSIS\n")
	b.WriteString(strings.Repeat("=", reportWidth) + "\n")

	o := s.Overview
	fmt.Fprintf(&b, "\n  Total Customers: %s\n", humanize.Comma(int64(o.Total)))
	fmt.Fprintf(&b, "  Churned: %s (%.1f%%)\n", humanize.Comma(int64(o.Churned)), o.ChurnRate*100)
	fmt.Fprintf(&b, "  Retained: %s\n", humanize.Comma(int64(o.Retained)))
	fmt.Fprintf(&b, "  Avg Tenure: %.1f months\n", o.AvgTenure)
	fmt.Fprintf(&b, "  Avg Monthly Bill: $%.2f\n", o.AvgMonthlyBill)

	writeRates(&b, "CHURN RATE BY CONTRACT TYPE", s.ByContract)
	writeRates(&b, "CHURN RATE BY INTERNET SERVICE", s.ByInternet)

	if len(s.ChargesByChurn) > 0 {
		parts := make([]string, 0, len(s.ChargesByChurn))
		// churned first, as the headline comparison
		for i := len(s.ChargesByChurn) - 1; i >= 0; i-- {
			g := s.ChargesByChurn[i]
			parts = append(parts, fmt.Sprintf("%s: $%.2f", g.Label, g.Mean))
		}
		fmt.Fprintf(&b, "\n  Avg Monthly Charges - %s\n", strings.Join(parts, " | "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeRates(b *strings.Builder, title string, rates []models.CategoryRate) {
	fmt.Fprintf(b, "\n  %s:\n", title)
	for _, r := range rates {
		fmt.Fprintf(b, "    %-20s -> %.1f%%\n", r.Value, r.Rate*100)
	}
}

// WriteModel prints the classifier scores and the strongest predictors
func WriteModel(w io.Writer, m models.Metrics, importances []models.FeatureImportance, top int) error {
	var b strings.Builder

	b.WriteString("\n  MODEL PERFORMANCE:\n")
	fmt.Fprintf(&b, "    ROC-AUC Score    : %.3f\n", m.AUC)
	fmt.Fprintf(&b, "    Precision (Churn): %.2f\n", m.Precision)
	fmt.Fprintf(&b, "    Recall (Churn)   : %.2f\n", m.Recall)
	fmt.Fprintf(&b, "    F1-Score (Churn) : %.2f\n", m.F1)
	fmt.Fprintf(&b, "    Accuracy         : %.2f\n", m.Accuracy)

	if top > len(importances) {
		top = len(importances)
	}
	if top > 0 {
		b.WriteString("\n  TOP CHURN PREDICTORS:\n")
		for i, fi := range importances[:top] {
			fmt.Fprintf(&b, "    %2d. %-18s %.3f\n", i+1, fi.Feature, fi.Score)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
