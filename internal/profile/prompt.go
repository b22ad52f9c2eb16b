// Package profile builds the spending-profile narrative: the prompt is
// assembled from the user's top categories and merchants, and the text
// itself comes from an external model behind the Generator interface.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spendwise/spendwise/internal/domain"
)

const (
	topCategories = 5
	topMerchants  = 5
)

// PromptFromTransactions builds the model prompt from the transaction
// snapshot. Only expense totals feed the ranking; income is summarized as a
// single figure.
func PromptFromTransactions(transactions []domain.Transaction) string {
	catTotals := make(map[string]float64)
	merchantCounts := make(map[string]int)
	var income float64

	for _, t := range transactions {
		if t.IsIncome() {
			income += t.Amount
			continue
		}
		if !t.IsExpense() {
			continue
		}
		if t.Category != "" {
			catTotals[t.Category] += math.Abs(t.Amount)
		}
		if fields := strings.Fields(t.Description); len(fields) > 0 {
			merchantCounts[strings.ToLower(fields[0])]++
		}
	}

	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Write a short, friendly spending profile ")
	b.WriteString("(2-3 paragraphs, plain text, no Markdown) for a user with the following activity.\n\n")

	b.WriteString("Top spending categories:\n")
	for _, kv := range topN(catTotals, topCategories) {
		fmt.Fprintf(&b, "- %s: $%.2f\n", kv.key, kv.value)
	}

	b.WriteString("\nMost frequent merchants:\n")
	counts := make(map[string]float64, len(merchantCounts))
	for k, v := range merchantCounts {
		counts[k] = float64(v)
	}
	for _, kv := range topN(counts, topMerchants) {
		fmt.Fprintf(&b, "- %s (%d transactions)\n", kv.key, int(kv.value))
	}

	fmt.Fprintf(&b, "\nTotal income in the period: $%.2f\n", income)
	b.WriteString("\nDo not mention exact merchant names more than once each. ")
	b.WriteString("Focus on habits and one concrete suggestion. Return plain text only.\n")

	return b.String()
}

type ranked struct {
	key   string
	value float64
}

func topN(totals map[string]float64, n int) []ranked {
	out := make([]ranked, 0, len(totals))
	for k, v := range totals {
		out = append(out, ranked{key: k, value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].value != out[j].value {
			return out[i].value > out[j].value
		}
		return out[i].key < out[j].key
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
