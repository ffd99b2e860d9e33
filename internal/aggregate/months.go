// Package aggregate groups, pages and totals transaction lists for display.
// Everything here is pure and works on caller-owned slices without mutating them.
package aggregate

import (
	"sort"
	"time"

	"github.com/jask/expensetracker/internal/domain"
)

// AllKey is the group holding every transaction.
const AllKey = "All"

const monthKeyLayout = "January 2006"

// MonthKey is the display key for the month d falls in.
func MonthKey(d domain.Date) string {
	return d.Format(monthKeyLayout)
}

// MonthGroups maps AllKey and month keys to transactions in input order.
type MonthGroups map[string][]domain.Transaction

// GroupByMonth buckets txs by calendar month. Every transaction lands in
// AllKey and in exactly one month bucket.
func GroupByMonth(txs []domain.Transaction) MonthGroups {
	groups := MonthGroups{AllKey: make([]domain.Transaction, 0, len(txs))}
	for _, tx := range txs {
		groups[AllKey] = append(groups[AllKey], tx)
		key := MonthKey(tx.Date)
		groups[key] = append(groups[key], tx)
	}
	return groups
}

// Keys returns AllKey first, then months newest first.
func (g MonthGroups) Keys() []string {
	months := make([]time.Time, 0, len(g))
	for key := range g {
		if key == AllKey {
			continue
		}
		t, err := time.Parse(monthKeyLayout, key)
		if err != nil {
			continue
		}
		months = append(months, t)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].After(months[j]) })

	keys := make([]string, 0, len(months)+1)
	keys = append(keys, AllKey)
	for _, m := range months {
		keys = append(keys, m.Format(monthKeyLayout))
	}
	return keys
}

// Get returns the group for key, or nil.
func (g MonthGroups) Get(key string) []domain.Transaction {
	return g[key]
}
