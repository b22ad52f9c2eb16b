// Package ingest parses uploaded CSV statements into transactions.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spendwise/spendwise/internal/domain"
)

// Result reports what a parse pass produced. Malformed rows are skipped and
// counted, never fatal: the worst case is fewer transactions, not a failed
// import.
type Result struct {
	Transactions []domain.Transaction
	Skipped      int
}

// column indexes resolved from the header row.
type columns struct {
	date        int
	description int
	amount      int
	balance     int
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"02 Jan 2006",
}

// ParseCSV reads a statement export with a header row containing at least
// date, description and amount columns (balance optional, any order).
func ParseCSV(r io.Reader, userID, accountID string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: reading header: %w", err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("ParseCSV: %w", err)
	}

	result := &Result{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		t, ok := parseRow(record, cols)
		if !ok {
			result.Skipped++
			continue
		}
		t.UserID = userID
		t.AccountID = accountID
		result.Transactions = append(result.Transactions, t)
	}
	return result, nil
}

func resolveColumns(header []string) (columns, error) {
	cols := columns{date: -1, description: -1, amount: -1, balance: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date", "posted_date", "posted date", "transaction date":
			cols.date = i
		case "description", "memo", "payee", "name":
			cols.description = i
		case "amount", "value":
			cols.amount = i
		case "balance", "running balance", "balance_after":
			cols.balance = i
		}
	}
	if cols.date == -1 || cols.description == -1 || cols.amount == -1 {
		return cols, fmt.Errorf("header missing date, description or amount column")
	}
	return cols, nil
}

func parseRow(record []string, cols columns) (domain.Transaction, bool) {
	var t domain.Transaction
	if cols.date >= len(record) || cols.description >= len(record) || cols.amount >= len(record) {
		return t, false
	}

	date, ok := parseDate(record[cols.date])
	if !ok {
		return t, false
	}
	desc := strings.TrimSpace(record[cols.description])
	if desc == "" {
		return t, false
	}
	amount, err := parseMoney(record[cols.amount])
	if err != nil {
		return t, false
	}

	t.PostedDate = date
	t.Description = desc
	t.Amount = amount

	if cols.balance >= 0 && cols.balance < len(record) {
		if b, err := parseMoney(record[cols.balance]); err == nil {
			t.Balance = &b
		}
	}
	return t, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func parseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	if strings.HasPrefix(s, "($") || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")) {
		s = strings.Trim(s, "($)")
		v, err := strconv.ParseFloat(s, 64)
		return -v, err
	}
	return strconv.ParseFloat(s, 64)
}
