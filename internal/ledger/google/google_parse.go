package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"finboard/internal/core"
)

const dateLayout = "2006-01-02"

// rowError records why a sheet row was ignored. Row is 1-based like the
// sheet itself.
type rowError struct {
	Row int
	Err error
}

func formatRow(tx core.Transaction) []any {
	return []any{
		tx.Date.Format(dateLayout),
		tx.Description,
		tx.Category,
		string(tx.Type),
		float64(core.CentsFromAmount(tx.Amount)) / 100,
		tx.ID,
	}
}

// parseRows converts a values matrix into transactions. A first row whose
// date column does not parse is treated as a header.
func parseRows(values [][]any) ([]core.Transaction, []rowError) {
	var (
		out     []core.Transaction
		skipped []rowError
	)
	for i, raw := range values {
		cols := toStrings(raw)
		if strings.Join(cols, "") == "" {
			continue
		}
		tx, err := parseRow(cols)
		if err != nil {
			if i == 0 {
				continue
			}
			skipped = append(skipped, rowError{Row: i + 1, Err: err})
			continue
		}
		out = append(out, tx)
	}
	return out, skipped
}

func parseRow(cols []string) (core.Transaction, error) {
	if len(cols) < 5 {
		return core.Transaction{}, fmt.Errorf("expected at least 5 columns, got %d", len(cols))
	}
	date, err := parseDate(cols[0])
	if err != nil {
		return core.Transaction{}, err
	}
	typ, err := core.ParseTransactionType(cols[3])
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(cols[4])
	if err != nil {
		return core.Transaction{}, err
	}
	tx := core.Transaction{
		ID:          safeGet(cols, 5),
		Description: cols[1],
		Category:    cols[2],
		Amount:      core.AmountFromCents(cents),
		Type:        typ,
		Date:        date,
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// parseDate accepts ISO dates and the dd/mm/yyyy form Sheets renders for
// European locales.
func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{dateLayout, "02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date " + strconv.Quote(s))
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}
