// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for decoding and validating request data.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"finboard/internal/core"
)

const (
	maxBodyBytes = 1 << 20
	dateLayout   = "2006-01-02"

	// Limits on what a client may submit, in characters. Stored rows are
	// not held to them.
	maxCategoryLength    = 64
	maxDescriptionLength = 200
)

// decodeJSON reads exactly one JSON value into dst. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON body", errBadRequest)
	}
	return nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339 and returns the UTC calendar day.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", core.ErrInvalidTransaction, s)
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

// ParseTransactionFilter reads q, day and type from the query string.
func ParseTransactionFilter(query url.Values) (core.TransactionFilter, error) {
	f := core.TransactionFilter{Query: sanitizeInput(query.Get("q"))}
	if v := strings.TrimSpace(query.Get("day")); v != "" {
		day, err := parseDate(v)
		if err != nil {
			return core.TransactionFilter{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		f.Day = day
	}
	if v := strings.TrimSpace(query.Get("type")); v != "" && v != "all" {
		typ, err := core.ParseTransactionType(v)
		if err != nil {
			return core.TransactionFilter{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		f.Type = typ
	}
	return f, nil
}

// transactionRequest is the body of POST /api/transactions. Amount may be a
// JSON number or a numeric string; signs and exponents are rejected.
type transactionRequest struct {
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Date        string      `json:"date"`
}

// toTransaction converts the request, rounding the amount to cents. A
// missing date means today.
func (req transactionRequest) toTransaction(now time.Time) (core.Transaction, error) {
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Category)); n > maxCategoryLength {
		return core.Transaction{}, fmt.Errorf("%w: category too long (%d characters, max %d)", core.ErrInvalidTransaction, n, maxCategoryLength)
	}
	if n := utf8.RuneCountInString(strings.TrimSpace(req.Description)); n > maxDescriptionLength {
		return core.Transaction{}, fmt.Errorf("%w: description too long (%d characters, max %d)", core.ErrInvalidTransaction, n, maxDescriptionLength)
	}

	typ, err := core.ParseTransactionType(req.Type)
	if err != nil {
		return core.Transaction{}, err
	}
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Transaction{}, err
	}
	date := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if strings.TrimSpace(req.Date) != "" {
		if date, err = parseDate(req.Date); err != nil {
			return core.Transaction{}, err
		}
	}
	tx := core.Transaction{
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Amount:      core.AmountFromCents(cents),
		Type:        typ,
		Date:        date,
	}
	return tx, tx.Validate()
}

type categoryRequest struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

func (req categoryRequest) toCategory(id string) core.Category {
	return core.Category{ID: id, Label: sanitizeInput(req.Label), Color: strings.TrimSpace(req.Color)}
}

type joinGoalRequest struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Contribution float64 `json:"contribution"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type assistantRequest struct {
	Message string `json:"message"`
}
