// Package google mirrors the ledger to a Google spreadsheet.
//
// Each transaction is one row of the configured sheet:
//
//	Date | Description | Category | Type | Amount | ID
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finboard/internal/core"
	"finboard/internal/ledger"
)

const (
	DefaultSheetName = "Transactions"
	defaultRowsTTL   = 30 * time.Second
)

var (
	_ ledger.TransactionWriter = (*Client)(nil)
	_ ledger.TransactionLister = (*Client)(nil)
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string

	// rows read by ListTransactions, reused until rowsExpiresAt
	mu            sync.Mutex
	cachedRows    []core.Transaction
	rowsExpiresAt time.Time
	rowsTTL       time.Duration
}

// Config describes the spreadsheet and how to authenticate against it.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a client for cfg. Without explicit credentials the file named
// by GOOGLE_APPLICATION_CREDENTIALS is used.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if strings.TrimSpace(sheet) == "" {
		sheet = DefaultSheetName
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		rowsTTL:       defaultRowsTTL,
	}
}

func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	if cfg.CredentialsJSON == "" && cfg.CredentialsFile == "" {
		cfg.CredentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case cfg.CredentialsJSON != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case cfg.CredentialsFile != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	slog.DebugContext(ctx, "Creating Google Sheets service", "credentials_size", len(credentialsJSON))
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// Append adds the transaction as a new row and returns its id.
func (c *Client) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	vr := &gsheet.ValueRange{Values: [][]any{formatRow(tx)}}
	rng := fmt.Sprintf("%s!A:F", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}
	c.InvalidateRowCache()

	if resp.Updates != nil {
		slog.DebugContext(ctx, "Transaction appended to sheet", "id", tx.ID, "range", resp.Updates.UpdatedRange)
	}
	return tx.ID, nil
}

// ListTransactions reads every row of the sheet. Rows that do not parse are
// skipped with a warning.
func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}

	c.mu.Lock()
	if time.Now().Before(c.rowsExpiresAt) {
		out := append([]core.Transaction(nil), c.cachedRows...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	rng := fmt.Sprintf("%s!A:F", c.sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	txs, skipped := parseRows(resp.Values)
	for _, s := range skipped {
		slog.WarnContext(ctx, "Skipping unparseable sheet row", "sheet", c.sheet, "row", s.Row, "error", s.Err)
	}

	c.mu.Lock()
	c.cachedRows = txs
	c.rowsExpiresAt = time.Now().Add(c.rowsTTL)
	c.mu.Unlock()

	return append([]core.Transaction(nil), txs...), nil
}

// InvalidateRowCache forces the next ListTransactions to hit the API.
func (c *Client) InvalidateRowCache() {
	c.mu.Lock()
	c.rowsExpiresAt = time.Time{}
	c.cachedRows = nil
	c.mu.Unlock()
}
