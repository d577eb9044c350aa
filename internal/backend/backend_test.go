package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/adapters"
	"finboard/internal/config"
	"finboard/internal/core"
	"finboard/internal/ledger/memory"
)

func TestFromAppConfig(t *testing.T) {
	_, err := FromAppConfig(nil)
	assert.Error(t, err)

	_, err = FromAppConfig(&config.Config{DataBackend: "postgres"})
	assert.Error(t, err)

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:         "sqlite",
		SQLiteDBPath:        "x.db",
		AMQPURL:             "amqp://localhost/",
		GoogleSpreadsheetID: "sheet",
		DataDirectory:       "seed",
	})
	require.NoError(t, err)
	assert.Equal(t, SQLiteBackend, cfg.Type)
	assert.Equal(t, "x.db", cfg.SQLiteDBPath)
	assert.Equal(t, "amqp://localhost/", cfg.AMQPURL)
	assert.Equal(t, "sheet", cfg.GoogleSpreadsheetID)
	assert.Equal(t, "seed", cfg.DataDirectory)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"unknown type", Config{Type: "redis"}, true},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "a.db"}, false},
		{"sheets without id", Config{Type: SheetsBackend, GoogleSheetName: "Transactions"}, true},
		{"sheets without name", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id"}, true},
		{"sheets", Config{Type: SheetsBackend, GoogleSpreadsheetID: "id", GoogleSheetName: "Transactions"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetBackendTypeStrings(t *testing.T) {
	assert.Equal(t, []string{"sqlite", "sheets", "memory"}, GetBackendTypeStrings())
}

func TestCreateMemoryBackend(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, DataDirectory: t.TempDir()})
	require.NoError(t, err)
	defer res.Close()

	_, ok := res.Backend.(*memory.Store)
	assert.True(t, ok)
	require.NotNil(t, res.Auth)
	assert.NoError(t, res.Ping(ctx))

	txs, err := res.Backend.ListTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 3, "memory backend starts with the demo ledger")
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "finboard.db"),
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, res.Close()) }()

	_, ok := res.Backend.(*adapters.SQLiteAdapter)
	require.True(t, ok)
	assert.NoError(t, res.Ping(ctx))

	id, err := res.Backend.Append(ctx, core.Transaction{Category: "Food", Amount: 9.99, Type: core.Expense, Date: core.NewDate(2025, 2, 1)})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.NoError(t, res.Auth.Set(ctx, "session", "demo"))
	v, ok, err := res.Auth.Get(ctx, "session")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "demo", v)
}

func TestCreateSheetsBackendNeedsCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:                SheetsBackend,
		GoogleSpreadsheetID: "id",
		GoogleSheetName:     "Transactions",
	})
	assert.Error(t, err)
}

func TestCreateBackendInvalid(t *testing.T) {
	_, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: "nope"})
	assert.Error(t, err)
}
