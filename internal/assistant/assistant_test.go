package assistant

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
	"finboard/internal/ledger/memory"
)

var demoNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestClassify(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"How can I SAVE more?", IntentTips},
		{"any tips?", IntentTips},
		{"forecast please", IntentPrediction},
		{"what about next month", IntentPrediction},
		{"Where do I spend the most?", IntentCategories},
		{"show categories", IntentCategories},
		{"what's my balance", IntentOverview},
		{"Hi!", IntentGreeting},
		{"hey there", IntentGreeting},
		{"this is weird", IntentHelp},
		{"", IntentHelp},
		// first route wins
		{"hi, how do I save on spending?", IntentTips},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestReplyOnDemoLedger(t *testing.T) {
	txs := memory.DemoTransactions(demoNow)

	reply, err := Reply("give me a tip", txs, demoNow)
	require.NoError(t, err)
	assert.Equal(t, "Your highest spending category is Food at 65.3% of total expenses. Consider meal prepping to reduce food expenses.", reply)

	reply, err = Reply("predict my costs", txs, demoNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "$230.49 a month")
	assert.Contains(t, reply, "$253.54 next month")

	reply, err = Reply("top categories?", txs, demoNow)
	require.NoError(t, err)
	assert.Equal(t, "Your top spending categories are Food ($150.50, 65.3%), Utilities ($79.99, 34.7%).", reply)

	reply, err = Reply("overview", txs, demoNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "Income $5000.00, expenses $230.49, balance $4769.51.")
	assert.Contains(t, reply, "above the 20% target")

	reply, err = Reply("hello", txs, demoNow)
	require.NoError(t, err)
	assert.Equal(t, Greeting, reply)

	reply, err = Reply("what can you do", txs, demoNow)
	require.NoError(t, err)
	assert.Equal(t, helpReply, reply)
}

func TestReplyWithoutData(t *testing.T) {
	for _, msg := range []string{"tips", "forecast", "spending", "balance"} {
		reply, err := Reply(msg, nil, demoNow)
		require.NoError(t, err, msg)
		assert.Equal(t, notEnoughData, reply, msg)
	}
}

func TestReplyBelowTarget(t *testing.T) {
	txs := []core.Transaction{
		{ID: "1", Category: "Income", Amount: 100, Type: core.Income, Date: core.NewDate(2025, 6, 1)},
		{ID: "2", Category: "Food", Amount: 90, Type: core.Expense, Date: core.NewDate(2025, 6, 2)},
	}
	reply, err := Reply("income", txs, demoNow)
	require.NoError(t, err)
	assert.Contains(t, reply, "saving 10.0% of your income, below the 20% target")
}

func TestReplyInvalidLedger(t *testing.T) {
	txs := []core.Transaction{{ID: "1", Category: "Food", Amount: -5, Type: core.Expense, Date: core.NewDate(2025, 6, 2)}}
	_, err := Reply("tips", txs, demoNow)
	assert.Error(t, err)
}

type failingLister struct{}

func (failingLister) ListTransactions(context.Context) ([]core.Transaction, error) {
	return nil, errors.New("backend down")
}

func TestConversation(t *testing.T) {
	conv := NewConversation(memory.NewSeeded(demoNow))
	conv.now = func() time.Time { return demoNow }

	msgs := conv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, RoleAI, msgs[0].Role)
	assert.Equal(t, Greeting, msgs[0].Content)

	reply, err := conv.Ask(context.Background(), "  where do I spend?  ")
	require.NoError(t, err)
	assert.Equal(t, RoleAI, reply.Role)
	assert.Contains(t, reply.Content, "Food")

	msgs = conv.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, RoleUser, msgs[1].Role)
	assert.Equal(t, "where do I spend?", msgs[1].Content)
	assert.NotEqual(t, msgs[1].ID, msgs[2].ID)

	conv.Reset()
	assert.Len(t, conv.Messages(), 1)
}

func TestConversationRejectsInput(t *testing.T) {
	conv := NewConversation(memory.NewSeeded(demoNow))

	_, err := conv.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	long := make([]byte, maxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = conv.Ask(context.Background(), string(long))
	assert.ErrorIs(t, err, ErrMessageTooLong)

	assert.Len(t, conv.Messages(), 1)
}

func TestConversationLedgerError(t *testing.T) {
	conv := NewConversation(failingLister{})
	_, err := conv.Ask(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend down")
	assert.Len(t, conv.Messages(), 1)
}

func TestConversationConcurrentAsk(t *testing.T) {
	conv := NewConversation(memory.NewSeeded(demoNow))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = conv.Ask(context.Background(), "balance")
		}()
	}
	wg.Wait()
	assert.Len(t, conv.Messages(), 21)
}
