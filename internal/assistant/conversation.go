package assistant

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"finboard/internal/ledger"
)

var (
	ErrEmptyMessage   = errors.New("empty message")
	ErrMessageTooLong = errors.New("message too long")
)

const maxMessageLength = 500

type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      Role      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the chat history. It starts with the greeting and is safe
// for concurrent use.
type Conversation struct {
	mu       sync.Mutex
	messages []Message
	ledger   ledger.TransactionLister
	now      func() time.Time
}

func NewConversation(l ledger.TransactionLister) *Conversation {
	c := &Conversation{ledger: l, now: time.Now}
	c.messages = []Message{c.message(RoleAI, Greeting)}
	return c
}

func (c *Conversation) message(role Role, content string) Message {
	return Message{ID: uuid.NewString(), Content: content, Role: role, Timestamp: c.now()}
}

// Messages returns a copy of the history, oldest first.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Ask records the user's message and the assistant's reply and returns the
// reply. Nothing is recorded when the reply cannot be computed.
func (c *Conversation) Ask(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if len([]rune(text)) > maxMessageLength {
		return Message{}, fmt.Errorf("more than %d characters: %w", maxMessageLength, ErrMessageTooLong)
	}

	txs, err := c.ledger.ListTransactions(ctx)
	if err != nil {
		return Message{}, fmt.Errorf("list transactions: %w", err)
	}
	answer, err := Reply(text, txs, c.now())
	if err != nil {
		return Message{}, fmt.Errorf("compose reply: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	question := c.message(RoleUser, text)
	reply := c.message(RoleAI, answer)
	c.messages = append(c.messages, question, reply)
	return reply, nil
}

// Reset clears the history back to the greeting.
func (c *Conversation) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = []Message{c.message(RoleAI, Greeting)}
}
