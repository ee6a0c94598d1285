package questionbank

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ErrCategoryNotFound is returned when no category has the requested ID.
var ErrCategoryNotFound = errors.New("category not found")

// Client fetches the bank once and resolves categories from it. A failed
// fetch is not cached, but nothing here retries on its own.
type Client struct {
	src Source
	log zerolog.Logger

	mu   sync.Mutex
	bank *Bank
}

// NewClient creates a Client reading from src.
func NewClient(src Source, log zerolog.Logger) *Client {
	return &Client{
		src: src,
		log: log.With().Str("component", "questionbank").Logger(),
	}
}

// Bank returns the decoded bank, fetching it on first use.
func (c *Client) Bank(ctx context.Context) (*Bank, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bank != nil {
		return c.bank, nil
	}

	data, err := c.src.Fetch(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("source", c.src.String()).Msg("question bank fetch failed")
		return nil, err
	}
	bank, err := Decode(data)
	if err != nil {
		c.log.Error().Err(err).Str("source", c.src.String()).Msg("question bank decode failed")
		return nil, err
	}

	c.log.Info().
		Str("source", c.src.String()).
		Int("categories", len(bank.Categories)).
		Int("questions", bank.QuestionCount()).
		Msg("question bank loaded")
	c.bank = bank
	return bank, nil
}

// Categories returns all categories in bank order.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	bank, err := c.Bank(ctx)
	if err != nil {
		return nil, err
	}
	return bank.Categories, nil
}

// Category resolves id to its category. The ID is matched exactly.
func (c *Client) Category(ctx context.Context, id string) (*Category, error) {
	bank, err := c.Bank(ctx)
	if err != nil {
		return nil, err
	}
	cat, ok := bank.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, id)
	}
	return cat, nil
}
