package questionbank

import (
	"fmt"
	"strconv"
)

// Difficulty is the authored difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// MaxOptions bounds the option list so every option has a letter label.
const MaxOptions = 26

// Question is a single multiple-choice question. Immutable once loaded.
type Question struct {
	Prompt     string     `validate:"required"`
	Options    []string   `validate:"min=2,max=26,unique,dive,required"`
	Answer     int        `validate:"gte=0"` // index into Options
	Difficulty Difficulty `validate:"oneof=Easy Medium Hard"`
	Tag        string
}

// Label returns the letter label for option i ("A", "B", ...).
func Label(i int) string {
	if i < 0 || i >= MaxOptions {
		return ""
	}
	return string(rune('A' + i))
}

// ParseLabel maps user input to an option label for a question with n
// options. It accepts a letter in either case or a 1-based number.
func ParseLabel(input string, n int) (string, bool) {
	if i, err := strconv.Atoi(input); err == nil {
		if i < 1 || i > n {
			return "", false
		}
		return Label(i - 1), true
	}
	if len(input) != 1 {
		return "", false
	}
	c := input[0]
	var i int
	switch {
	case c >= 'a' && c <= 'z':
		i = int(c - 'a')
	case c >= 'A' && c <= 'Z':
		i = int(c - 'A')
	default:
		return "", false
	}
	if i >= n {
		return "", false
	}
	return Label(i), true
}

// Labels returns the labels for every option of q, in order.
func (q Question) Labels() []string {
	labels := make([]string, len(q.Options))
	for i := range q.Options {
		labels[i] = Label(i)
	}
	return labels
}

// IndexOf resolves an option label to its index. Matching is exact.
func (q Question) IndexOf(label string) (int, bool) {
	if len(label) != 1 {
		return 0, false
	}
	i := int(label[0]) - 'A'
	if i < 0 || i >= len(q.Options) {
		return 0, false
	}
	return i, true
}

// CorrectLabel returns the label of the correct option.
func (q Question) CorrectLabel() string {
	return Label(q.Answer)
}

// IsCorrect reports whether label names the correct option.
func (q Question) IsCorrect(label string) bool {
	return label == q.CorrectLabel()
}

// Category is a named, ordered collection of questions.
type Category struct {
	// ID is the canonical identifier used to route to and persist the category.
	ID          string
	DisplayName string
	Description string
	Questions   []Question
}

// Len returns the number of questions.
func (c *Category) Len() int {
	return len(c.Questions)
}

// Bank is the decoded question bank. Category order follows the source document.
type Bank struct {
	Categories []Category
	byID       map[string]int
}

// NewBank indexes categories by ID. Duplicate IDs are rejected.
func NewBank(categories []Category) (*Bank, error) {
	b := &Bank{
		Categories: categories,
		byID:       make(map[string]int, len(categories)),
	}
	for i, c := range categories {
		if _, dup := b.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", ErrInvalidBank, c.ID)
		}
		b.byID[c.ID] = i
	}
	return b, nil
}

// Lookup returns the category with exactly the given ID.
func (b *Bank) Lookup(id string) (*Category, bool) {
	i, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return &b.Categories[i], true
}

// QuestionCount returns the total number of questions across categories.
func (b *Bank) QuestionCount() int {
	n := 0
	for _, c := range b.Categories {
		n += len(c.Questions)
	}
	return n
}
