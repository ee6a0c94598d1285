package questionbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidBank is returned when a question bank document is malformed.
var ErrInvalidBank = errors.New("invalid question bank")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		q := sl.Current().Interface().(Question)
		if q.Answer >= len(q.Options) {
			sl.ReportError(q.Answer, "Answer", "Answer", "answer_in_options", "")
		}
	}, Question{})
	return v
}

type wireQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
	GameType      string   `json:"game_type"`
}

type wireCategory struct {
	ID          string         `json:"id"`
	Category    string         `json:"category"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Questions   []wireQuestion `json:"questions"`
}

type wireBank struct {
	Categories []wireCategory `json:"categories"`
}

// Decode parses a question bank document in either wire shape and
// normalizes it to the canonical Category model. Category IDs are taken
// verbatim; they are the only key a category is ever looked up by.
func Decode(data []byte) (*Bank, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
	}
	if err := validateShape(doc); err != nil {
		return nil, err
	}

	var wire []wireCategory
	var err error
	if isCategoryList(doc) {
		var wb wireBank
		if err := json.Unmarshal(data, &wb); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
		}
		wire = wb.Categories
	} else {
		wire, err = decodeCategoryMap(data)
		if err != nil {
			return nil, err
		}
	}

	categories := make([]Category, 0, len(wire))
	for _, wc := range wire {
		c, err := normalizeCategory(wc)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return NewBank(categories)
}

// isCategoryList reports whether doc uses the {"categories": [...]} shape.
// A map whose only key is "categories" but holds question records is the
// object-of-arrays shape with a category literally named "categories".
func isCategoryList(doc any) bool {
	m, ok := doc.(map[string]any)
	if !ok || len(m) != 1 {
		return false
	}
	list, ok := m["categories"].([]any)
	if !ok {
		return false
	}
	if len(list) == 0 {
		return true
	}
	first, ok := list[0].(map[string]any)
	if !ok {
		return false
	}
	_, hasQuestions := first["questions"]
	return hasQuestions
}

// decodeCategoryMap decodes the object-of-arrays shape, keeping the key
// order of the document.
func decodeCategoryMap(data []byte) ([]wireCategory, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
	}

	var out []wireCategory
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBank, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidBank, tok)
		}
		var qs []wireQuestion
		if err := dec.Decode(&qs); err != nil {
			return nil, fmt.Errorf("%w: category %q: %w", ErrInvalidBank, key, err)
		}
		out = append(out, wireCategory{ID: key, Questions: qs})
	}
	return out, nil
}

func normalizeCategory(wc wireCategory) (Category, error) {
	id := wc.ID
	if id == "" {
		id = wc.Category
	}
	name := wc.Name
	if name == "" {
		name = wc.Category
	}
	if name == "" {
		name = id
	}

	c := Category{
		ID:          id,
		DisplayName: name,
		Description: wc.Description,
		Questions:   make([]Question, 0, len(wc.Questions)),
	}
	for i, wq := range wc.Questions {
		q, err := normalizeQuestion(wq)
		if err != nil {
			return Category{}, fmt.Errorf("category %q question %d: %w", id, i+1, err)
		}
		c.Questions = append(c.Questions, q)
	}
	return c, nil
}

func normalizeQuestion(wq wireQuestion) (Question, error) {
	q := Question{
		Prompt:     wq.Question,
		Options:    wq.Options,
		Difficulty: Difficulty(wq.Difficulty),
		Tag:        wq.GameType,
	}

	answer, ok := resolveAnswer(wq.CorrectAnswer, wq.Options)
	if !ok {
		return Question{}, fmt.Errorf("%w: correct answer %q matches no option", ErrInvalidBank, wq.CorrectAnswer)
	}
	q.Answer = answer

	if err := validate.Struct(q); err != nil {
		return Question{}, fmt.Errorf("%w: %w", ErrInvalidBank, err)
	}
	return q, nil
}

// resolveAnswer maps a wire correct_answer to an option index. A letter
// label wins over an option whose text happens to be the same letter.
func resolveAnswer(answer string, options []string) (int, bool) {
	probe := Question{Options: options}
	if i, ok := probe.IndexOf(answer); ok {
		return i, true
	}
	for i, opt := range options {
		if opt == answer {
			return i, true
		}
	}
	return 0, false
}
