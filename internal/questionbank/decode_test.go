package questionbank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryListDoc = `{
  "categories": [
    {
      "category": "Science and Natural Sciences",
      "name": "Science & Nature",
      "description": "Physics and more.",
      "questions": [
        {"question": "Symbol for gold?", "options": ["Ag", "Au"], "correct_answer": "B", "difficulty": "Easy", "game_type": "Chemistry"}
      ]
    },
    {
      "category": "Geography",
      "questions": [
        {"question": "Capital of France?", "options": ["Paris", "Lyon", "Nice"], "correct_answer": "Paris", "difficulty": "Medium"}
      ]
    }
  ]
}`

func TestDecode_CategoryList(t *testing.T) {
	bank, err := Decode([]byte(categoryListDoc))
	require.NoError(t, err)
	require.Len(t, bank.Categories, 2)

	sci := bank.Categories[0]
	assert.Equal(t, "Science and Natural Sciences", sci.ID)
	assert.Equal(t, "Science & Nature", sci.DisplayName)
	assert.Equal(t, "Physics and more.", sci.Description)
	require.Len(t, sci.Questions, 1)
	assert.Equal(t, 1, sci.Questions[0].Answer)
	assert.Equal(t, DifficultyEasy, sci.Questions[0].Difficulty)
	assert.Equal(t, "Chemistry", sci.Questions[0].Tag)

	geo, ok := bank.Lookup("Geography")
	require.True(t, ok)
	assert.Equal(t, "Geography", geo.DisplayName)
	assert.Equal(t, 0, geo.Questions[0].Answer, "answer given as option text")
}

func TestDecode_CategoryMapKeepsDocumentOrder(t *testing.T) {
	doc := `{
	  "Zoology": [{"question": "Q1", "options": ["a", "b"], "correct_answer": "A", "difficulty": "Easy"}],
	  "Astronomy": [{"question": "Q2", "options": ["a", "b"], "correct_answer": "B", "difficulty": "Hard"}],
	  "Music": []
	}`
	bank, err := Decode([]byte(doc))
	require.NoError(t, err)

	var ids []string
	for _, c := range bank.Categories {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"Zoology", "Astronomy", "Music"}, ids)

	music, ok := bank.Lookup("Music")
	require.True(t, ok)
	assert.Zero(t, music.Len())
}

func TestDecode_CategoryNamedCategories(t *testing.T) {
	doc := `{"categories": [{"question": "Q", "options": ["x", "y"], "correct_answer": "A", "difficulty": "Easy"}]}`
	bank, err := Decode([]byte(doc))
	require.NoError(t, err)

	cat, ok := bank.Lookup("categories")
	require.True(t, ok)
	assert.Equal(t, 1, cat.Len())
}

func TestDecode_LookupIsExact(t *testing.T) {
	bank, err := Decode([]byte(categoryListDoc))
	require.NoError(t, err)

	for _, id := range []string{"geography", "Geography ", "GEOGRAPHY", "Science & Nature"} {
		_, ok := bank.Lookup(id)
		assert.False(t, ok, "lookup %q should fail", id)
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{categories`},
		{"array top level", `[]`},
		{"one option", `{"X": [{"question": "Q", "options": ["a"], "correct_answer": "A", "difficulty": "Easy"}]}`},
		{"duplicate options", `{"X": [{"question": "Q", "options": ["a", "a"], "correct_answer": "A", "difficulty": "Easy"}]}`},
		{"bad difficulty", `{"X": [{"question": "Q", "options": ["a", "b"], "correct_answer": "A", "difficulty": "Brutal"}]}`},
		{"answer out of range", `{"X": [{"question": "Q", "options": ["a", "b"], "correct_answer": "C", "difficulty": "Easy"}]}`},
		{"lowercase label", `{"X": [{"question": "Q", "options": ["a", "b"], "correct_answer": "c", "difficulty": "Easy"}]}`},
		{"empty prompt", `{"X": [{"question": "", "options": ["a", "b"], "correct_answer": "A", "difficulty": "Easy"}]}`},
		{"category without id", `{"categories": [{"questions": []}]}`},
		{"duplicate ids", `{"categories": [{"category": "A", "questions": []}, {"id": "A", "questions": []}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBank), "got %v", err)
		})
	}
}

func TestDecode_EmbeddedBank(t *testing.T) {
	bank, err := Decode(defaultBank)
	require.NoError(t, err)
	assert.Len(t, bank.Categories, 6)

	for _, c := range bank.Categories {
		assert.NotEmpty(t, c.Questions, "category %q", c.ID)
	}
	_, ok := bank.Lookup("Geography")
	assert.True(t, ok)
}

func TestQuestion_Labels(t *testing.T) {
	q := Question{Options: []string{"w", "x", "y", "z"}, Answer: 2}

	assert.Equal(t, []string{"A", "B", "C", "D"}, q.Labels())
	assert.Equal(t, "C", q.CorrectLabel())
	assert.True(t, q.IsCorrect("C"))
	assert.False(t, q.IsCorrect("c"))

	i, ok := q.IndexOf("D")
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	for _, bad := range []string{"", "E", "a", "AB", "1"} {
		_, ok := q.IndexOf(bad)
		assert.False(t, ok, "label %q", bad)
	}
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
		ok    bool
	}{
		{"a", 4, "A", true},
		{"D", 4, "D", true},
		{"1", 4, "A", true},
		{"4", 4, "D", true},
		{"e", 4, "", false},
		{"5", 4, "", false},
		{"0", 4, "", false},
		{"12", 12, "L", true},
		{"enter", 4, "", false},
		{"?", 4, "", false},
		{"", 4, "", false},
	}
	for _, tt := range tests {
		got, ok := ParseLabel(tt.input, tt.n)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
	}
}
