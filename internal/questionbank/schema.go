package questionbank

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// bankSchema accepts both wire shapes:
//
//	{"categories": [{"category": "...", "questions": [...]}]}
//	{"<category id>": [...]}
const bankSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "question": {
      "type": "object",
      "required": ["question", "options", "correct_answer", "difficulty"],
      "properties": {
        "question": {"type": "string", "minLength": 1},
        "options": {
          "type": "array",
          "minItems": 2,
          "maxItems": 26,
          "uniqueItems": true,
          "items": {"type": "string", "minLength": 1}
        },
        "correct_answer": {"type": "string", "minLength": 1},
        "difficulty": {"enum": ["Easy", "Medium", "Hard"]},
        "game_type": {"type": "string"}
      }
    },
    "questions": {
      "type": "array",
      "items": {"$ref": "#/$defs/question"}
    },
    "category": {
      "type": "object",
      "required": ["questions"],
      "anyOf": [{"required": ["category"]}, {"required": ["id"]}],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "category": {"type": "string", "minLength": 1},
        "name": {"type": "string"},
        "description": {"type": "string"},
        "questions": {"$ref": "#/$defs/questions"}
      }
    }
  },
  "anyOf": [
    {
      "type": "object",
      "required": ["categories"],
      "additionalProperties": false,
      "properties": {
        "categories": {"type": "array", "items": {"$ref": "#/$defs/category"}}
      }
    },
    {
      "type": "object",
      "additionalProperties": {"$ref": "#/$defs/questions"}
    }
  ]
}`

const schemaURL = "schema://quizmaster/question-bank.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// validateShape checks a parsed JSON document against the bank schema.
func validateShape(doc any) error {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(bankSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	if compileErr != nil {
		return fmt.Errorf("compile bank schema: %w", compileErr)
	}
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBank, err)
	}
	return nil
}
