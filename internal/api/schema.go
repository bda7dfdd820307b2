package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const maxBodyBytes = 1 << 20

// requestError is a malformed or schema-invalid request body.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

const assessmentRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["model_id"],
  "properties": {
    "model_id": {"type": "integer", "minimum": 1},
    "storage_gb": {"type": "integer", "minimum": 0},
    "answers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["condition_id", "answer_option_id"],
        "properties": {
          "condition_id": {"type": "integer"},
          "answer_option_id": {"type": "integer"}
        }
      }
    }
  }
}`

const judgmentsSchema = `{
  "type": "object",
  "required": ["physical_functional", "physical_age", "functional_age"],
  "properties": {
    "physical_functional": {"type": "number", "exclusiveMinimum": 0},
    "physical_age": {"type": "number", "exclusiveMinimum": 0},
    "functional_age": {"type": "number", "exclusiveMinimum": 0}
  }
}`

// Matrix shape and entry checks are left to the solver so its errors reach
// the caller unchanged.
const matrixSchema = `{
  "type": "array",
  "items": {"type": "array", "items": {"type": "number"}}
}`

var ahpRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "matrix": ` + matrixSchema + `,
    "judgments": ` + judgmentsSchema + `
  },
  "anyOf": [{"required": ["matrix"]}, {"required": ["judgments"]}]
}`

var pathRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 255},
    "description_template": {"type": "string"},
    "weights": {
      "type": "object",
      "required": ["physical", "functional", "age"],
      "properties": {
        "physical": {"type": "number", "minimum": 0},
        "functional": {"type": "number", "minimum": 0},
        "age": {"type": "number", "minimum": 0}
      }
    },
    "matrix": ` + matrixSchema + `,
    "judgments": ` + judgmentsSchema + `
  },
  "anyOf": [{"required": ["weights"]}, {"required": ["matrix"]}, {"required": ["judgments"]}]
}`

const feedbackRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["assessment_id", "rate"],
  "properties": {
    "assessment_id": {"type": "string", "format": "uuid"},
    "rate": {"type": "integer", "minimum": 1, "maximum": 5},
    "comment": {"type": "string", "maxLength": 2000}
  }
}`

var (
	assessmentSchema = mustSchema(assessmentRequestSchema)
	ahpSchema        = mustSchema(ahpRequestSchema)
	pathSchema       = mustSchema(pathRequestSchema)
	feedbackSchema   = mustSchema(feedbackRequestSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile request schema: %v", err))
	}
	return s
}

// decodeValid reads the request body, validates it against schema and
// decodes it into dst.
func decodeValid(r *http.Request, schema *gojsonschema.Schema, dst interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return &requestError{msg: "read request body: " + err.Error()}
	}
	if !json.Valid(body) {
		return &requestError{msg: "invalid request body"}
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return &requestError{msg: "validation error: " + err.Error()}
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &requestError{msg: "invalid request: " + strings.Join(errs, "; ")}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &requestError{msg: "invalid request body: " + err.Error()}
	}
	return nil
}
