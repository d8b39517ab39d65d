package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema names for the bundled response schemas.
const (
	SchemaTaskList    = "task-list.schema.json"
	SchemaEnvelope    = "envelope.schema.json"
	SchemaChat        = "chat.schema.json"
	SchemaInsights    = "insights.schema.json"
	SchemaSuggestions = "suggestions.schema.json"
)

const bundledTaskListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title"],
    "properties": {
      "id": {"type": ["integer", "string"]},
      "title": {"type": "string"},
      "description": {"type": ["string", "null"]},
      "priority": {"type": ["string", "null"], "enum": ["low", "medium", "high", null]},
      "status": {"type": ["string", "null"], "enum": ["pending", "completed", null]},
      "due_date": {"type": ["string", "null"]}
    }
  }
}`

const bundledEnvelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "error": {"type": "string"}
  }
}`

const bundledChatSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "response": {"type": "string"},
    "error": {"type": "string"},
    "action_performed": {"type": "boolean"},
    "action_type": {"type": "string"}
  }
}`

const bundledInsightsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "insights": {"type": "string"},
    "error": {"type": "string"}
  }
}`

const bundledSuggestionsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "error": {"type": "string"},
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["task"],
        "properties": {
          "task": {"type": "string"},
          "priority": {"type": "string"}
        }
      }
    }
  }
}`

// schemaBaseURL prefixes resource names so the compiler treats them as
// absolute URLs instead of file paths.
const schemaBaseURL = "https://todoctl.dev/schemas/"

var bundledSchemas = map[string]string{
	SchemaTaskList:    bundledTaskListSchema,
	SchemaEnvelope:    bundledEnvelopeSchema,
	SchemaChat:        bundledChatSchema,
	SchemaInsights:    bundledInsightsSchema,
	SchemaSuggestions: bundledSuggestionsSchema,
}

// BundledSchema returns the raw JSON of a bundled schema.
func BundledSchema(name string) ([]byte, error) {
	s, ok := bundledSchemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown schema %q", name)
	}
	return []byte(s), nil
}

// SchemaNames lists the bundled schemas.
func SchemaNames() []string {
	return []string{SchemaTaskList, SchemaEnvelope, SchemaChat, SchemaInsights, SchemaSuggestions}
}

var (
	compileOnce sync.Once
	compiled    map[string]*jsonschema.Schema
	compileErr  error
)

// CompileSchemas compiles every bundled schema. It is called lazily by the
// client and directly by `todoctl doctor`.
func CompileSchemas() (map[string]*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		for name, src := range bundledSchemas {
			if err := compiler.AddResource(schemaBaseURL+name, strings.NewReader(src)); err != nil {
				compileErr = fmt.Errorf("add schema %s: %w", name, err)
				return
			}
		}
		out := make(map[string]*jsonschema.Schema, len(bundledSchemas))
		for name := range bundledSchemas {
			s, err := compiler.Compile(schemaBaseURL + name)
			if err != nil {
				compileErr = fmt.Errorf("compile schema %s: %w", name, err)
				return
			}
			out[name] = s
		}
		compiled = out
	})
	return compiled, compileErr
}

// SchemaError lists every violation found in one response.
type SchemaError struct {
	Schema     string
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not match %s: %s", e.Schema, strings.Join(e.Violations, "; "))
}

// validate checks a decoded JSON document against a bundled schema.
func validate(name string, doc any) error {
	schemas, err := CompileSchemas()
	if err != nil {
		return err
	}
	schema, ok := schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		se := &SchemaError{Schema: name}
		collectSchemaErrors(se, ve)
		return se
	}
	return nil
}

func collectSchemaErrors(se *SchemaError, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		path := jsonPointerToPath(err.InstanceLocation)
		if path == "" {
			path = "(root)"
		}
		se.Violations = append(se.Violations, fmt.Sprintf("%s: %s", path, err.Message))
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(se, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
