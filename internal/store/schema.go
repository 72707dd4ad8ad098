package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/tasks.schema.json
var tasksSchema []byte

//go:embed schemas/habits.schema.json
var habitsSchema []byte

const schemaBaseURL = "https://github.com/nibzard/tickoff/schemas/"

// Schema is a JSON Schema document used to validate a record file.
type Schema struct {
	Name   string
	Source []byte
}

var (
	// TaskSchema describes tasks.json.
	TaskSchema = Schema{Name: "tasks.schema.json", Source: tasksSchema}
	// HabitSchema describes habits.json.
	HabitSchema = Schema{Name: "habits.schema.json", Source: habitsSchema}
)

func (s Schema) url() string {
	return schemaBaseURL + s.Name
}

func (s Schema) compile() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if err := compiler.AddResource(s.url(), bytes.NewReader(s.Source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", s.Name, err)
	}
	compiled, err := compiler.Compile(s.url())
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	return compiled, nil
}

// schemaError converts a validation failure into a ParseError pointing at the
// first leaf cause.
func schemaError(err error) *ParseError {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ParseError{Err: err}
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &ParseError{
		Path: jsonPointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}

// jsonPointerToPath turns "/0/regularity" into "[0].regularity".
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
