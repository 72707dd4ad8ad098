package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Backend loads and saves an ordered list of records.
type Backend[T any] interface {
	Load() ([]T, error)
	Save(records []T) error
}

// ParseError reports a record file that exists but cannot be used.
type ParseError struct {
	File string // Path of the offending file
	Path string // JSON path inside the document, if known
	Err  error  // Underlying error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("parse %s: %s: %s", e.File, e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileOption configures a File backend.
type FileOption func(*fileConfig)

type fileConfig struct {
	schema *Schema
	logger *log.Logger
}

// WithSchema validates every loaded document against s.
func WithSchema(s Schema) FileOption {
	return func(c *fileConfig) {
		c.schema = &s
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) FileOption {
	return func(c *fileConfig) {
		c.logger = logger
	}
}

// File is a Backend that keeps records in a JSON file.
type File[T any] struct {
	path   string
	schema *jsonschema.Schema
	logger *log.Logger
}

// NewFile returns a file backend for path. The file is not touched until
// Load or Save is called.
func NewFile[T any](path string, opts ...FileOption) (*File[T], error) {
	if path == "" {
		return nil, fmt.Errorf("record file path is empty")
	}

	c := &fileConfig{}
	for _, opt := range opts {
		opt(c)
	}

	f := &File[T]{
		path:   path,
		logger: c.logger,
	}
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	if c.schema != nil {
		compiled, err := c.schema.compile()
		if err != nil {
			return nil, err
		}
		f.schema = compiled
	}
	return f, nil
}

// Path returns the backing file path.
func (f *File[T]) Path() string {
	return f.path
}

// Load reads all records. A missing file yields an empty slice.
func (f *File[T]) Load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug("record file not found, starting empty", "path", f.path)
			return []T{}, nil
		}
		return nil, fmt.Errorf("read record file: %w", err)
	}

	records, err := decode[T](data, f.schema)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = f.path
		}
		return nil, err
	}

	f.logger.Debug("loaded records", "path", f.path, "count", len(records))
	return records, nil
}

// Save overwrites the file with records.
func (f *File[T]) Save(records []T) error {
	data, err := encode(records)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create record dir: %w", err)
		}
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("write record file: %w", err)
	}

	f.logger.Debug("saved records", "path", f.path, "count", len(records))
	return nil
}

// encode renders records as an indented JSON array with a trailing newline.
func encode[T any](records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("marshal records: %w", err)
	}
	return buf.Bytes(), nil
}

func decode[T any](data []byte, schema *jsonschema.Schema) ([]T, error) {
	if schema != nil {
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Err: err}
		}
		if err := schema.Validate(doc); err != nil {
			return nil, schemaError(err)
		}
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
