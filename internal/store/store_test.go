package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type record struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	Tags      []string `json:"tags,omitempty"`
}

func newTestFile(t *testing.T, opts ...FileOption) *File[record] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	f, err := NewFile[record](path, opts...)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	return f
}

func TestLoadMissingFile(t *testing.T) {
	f := newTestFile(t)

	records, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if records == nil {
		t.Fatal("Load returned nil slice, want empty")
	}
	if len(records) != 0 {
		t.Errorf("records: got %d, want 0", len(records))
	}
	if _, err := os.Stat(f.Path()); !os.IsNotExist(err) {
		t.Errorf("Load should not create the file, stat err = %v", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	f := newTestFile(t)

	original := []record{
		{ID: "a", Title: "First", Completed: true},
		{ID: "b", Title: "Second", Tags: []string{"x", "y"}},
		{ID: "c", Title: "Third & <last>"},
	}
	if err := f.Save(original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(original, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveFormat(t *testing.T) {
	f := newTestFile(t)

	if err := f.Save([]record{{ID: "a", Title: "Milk & eggs"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, "[\n    {\n        \"id\"") {
		t.Errorf("expected 4-space indentation, got:\n%s", content)
	}
	if !strings.HasSuffix(content, "]\n") {
		t.Error("expected trailing newline")
	}
	if !strings.Contains(content, "Milk & eggs") {
		t.Error("expected HTML characters to be written verbatim")
	}
	id := strings.Index(content, `"id"`)
	title := strings.Index(content, `"title"`)
	completed := strings.Index(content, `"completed"`)
	if !(id < title && title < completed) {
		t.Errorf("field order not preserved: id=%d title=%d completed=%d", id, title, completed)
	}
}

func TestSaveNilWritesEmptyArray(t *testing.T) {
	f := newTestFile(t)

	if err := f.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got := string(data); got != "[]\n" {
		t.Errorf("content: got %q, want %q", got, "[]\n")
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "records.json")
	f, err := NewFile[record](path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}
	if err := f.Save([]record{{Title: "x"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestLoadMalformed(t *testing.T) {
	f := newTestFile(t)
	if err := os.WriteFile(f.Path(), []byte(`[{"title": "oops",`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := f.Load()
	if err == nil {
		t.Fatal("expected error for malformed file")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.File != f.Path() {
		t.Errorf("File: got %q, want %q", pe.File, f.Path())
	}
	if pe.Unwrap() == nil {
		t.Error("expected underlying error")
	}
}

func TestLoadWrongShape(t *testing.T) {
	f := newTestFile(t)
	if err := os.WriteFile(f.Path(), []byte(`{"title": "not an array"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := f.Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoadNullDocument(t *testing.T) {
	f := newTestFile(t)
	if err := os.WriteFile(f.Path(), []byte("null\n"), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := f.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("records: got %#v, want empty slice", records)
	}
}

func TestLoadReadError(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile[record](dir)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	_, err = f.Load()
	if err == nil {
		t.Fatal("expected error when path is a directory")
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		t.Errorf("read errors should not be ParseError: %v", err)
	}
}

func TestNewFileEmptyPath(t *testing.T) {
	if _, err := NewFile[record](""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestLoadWithSchema(t *testing.T) {
	tests := []struct {
		name     string
		schema   Schema
		content  string
		wantErr  bool
		wantPath string
	}{
		{
			name:    "valid tasks",
			schema:  TaskSchema,
			content: `[{"title": "a", "deadline": null, "completed": false, "created_at": "2025-03-05 10:00:00.000000"}]`,
		},
		{
			name:     "task missing title",
			schema:   TaskSchema,
			content:  `[{"title": "a"}, {"completed": true}]`,
			wantErr:  true,
			wantPath: "[1]",
		},
		{
			name:     "task completed wrong type",
			schema:   TaskSchema,
			content:  `[{"title": "a", "completed": "yes"}]`,
			wantErr:  true,
			wantPath: "[0].completed",
		},
		{
			name:    "valid habits",
			schema:  HabitSchema,
			content: `[{"title": "Run", "regularity": "daily", "completed_on": ["2025-03-05"]}]`,
		},
		{
			name:     "habit invalid regularity",
			schema:   HabitSchema,
			content:  `[{"title": "Run", "regularity": "hourly", "completed_on": []}]`,
			wantErr:  true,
			wantPath: "[0].regularity",
		},
		{
			name:    "top level not array",
			schema:  HabitSchema,
			content: `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "records.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			f, err := NewFile[map[string]any](path, WithSchema(tt.schema))
			if err != nil {
				t.Fatalf("NewFile failed: %v", err)
			}

			_, err = f.Load()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Load failed: %v", err)
				}
				return
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if tt.wantPath != "" && pe.Path != tt.wantPath {
				t.Errorf("Path: got %q, want %q (err: %v)", pe.Path, tt.wantPath, err)
			}
		})
	}
}

func TestSchemasCompile(t *testing.T) {
	for _, s := range []Schema{TaskSchema, HabitSchema} {
		if _, err := s.compile(); err != nil {
			t.Errorf("%s: %v", s.Name, err)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/0/regularity", "[0].regularity"},
		{"#/2/completed_on/1", "[2].completed_on[1]"},
		{"/a~1b/c~0d", "a/b.c~d"},
	}
	for _, tt := range tests {
		if got := jsonPointerToPath(tt.in); got != tt.want {
			t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{File: "tasks.json", Path: "[0].title", Err: errors.New("missing")}
	if got, want := err.Error(), "parse tasks.json: [0].title: missing"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
	err.Path = ""
	if got, want := err.Error(), "parse tasks.json: missing"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemory[record]()

	records, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("initial Load: got %#v, want empty slice", records)
	}

	saved := []record{{ID: "a", Title: "First", Tags: []string{"one"}}}
	if err := m.Save(saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the caller's slice must not leak into the snapshot.
	saved[0].Title = "changed"
	saved[0].Tags[0] = "changed"

	loaded, err := m.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []record{{ID: "a", Title: "First", Tags: []string{"one"}}}
	if diff := cmp.Diff(want, loaded); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestBackendInterface(t *testing.T) {
	var _ Backend[record] = (*File[record])(nil)
	var _ Backend[record] = (*Memory[record])(nil)
}
