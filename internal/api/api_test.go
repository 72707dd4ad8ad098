package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/nibzard/tickoff/internal/store"
	"github.com/nibzard/tickoff/internal/todo"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type failingBackend struct{}

func (failingBackend) Load() ([]todo.Task, error) { return []todo.Task{}, nil }
func (failingBackend) Save([]todo.Task) error     { return errors.New("disk full") }

func newTestRouter(t *testing.T, backend store.Backend[todo.Task]) (*gin.Engine, *todo.Manager) {
	t.Helper()
	n := 0
	m, err := todo.NewManager(backend,
		todo.WithClock(func() time.Time { return time.Date(2025, time.March, 5, 9, 0, 0, 0, time.Local) }),
		todo.WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	logger := log.New(io.Discard)
	return NewRouter(NewTaskHandler(m, logger), logger), m
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	r, _ := newTestRouter(t, store.NewMemory[todo.Task]())
	w := do(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "ok" {
		t.Errorf("body: got %v", got)
	}
}

func TestAddAndListTasks(t *testing.T) {
	r, _ := newTestRouter(t, store.NewMemory[todo.Task]())

	w := do(t, r, http.MethodGet, "/tasks/", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list: got %d %q", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodPost, "/tasks/", `{"title": "Write report", "deadline": "2025-03-10"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("POST status: got %d %s", w.Code, w.Body.String())
	}
	if got := decode[map[string]string](t, w); got["message"] != "Task added successfully" {
		t.Errorf("POST body: got %v", got)
	}

	do(t, r, http.MethodPost, "/tasks/", `{"title": "Imported", "completed": true, "created_at": "2024-01-01 00:00:00.000000"}`)

	tasks := decode[[]todo.Task](t, do(t, r, http.MethodGet, "/tasks/", ""))
	deadline := "2025-03-10"
	want := []todo.Task{
		{ID: "id-1", Title: "Write report", Deadline: &deadline, CreatedAt: "2025-03-05 09:00:00.000000"},
		{ID: "id-2", Title: "Imported", Completed: true, CreatedAt: "2024-01-01 00:00:00.000000"},
	}
	if diff := cmp.Diff(want, tasks); diff != "" {
		t.Errorf("tasks (-want +got):\n%s", diff)
	}
}

func TestAddTaskInvalidPayload(t *testing.T) {
	r, m := newTestRouter(t, store.NewMemory[todo.Task]())

	for name, body := range map[string]string{
		"not json":       `title=x`,
		"missing title":  `{"deadline": "2025-03-10"}`,
		"wrong type":     `{"title": 5}`,
		"bad completed":  `{"title": "x", "completed": "yes"}`,
		"array not task": `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/tasks/", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d", w.Code)
			}
			if got := decode[map[string]string](t, w); got["error"] != "invalid task payload" {
				t.Errorf("body: got %v", got)
			}
		})
	}
	if m.Len() != 0 {
		t.Errorf("Len: got %d, want 0", m.Len())
	}
}

func TestCompleteTask(t *testing.T) {
	r, m := newTestRouter(t, store.NewMemory[todo.Task]())
	for _, title := range []string{"a", "b"} {
		if _, err := m.Add(title, ""); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"by position", "2", "Task completed"},
		{"by id", "id-1", "Task completed"},
		{"again", "2", "Task completed"},
		{"position zero", "0", "ID not found"},
		{"past end", "3", "ID not found"},
		{"negative", "-1", "ID not found"},
		{"unknown id", "nope", "ID not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPut, "/tasks/"+tt.ref+"/complete/", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d", w.Code)
			}
			if got := decode[map[string]string](t, w); got["message"] != tt.want {
				t.Errorf("message: got %q, want %q", got["message"], tt.want)
			}
		})
	}

	for i, task := range m.List() {
		if !task.Completed {
			t.Errorf("task %d should be completed", i+1)
		}
	}
}

func TestStorageFailure(t *testing.T) {
	r, _ := newTestRouter(t, failingBackend{})

	w := do(t, r, http.MethodPost, "/tasks/", `{"title": "x"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := decode[map[string]string](t, w); !strings.Contains(got["error"], "disk full") {
		t.Errorf("body: got %v", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	r, _ := newTestRouter(t, store.NewMemory[todo.Task]())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	srv := NewServer(ln.Addr().String(), r, log.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	srv := NewServer(busy.Addr().String(), http.NotFoundHandler(), log.New(io.Discard))
	if err := srv.Run(context.Background()); err == nil {
		t.Error("expected listen error for an address in use")
	}
}
