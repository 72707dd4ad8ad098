package shell

import (
	"context"
	"io"

	"github.com/nibzard/tickoff/internal/todo"
)

// Todo is the interactive task menu.
type Todo struct {
	s     *session
	tasks *todo.Manager
}

// NewTodo returns a task shell reading from in and writing to out.
func NewTodo(tasks *todo.Manager, in io.Reader, out io.Writer, opts ...Option) *Todo {
	return &Todo{s: newSession(in, out, opts), tasks: tasks}
}

// Run shows the menu until the user exits or input ends.
func (t *Todo) Run(ctx context.Context) error {
	return t.s.loop(ctx, []menu{
		{"Add Task", t.add},
		{"View Tasks", t.view},
		{"Mark Task as Completed", t.complete},
		{"Exit", nil},
	})
}

func (t *Todo) add() {
	title, ok := t.s.ask("Enter task title: ")
	if !ok {
		return
	}
	deadline, ok := t.s.ask("Enter deadline (YYYY-MM-DD) or leave blank: ")
	if !ok {
		return
	}
	if _, err := t.tasks.Add(title, deadline); err != nil {
		t.s.reportError(err)
		return
	}
	t.s.println("Task added successfully!")
	t.s.println()
}

func (t *Todo) view() {
	tasks := t.tasks.List()
	if len(tasks) == 0 {
		t.s.println("No tasks to show!")
		t.s.println()
		return
	}

	t.s.println()
	t.s.println("Your Tasks:")
	for i, task := range tasks {
		status := "[ ]"
		if task.Completed {
			status = "[X]"
		}
		line := task.Title
		if task.HasDeadline() {
			line += " (Deadline: " + task.DeadlineOrEmpty() + ")"
		}
		t.s.printf("%d. %s %s\n", i+1, status, line)
	}
	t.s.println()
}

func (t *Todo) complete() {
	t.view()
	n, valid, ok := t.s.askNumber("Enter task number to mark as completed: ")
	if !ok || !valid {
		return
	}
	done, err := t.tasks.MarkComplete(n)
	switch {
	case err != nil:
		t.s.reportError(err)
	case done:
		t.s.println("Task marked as completed!")
		t.s.println()
	default:
		t.s.println("Invalid task number!")
		t.s.println()
	}
}
