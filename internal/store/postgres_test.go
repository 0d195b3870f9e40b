// ABOUTME: Integration tests for the Postgres store, gated on a DSN env var
// ABOUTME: Skipped unless TASKHIVE_TEST_POSTGRES_DSN points at a disposable database

package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

// newPostgresTestStore connects to the database named by
// TASKHIVE_TEST_POSTGRES_DSN, skipping the test when unset. Tables are
// emptied so each test starts clean.
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()

	dsn := os.Getenv("TASKHIVE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TASKHIVE_TEST_POSTGRES_DSN not set")
	}

	s, err := NewPostgresStore(context.Background(), dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.pool.Exec(context.Background(), `TRUNCATE users CASCADE`); err != nil {
		t.Fatalf("truncating tables: %v", err)
	}
	return s
}

func TestPostgres_UserRoundTrip(t *testing.T) {
	s := newPostgresTestStore(t)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "a@x.com", "hash-a")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("expected a generated id")
	}

	if _, err := s.CreateUser(ctx, "a@x.com", "hash-b"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash-a" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestPostgres_TaskOwnershipAndCascade(t *testing.T) {
	s := newPostgresTestStore(t)
	ctx := context.Background()

	alice, err := s.CreateUser(ctx, "alice@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	bob, err := s.CreateUser(ctx, "bob@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	task, err := s.CreateTask(ctx, &Task{
		OwnerID: alice.ID,
		Title:   "T",
		DueDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	if task.Status != StatusIncomplete {
		t.Errorf("expected default status INCOMPLETE, got %s", task.Status)
	}

	if _, err := s.GetTask(ctx, task.ID, bob.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign task, got %v", err)
	}

	status := StatusComplete
	updated, err := s.UpdateTask(ctx, task.ID, alice.ID, TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTask failed: %v", err)
	}
	if updated.Status != StatusComplete || updated.Title != "T" {
		t.Errorf("unexpected task: %+v", updated)
	}

	if err := s.DeleteUser(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := s.GetTask(ctx, task.ID, alice.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected cascade to remove the task, got %v", err)
	}
}

func TestPostgres_ListTasksSkipLimit(t *testing.T) {
	s := newPostgresTestStore(t)
	ctx := context.Background()

	owner, err := s.CreateUser(ctx, "a@x.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := s.CreateTask(ctx, &Task{
			OwnerID: owner.ID,
			Title:   fmt.Sprintf("task %d", i),
			DueDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		}); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	tasks, err := s.ListTasks(ctx, owner.ID, 2, 2)
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Title != "task 2" || tasks[1].Title != "task 3" {
		t.Errorf("unexpected page: %q, %q", tasks[0].Title, tasks[1].Title)
	}
}
