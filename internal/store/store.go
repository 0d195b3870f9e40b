// ABOUTME: Store interface and data types for taskhive persistence
// ABOUTME: Defines User, Task structs and the Store interface for database operations

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
// Task lookups scoped to an owner return ErrNotFound both for missing
// tasks and for tasks owned by someone else; callers cannot tell the
// two cases apart.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already taken
var ErrDuplicateEmail = errors.New("email already registered")

// TaskStatus represents the completion state of a task
type TaskStatus string

const (
	StatusIncomplete TaskStatus = "INCOMPLETE"
	StatusComplete   TaskStatus = "COMPLETE"
)

// ValidTaskStatuses lists all valid task statuses
var ValidTaskStatuses = []TaskStatus{
	StatusIncomplete,
	StatusComplete,
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	for _, v := range ValidTaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// User represents a registered account. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Task represents a to-do item owned by a single user
type Task struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskUpdate carries a partial update. Nil fields are left unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
}

// Store is the persistence interface for users and tasks
type Store interface {
	// Users
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, limit int) ([]*User, error)
	CountUsers(ctx context.Context) (int, error)
	DeleteUser(ctx context.Context, id int64) error

	// Tasks. Get/Update/Delete are scoped to ownerID: a task that exists
	// but belongs to a different owner behaves exactly like a missing one.
	CreateTask(ctx context.Context, task *Task) (*Task, error)
	ListTasks(ctx context.Context, ownerID int64, skip, limit int) ([]*Task, error)
	GetTask(ctx context.Context, id, ownerID int64) (*Task, error)
	UpdateTask(ctx context.Context, id, ownerID int64, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, id, ownerID int64) error

	Close() error
}
