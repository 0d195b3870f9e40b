// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Provides user/task persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Foreign keys must be on for the users -> tasks cascade
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'INCOMPLETE',
			due_date DATETIME NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_owner_id
			ON tasks(owner_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser persists a new user. The email must not already be registered;
// matching is exact (case-sensitive), so the duplicate check rides on the
// UNIQUE constraint rather than a separate lookup.
func (s *SQLiteStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	now := time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
	`, email, passwordHash, now.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading user id: %w", err)
	}

	s.logger.Debug("created user", "user_id", id)
	return &User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *SQLiteStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &u, nil
}

// GetUserByEmail retrieves a user by exact email match
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = ?
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return &u, nil
}

// ListUsers lists users in ascending id order, up to limit
func (s *SQLiteStore) ListUsers(ctx context.Context, limit int) ([]*User, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users ORDER BY id ASC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []*User
	for rows.Next() {
		var u User
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of registered users
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// DeleteUser removes a user. Their tasks are removed by the foreign key cascade.
func (s *SQLiteStore) DeleteUser(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted user", "user_id", id)
	return nil
}

// CreateTask persists a new task for task.OwnerID. Status defaults to
// INCOMPLETE and both timestamps are set to the creation instant.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = StatusIncomplete
	}

	var description *string
	if task.Description != "" {
		description = &task.Description
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (owner_id, title, description, status, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, task.OwnerID, task.Title, description, task.Status,
		task.DueDate.UTC().Format(time.RFC3339Nano),
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading task id: %w", err)
	}
	task.ID = id

	s.logger.Debug("created task", "task_id", id, "owner_id", task.OwnerID)
	return task, nil
}

// scanTask scans a task row with string time columns
func scanTask(scan func(dest ...any) error) (*Task, error) {
	var t Task
	var description sql.NullString
	var dueDate, createdAt, updatedAt string

	if err := scan(&t.ID, &t.OwnerID, &t.Title, &description, &t.Status, &dueDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.Description = description.String
	t.DueDate, _ = time.Parse(time.RFC3339Nano, dueDate)
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &t, nil
}

// ListTasks lists tasks owned by ownerID in ascending id order,
// skipping skip rows and returning at most limit
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID int64, skip, limit int) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE owner_id = ?
		ORDER BY id ASC LIMIT ? OFFSET ?
	`, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id, scoped to ownerID
func (s *SQLiteStore) GetTask(ctx context.Context, id, ownerID int64) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTask applies a partial update to a task owned by ownerID and
// refreshes updated_at. Nil fields in update are left unchanged.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id, ownerID int64, update TaskUpdate) (*Task, error) {
	t, err := s.GetTask(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.DueDate != nil {
		t.DueDate = update.DueDate.UTC()
	}
	t.UpdatedAt = time.Now().UTC()

	var description *string
	if t.Description != "" {
		description = &t.Description
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, status = ?, due_date = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`, t.Title, description, t.Status,
		t.DueDate.Format(time.RFC3339Nano), t.UpdatedAt.Format(time.RFC3339Nano),
		id, ownerID)
	if err != nil {
		return nil, err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return nil, ErrNotFound
	}

	return t, nil
}

// DeleteTask removes a task owned by ownerID
func (s *SQLiteStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted task", "task_id", id, "owner_id", ownerID)
	return nil
}
