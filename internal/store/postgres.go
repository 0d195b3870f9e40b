// ABOUTME: PostgreSQL implementation of the Store interface using pgx
// ABOUTME: Mirrors the SQLite store semantics over a pgxpool connection pool

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the Postgres error code for unique_violation
const pgUniqueViolation = "23505"

// PostgresStore implements the Store interface using PostgreSQL
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to the database at dsn and creates the
// schema if it doesn't exist.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	logger := slog.Default().With("component", "store")

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &PostgresStore{
		pool:   pool,
		logger: logger,
	}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("Postgres store initialized")
	return s, nil
}

// migrate creates the tables if they don't exist
func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            BIGSERIAL PRIMARY KEY,
			email         TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id          BIGSERIAL PRIMARY KEY,
			owner_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title       TEXT NOT NULL,
			description TEXT,
			status      TEXT NOT NULL DEFAULT 'INCOMPLETE',
			due_date    TIMESTAMPTZ NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);
	`)
	return err
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func isPgUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateUser persists a new user, failing with ErrDuplicateEmail on an
// exact email collision
func (s *PostgresStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, email, passwordHash).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if isPgUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Debug("created user", "user_id", u.ID)
	return &u, nil
}

// GetUserByID retrieves a user by ID
func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by exact email match
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers lists users in ascending id order, up to limit
func (s *PostgresStore) ListUsers(ctx context.Context, limit int) ([]*User, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users ORDER BY id ASC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

// CountUsers returns the total number of registered users
func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// DeleteUser removes a user. Their tasks are removed by the foreign key cascade.
func (s *PostgresStore) DeleteUser(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted user", "user_id", id)
	return nil
}

// CreateTask persists a new task for task.OwnerID
func (s *PostgresStore) CreateTask(ctx context.Context, task *Task) (*Task, error) {
	if task.Status == "" {
		task.Status = StatusIncomplete
	}

	var description *string
	if task.Description != "" {
		description = &task.Description
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO tasks (owner_id, title, description, status, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, task.OwnerID, task.Title, description, task.Status, task.DueDate.UTC()).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Debug("created task", "task_id", task.ID, "owner_id", task.OwnerID)
	return task, nil
}

// ListTasks lists tasks owned by ownerID in ascending id order
func (s *PostgresStore) ListTasks(ctx context.Context, ownerID int64, skip, limit int) ([]*Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE owner_id = $1
		ORDER BY id ASC LIMIT $2 OFFSET $3
	`, ownerID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		var t Task
		var description *string
		if err := rows.Scan(&t.ID, &t.OwnerID, &t.Title, &description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if description != nil {
			t.Description = *description
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// GetTask retrieves a task by id, scoped to ownerID
func (s *PostgresStore) GetTask(ctx context.Context, id, ownerID int64) (*Task, error) {
	var t Task
	var description *string
	err := s.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, status, due_date, created_at, updated_at
		FROM tasks WHERE id = $1 AND owner_id = $2
	`, id, ownerID).Scan(&t.ID, &t.OwnerID, &t.Title, &description, &t.Status, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if description != nil {
		t.Description = *description
	}
	return &t, nil
}

// UpdateTask applies a partial update to a task owned by ownerID
func (s *PostgresStore) UpdateTask(ctx context.Context, id, ownerID int64, update TaskUpdate) (*Task, error) {
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

	var description *string
	if t.Description != "" {
		description = &t.Description
	}

	err = s.pool.QueryRow(ctx, `
		UPDATE tasks SET title = $1, description = $2, status = $3, due_date = $4, updated_at = NOW()
		WHERE id = $5 AND owner_id = $6
		RETURNING updated_at
	`, t.Title, description, t.Status, t.DueDate, id, ownerID).Scan(&t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return t, nil
}

// DeleteTask removes a task owned by ownerID
func (s *PostgresStore) DeleteTask(ctx context.Context, id, ownerID int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.logger.Debug("deleted task", "task_id", id, "owner_id", ownerID)
	return nil
}
