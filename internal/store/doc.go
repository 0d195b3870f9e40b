// Package store provides persistent storage for taskhive users and tasks.
//
// # Architecture
//
// The Store interface covers user and task operations; two implementations
// share it:
//
//   - SQLiteStore: zero-dependency file database via modernc.org/sqlite
//   - PostgresStore: pgx connection pool for shared deployments
//
// Both create their schema on construction; there is no separate migration
// tool.
//
// # Ownership scoping
//
// Task reads and mutations take an ownerID and match it in the WHERE clause.
// A task belonging to a different owner is indistinguishable from a missing
// task: both yield ErrNotFound. This is deliberate; callers must not be able
// to confirm that another user's task exists.
//
// # SQLite configuration
//
// The SQLite store runs with:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Foreign keys are required for the users -> tasks delete cascade. Timestamps
// are stored as RFC 3339 strings with nanosecond precision.
//
// # Error handling
//
//   - ErrNotFound: entity does not exist (or is not yours, for tasks)
//   - ErrDuplicateEmail: registration with an already-taken email
//
// All methods accept context.Context for cancellation support.
package store
