package database

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "sqlite3" {
			t.Errorf("DriverName() = %v, want sqlite3", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if !dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return true for SQLite")
		}
	})

	t.Run("DSN enables foreign keys", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{Path: "tracker.db"})
		if !strings.HasPrefix(dsn, "file:tracker.db?") || !strings.Contains(dsn, "_foreign_keys=on") {
			t.Errorf("DSN() = %v, want foreign keys enabled", dsn)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "sqlite" {
			t.Errorf("MigrationsSubdir() = %v, want sqlite", got)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "postgres" {
			t.Errorf("DriverName() = %v, want postgres", got)
		}
	})

	t.Run("SupportsLastInsertId", func(t *testing.T) {
		if dialect.SupportsLastInsertId() {
			t.Error("SupportsLastInsertId() should return false for PostgreSQL")
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "postgres" {
			t.Errorf("MigrationsSubdir() = %v, want postgres", got)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		if got := dialect.DriverName(); got != "mysql" {
			t.Errorf("DriverName() = %v, want mysql", got)
		}
	})

	t.Run("DSN forces parseTime, multiStatements and clientFoundRows", func(t *testing.T) {
		dsn := dialect.DSN(DialectConfig{URL: "user:pass@tcp(localhost:3306)/tracker"})
		if !strings.Contains(dsn, "clientFoundRows=true") {
			t.Errorf("DSN() = %v, want clientFoundRows=true", dsn)
		}
		if !strings.Contains(dsn, "parseTime=true") {
			t.Errorf("DSN() = %v, want parseTime=true", dsn)
		}
		if !strings.Contains(dsn, "multiStatements=true") {
			t.Errorf("DSN() = %v, want multiStatements=true", dsn)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		if got := dialect.MigrationsSubdir(); got != "mysql" {
			t.Errorf("MigrationsSubdir() = %v, want mysql", got)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT * FROM users WHERE id = ?",
			expected: "SELECT * FROM users WHERE id = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO logs (user_id, course_id, duration) VALUES (?, ?, ?)",
			expected: "INSERT INTO logs (user_id, course_id, duration) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "UPDATE users SET name = ? WHERE id = ?",
			expected: "UPDATE users SET name = ? WHERE id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.RewriteQuery(tt.query); got != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name    string
		dialect Dialect
		err     error
		want    bool
	}{
		{
			name:    "sqlite unique",
			dialect: NewSQLiteDialect(),
			err:     sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
			want:    true,
		},
		{
			name:    "sqlite primary key wrapped",
			dialect: NewSQLiteDialect(),
			err:     fmt.Errorf("insert: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}),
			want:    true,
		},
		{
			name:    "sqlite foreign key",
			dialect: NewSQLiteDialect(),
			err:     sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey},
			want:    false,
		},
		{
			name:    "postgres unique",
			dialect: NewPostgresDialect(),
			err:     &pq.Error{Code: "23505"},
			want:    true,
		},
		{
			name:    "postgres other",
			dialect: NewPostgresDialect(),
			err:     &pq.Error{Code: "23503"},
			want:    false,
		},
		{
			name:    "mysql duplicate",
			dialect: NewMySQLDialect(),
			err:     &mysql.MySQLError{Number: 1062},
			want:    true,
		},
		{
			name:    "plain error",
			dialect: NewMySQLDialect(),
			err:     errors.New("boom"),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
