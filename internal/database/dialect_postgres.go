package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// PostgresDialect implements Dialect for the lib/pq driver.
type PostgresDialect struct{}

func (d *PostgresDialect) DriverName() string {
	return "postgres"
}

// Placeholder returns "$N" for the given position.
func (d *PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (d *PostgresDialect) SupportsLastInsertID() bool {
	return false
}

func (d *PostgresDialect) ReturningClause(column string) string {
	return fmt.Sprintf(" RETURNING %s", column)
}

// InitStatements is empty: foreign keys are always enforced.
func (d *PostgresDialect) InitStatements() []string {
	return nil
}

// IsDuplicateKeyError matches unique_violation (23505).
func (d *PostgresDialect) IsDuplicateKeyError(err error) bool {
	return violates(err, "23505", "duplicate key", "unique constraint")
}

// IsForeignKeyError matches foreign_key_violation (23503).
func (d *PostgresDialect) IsForeignKeyError(err error) bool {
	return violates(err, "23503", "violates foreign key constraint")
}

// violates checks the SQLSTATE of a driver error, falling back to the
// message for errors that were wrapped as text.
func violates(err error, code pq.ErrorCode, fragments ...string) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == code
	}
	msg := err.Error()
	if strings.Contains(msg, string(code)) {
		return true
	}
	for _, f := range fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}

func (d *PostgresDialect) SerialPrimaryKey() string {
	return "BIGSERIAL PRIMARY KEY"
}

func (d *PostgresDialect) JSONType() string {
	return "JSONB"
}
