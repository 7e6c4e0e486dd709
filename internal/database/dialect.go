package database

// Dialect hides what differs between the SQLite and PostgreSQL stores:
// driver name, placeholders, how an inserted id comes back, column types
// in the schema and how constraint violations are reported.
type Dialect interface {
	// DriverName is the name registered with database/sql.
	DriverName() string

	// Placeholder renders the n-th bind parameter, counting from 1.
	Placeholder(n int) string

	// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
	// When it does not, inserts append ReturningClause.
	SupportsLastInsertID() bool
	ReturningClause(column string) string

	// InitStatements run once after the pool is opened.
	InitStatements() []string

	IsDuplicateKeyError(err error) bool

	// IsForeignKeyError reports a reference to a missing row, such as a
	// result naming a run that was never saved.
	IsForeignKeyError(err error) bool

	// SerialPrimaryKey and JSONType fill the {{serial}} and {{json}}
	// markers of the schema.
	SerialPrimaryKey() string
	JSONType() string
}

// DialectType names a store backend in configuration.
type DialectType string

const (
	DialectSQLite   DialectType = "sqlite"
	DialectPostgres DialectType = "postgres"
)

// NewDialect returns the dialect for t. Anything but "postgres" is SQLite.
func NewDialect(t DialectType) Dialect {
	if t == DialectPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}
