package database

import "strings"

// QueryBuilder rewrites queries written with ? placeholders for a dialect.
type QueryBuilder struct {
	dialect Dialect
	schema  *strings.Replacer
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{
		dialect: dialect,
		schema: strings.NewReplacer(
			"{{serial}}", dialect.SerialPrimaryKey(),
			"{{json}}", dialect.JSONType(),
		),
	}
}

// Build converts ? placeholders to the dialect's placeholders.
//
//	input:    "SELECT slot FROM results WHERE run_id = ? AND slot = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT slot FROM results WHERE run_id = $1 AND slot = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}

// BuildWithReturning appends a RETURNING clause if the dialect needs one to
// report the inserted id.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted += qb.dialect.ReturningClause(column)
	}
	return converted
}

// Schema expands the DDL markers: {{serial}} becomes the dialect's id
// column and {{json}} its JSON column type.
func (qb *QueryBuilder) Schema(ddl string) string {
	return qb.schema.Replace(ddl)
}
