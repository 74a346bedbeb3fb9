package database

import (
	"strings"
)

// InsertStatement builds "INSERT INTO table (a, b) VALUES (@a, @b) RETURNING id"
// for the given columns. Column names must come from an allow-list, never
// from user input.
func InsertStatement(table string, columns []string) string {
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		placeholders[i] = "@" + c
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(placeholders, ", "))
	b.WriteString(") RETURNING id")

	return b.String()
}

// UpdateStatement builds "UPDATE table SET a = @a, b = @b WHERE key = @key"
// for the given columns.
func UpdateStatement(table string, columns []string, key string) string {
	assignments := make([]string, len(columns))
	for i, c := range columns {
		assignments[i] = c + " = @" + c
	}

	return "UPDATE " + table + " SET " + strings.Join(assignments, ", ") +
		" WHERE " + key + " = @" + key
}

// NullIfEmpty maps the empty string to SQL NULL.
func NullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

// EscapeLike escapes the LIKE wildcards in s so it matches literally.
// The statement must not override the default backslash escape character.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
