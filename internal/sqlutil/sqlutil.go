package sqlutil

import (
	"database/sql"
	"strings"
)

// LikeEscape is the escape character used by EscapeLike. Queries using the
// escaped value must declare it with `ESCAPE '\'`.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards in s so it matches literally.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// PrefixPattern returns a LIKE pattern matching values that start with s.
func PrefixPattern(s string) string {
	return EscapeLike(s) + "%"
}

// ContainsPattern returns a LIKE pattern matching values that contain s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// ScanRows scans all rows into a slice using the provided scanner.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
