package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// escapeLike neutralises LIKE metacharacters so user-supplied search
// terms match literal substrings only.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// containsPattern builds a case-insensitive substring pattern.
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The unique indexes are the authoritative backstop for the
// application-level existence checks.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// violation, i.e. a write referencing a row that does not exist.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}
