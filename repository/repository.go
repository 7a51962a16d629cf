package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert violates a unique constraint.
var ErrDuplicate = errors.New("record already exists")

// DefaultQueryTimeout bounds every store round trip when no timeout is configured.
const DefaultQueryTimeout = 5 * time.Second

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// store is embedded by every repository; it bounds each query by the configured timeout
// so a request never waits on the database indefinitely.
type store struct {
	DB      *sql.DB
	timeout time.Duration
}

func newStore(db *sql.DB, timeout time.Duration) store {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return store{DB: db, timeout: timeout}
}

func (s store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isForeignKeyViolation reports an insert that referenced a row which does not exist.
func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

// affectedOrNotFound turns an UPDATE/DELETE that touched no row into sql.ErrNoRows.
func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
