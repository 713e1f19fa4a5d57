package query

import (
	"strings"

	"github.com/pkg/errors"
)

// ReadQuery retrieves data via an InfluxQL string, e.g. a SELECT statement.
type ReadQuery struct {
	q string
}

// Read returns a ReadQuery for the given InfluxQL text.
func Read(q string) *ReadQuery {
	return &ReadQuery{q: q}
}

// Build returns the InfluxQL text verbatim. An empty query is invalid.
func (q *ReadQuery) Build() (string, error) {
	if strings.TrimSpace(q.q) == "" {
		return "", errors.New("empty read query")
	}
	return q.q, nil
}

// ReadOnly reports whether the statement only reads data. The v1 API wants
// SELECT and SHOW statements sent with GET; everything else (e.g. CREATE
// DATABASE, DROP) goes over POST.
func (q *ReadQuery) ReadOnly() bool {
	return strings.Contains(q.q, "SELECT") || strings.Contains(q.q, "SHOW")
}
