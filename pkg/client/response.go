package client

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/influxwire/influxwire/pkg/query"
)

// Series is one time series in a statement result.
type Series struct {
	Name    string            `json:"name"`
	Tags    map[string]string `json:"tags,omitempty"`
	Columns []string          `json:"columns"`
	Values  [][]interface{}   `json:"values"`
}

// Result is the outcome of a single statement.
type Result struct {
	StatementID int      `json:"statement_id"`
	Series      []Series `json:"series,omitempty"`
	Err         string   `json:"error,omitempty"`
}

// Response is the decoded body of a /query response.
type Response struct {
	Results []Result `json:"results"`
	Err     string   `json:"error,omitempty"`
}

// Error returns the first error reported by any statement, or nil.
func (r *Response) Error() error {
	if r.Err != "" {
		return errors.Wrap(ErrDatabase, r.Err)
	}
	for _, result := range r.Results {
		if result.Err != "" {
			return errors.Wrap(ErrDatabase, result.Err)
		}
	}
	return nil
}

// QueryTyped runs a read query and decodes the JSON response body, replacing
// Query's substring-based error detection with the errors the server
// actually reports.
func (c *Client) QueryTyped(ctx context.Context, q *query.ReadQuery) (*Response, error) {
	stmt, err := q.Build()
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidQuery, "%v", err)
	}
	req, err := c.readRequest(ctx, q, stmt)
	if err != nil {
		return nil, err
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrapf(ErrDeserialization, "decoding query response: %v", err)
	}
	if err := resp.Error(); err != nil {
		return nil, err
	}
	return &resp, nil
}
