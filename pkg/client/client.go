// Package client implements a minimal client for the InfluxDB v1 HTTP API.
// Each call is an independent fire-and-await round trip: there is no retry,
// no backoff and no pooling beyond what net/http provides.
package client

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/influxwire/influxwire/pkg/query"
)

// Response headers set by the /ping endpoint.
const (
	headerBuild   = "X-Influxdb-Build"
	headerVersion = "X-Influxdb-Version"
)

// Authentication is sent as the "u" and "p" URL parameters.
type Authentication struct {
	Username string
	Password string
}

// Client talks to a single InfluxDB server and database.
type Client struct {
	url      string
	database string
	auth     *Authentication
	hc       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAuth sets the username/password pair added to every request.
func WithAuth(username, password string) Option {
	return func(c *Client) {
		c.auth = &Authentication{Username: username, Password: password}
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTimeout sets the request timeout on the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.hc.Timeout = d }
}

// New returns a Client for the server at rawurl (e.g. "http://localhost:8086")
// running queries and writes against the named database.
func New(rawurl, database string, opts ...Option) *Client {
	c := &Client{
		url:      strings.TrimRight(rawurl, "/"),
		database: database,
		hc:       &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Database returns the name of the database the client writes to.
func (c *Client) Database() string { return c.database }

// URL returns the server URL the client talks to.
func (c *Client) URL() string { return c.url }

// Ping checks the server is alive and returns its build type and version,
// read from the X-Influxdb-Build and X-Influxdb-Version response headers.
func (c *Client) Ping(ctx context.Context) (build, version string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/ping", nil)
	if err != nil {
		return "", "", errors.Wrapf(ErrProtocol, "building ping request: %v", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", "", errors.Wrapf(ErrProtocol, "ping: %v", err)
	}
	defer resp.Body.Close()

	build = resp.Header.Get(headerBuild)
	version = resp.Header.Get(headerVersion)
	if build == "" || version == "" {
		return "", "", errors.Wrapf(ErrProtocol,
			"ping response missing %s or %s header", headerBuild, headerVersion)
	}
	return build, version, nil
}

// Query sends a read or write query to the server and returns the raw
// response body. Read queries hit /query with the statement in the "q"
// parameter (GET for SELECT/SHOW, POST otherwise); write queries POST line
// protocol to /write with the point's precision modifier.
//
// A body containing the substring `"error"` fails with ErrDatabase carrying
// the body verbatim. Use QueryTyped for structured decoding of read results.
func (c *Client) Query(ctx context.Context, q query.Query) (string, error) {
	stmt, err := q.Build()
	if err != nil {
		return "", errors.Wrapf(ErrInvalidQuery, "%v", err)
	}

	var req *http.Request
	switch qq := q.(type) {
	case *query.ReadQuery:
		req, err = c.readRequest(ctx, qq, stmt)
	case *query.WriteQuery:
		req, err = c.writeRequest(ctx, qq, stmt)
	default:
		// The Query sum is closed; this is unreachable short of a foreign
		// implementation sneaking in. Fail, never panic.
		return "", errors.Wrapf(ErrInvalidQuery, "unknown query type %T", q)
	}
	if err != nil {
		return "", err
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	s := string(body)
	if strings.Contains(s, `"error"`) {
		return "", errors.Wrapf(ErrDatabase, "influxdb error: %q", s)
	}
	return s, nil
}

func (c *Client) readRequest(ctx context.Context, q *query.ReadQuery, stmt string) (*http.Request, error) {
	params := url.Values{}
	params.Set("db", c.database)
	params.Set("q", stmt)
	c.addAuth(params)

	method := http.MethodPost
	if q.ReadOnly() {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrapf(ErrProtocol, "building read request: %v", err)
	}
	return req, nil
}

func (c *Client) writeRequest(ctx context.Context, q *query.WriteQuery, line string) (*http.Request, error) {
	params := url.Values{}
	params.Set("db", c.database)
	params.Set("precision", string(q.Precision()))
	c.addAuth(params)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url+"/write?"+params.Encode(), strings.NewReader(line))
	if err != nil {
		return nil, errors.Wrapf(ErrProtocol, "building write request: %v", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	return req, nil
}

func (c *Client) addAuth(params url.Values) {
	if c.auth != nil {
		params.Set("u", c.auth.Username)
		params.Set("p", c.auth.Password)
	}
}

// do runs the request and returns the full response body, verified UTF-8.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errors.Wrapf(ErrProtocol, "%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(ErrProtocol, "reading response body: %v", err)
	}
	if !utf8.Valid(body) {
		return nil, errors.Wrap(ErrDeserialization, "response could not be converted to UTF-8")
	}
	return body, nil
}
