package client

import "github.com/pkg/errors"

// Error kinds returned by the client. Callers check them with errors.Is;
// the returned errors wrap these with request context.
var (
	// ErrInvalidQuery means the query could not be built into its wire form.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrProtocol means the HTTP exchange itself failed, or the response
	// was missing something the protocol requires.
	ErrProtocol = errors.New("protocol error")

	// ErrDatabase means the server answered, but the response body reports
	// a database-side error.
	ErrDatabase = errors.New("database error")

	// ErrDeserialization means the response body could not be decoded.
	ErrDeserialization = errors.New("deserialization error")
)
