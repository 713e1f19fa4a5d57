// Package query holds the two request kinds understood by an InfluxDB v1
// HTTP endpoint: read queries carrying an InfluxQL string, and write queries
// rendered to line protocol.
package query

// Query is a request that can be built into its wire form. The interface is
// closed over ReadQuery and WriteQuery; the client dispatches on the
// concrete type to decide endpoint, method and URL parameters.
type Query interface {
	// Build renders the query to the string sent to the server: the
	// InfluxQL text for reads, a line protocol line for writes.
	Build() (string, error)

	isQuery()
}

func (*ReadQuery) isQuery()  {}
func (*WriteQuery) isQuery() {}
