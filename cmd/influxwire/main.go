// influxwire is a small command line front end for the client: ping a
// server, run InfluxQL queries, and bulk-write line protocol from stdin.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
