package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/influxwire/influxwire/pkg/query"
)

var prettyPrintResponses bool

func initQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <influxql>",
		Short: "Run an InfluxQL statement and print the response body",
		Args:  cobra.ExactArgs(1),
		Run:   runQuery,
	}
	cmd.Flags().BoolVar(&prettyPrintResponses, "print-responses", false,
		"Pretty print JSON response bodies (for correctness checking) (default false).")
	return cmd
}

func runQuery(cmd *cobra.Command, args []string) {
	body, err := newClient().Query(context.Background(), query.Read(args[0]))
	if err != nil {
		log.Fatalf("error during request: %v", err)
	}

	if prettyPrintResponses {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(body), "", "  "); err != nil {
			log.Fatalf("could not pretty print response: %v", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n", pretty.Bytes())
		return
	}
	fmt.Println(body)
}
