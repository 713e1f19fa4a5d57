package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func initPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check the server is reachable and print its build and version",
		Run:   runPing,
	}
}

func runPing(cmd *cobra.Command, _ []string) {
	build, version, err := newClient().Ping(context.Background())
	if err != nil {
		log.Fatalf("ping failed: %v", err)
	}
	fmt.Printf("%s %s\n", build, version)
}
