package main

import (
	"bufio"
	"bytes"
	"log"
	"os"
	"strings"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/cobra"

	"github.com/influxwire/influxwire/internal/utils"
	"github.com/influxwire/influxwire/pkg/query"
	"github.com/influxwire/influxwire/pkg/stats"
	"github.com/influxwire/influxwire/pkg/writer"
)

var validPrecisions = []string{"h", "m", "s", "ms", "u", "ns"}

func initWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Bulk-write line protocol read from stdin",
		Run:   runWrite,
	}
	cmd.Flags().Int("batch-size", 1000, "number of lines per write request")
	cmd.Flags().Bool("gzip", true, "gzip request bodies")
	cmd.Flags().String("precision", "ns", "timestamp precision of the input lines: "+strings.Join(validPrecisions, ", "))
	cmd.Flags().String("consistency", "", "write consistency level for clustered servers")
	viper.BindPFlags(cmd.Flags())
	return cmd
}

func runWrite(cmd *cobra.Command, _ []string) {
	precision := viper.GetString("precision")
	if !utils.IsIn(precision, validPrecisions) {
		log.Fatalf("invalid precision %q, must be one of: %s", precision, strings.Join(validPrecisions, ", "))
	}

	conf := writer.Config{
		Host:        viper.GetString("url"),
		Database:    viper.GetString("db"),
		Precision:   query.Precision(precision),
		Consistency: viper.GetString("consistency"),
		Username:    viper.GetString("username"),
		Password:    viper.GetString("password"),
		DebugInfo:   "influxwire write",
	}
	w := writer.NewHTTPWriter(conf)

	group := stats.NewGroup()
	opts := []writer.CollectorOption{
		writer.WithBatchSize(viper.GetInt("batch-size")),
		writer.WithSendObserver(func(points int, lat time.Duration) {
			group.Push(lat)
		}),
		writer.WithErrorHandler(func(err error) {
			log.Fatalf("error writing batch: %v", err)
		}),
	}
	if viper.GetBool("gzip") {
		opts = append(opts, writer.WithGzip())
	}
	c := writer.NewCollector(w, opts...)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		// The scanner reuses its buffer between lines.
		c.RecordLine(append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("error reading stdin: %v", err)
	}
	c.Close()

	log.Printf("wrote %d points", c.Sent())
	group.Write(os.Stderr)
}
