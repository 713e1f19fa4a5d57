package main

import (
	"log"
	"time"

	"github.com/blagojts/viper"
	"github.com/spf13/cobra"

	"github.com/influxwire/influxwire/internal/utils"
	"github.com/influxwire/influxwire/pkg/client"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "influxwire",
		Short: "Write to and query an InfluxDB v1 HTTP endpoint",
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().String("url", "http://localhost:8086", "URL of the InfluxDB server")
	rootCmd.PersistentFlags().String("db", "test", "name of the database to use")
	rootCmd.PersistentFlags().String("username", "", "username for authentication, if needed")
	rootCmd.PersistentFlags().String("password", "", "password for authentication, if needed")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(initPingCmd())
	rootCmd.AddCommand(initQueryCmd())
	rootCmd.AddCommand(initWriteCmd())
	rootCmd.AddCommand(initConfigCmd())
}

func initConfig() {
	if err := utils.SetupConfigFile(cfgFile, rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("could not read config: %v", err)
	}
}

// newClient builds the client from the resolved flag/file configuration.
func newClient() *client.Client {
	opts := []client.Option{
		client.WithTimeout(viper.GetDuration("timeout")),
	}
	if u := viper.GetString("username"); u != "" {
		opts = append(opts, client.WithAuth(u, viper.GetString("password")))
	}
	return client.New(viper.GetString("url"), viper.GetString("db"), opts...)
}
