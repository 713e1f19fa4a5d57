package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const writeConfigTo = "./config.yaml"

// exampleConfig mirrors the keys read by the root command's flags.
type exampleConfig struct {
	URL      string        `yaml:"url"`
	DB       string        `yaml:"db"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

func initConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Generate an example config yaml file and save it to " + writeConfigTo,
		Run:   runConfig,
	}
}

func runConfig(cmd *cobra.Command, _ []string) {
	example := exampleConfig{
		URL:     "http://localhost:8086",
		DB:      "test",
		Timeout: 30 * time.Second,
	}
	out, err := yaml.Marshal(&example)
	if err != nil {
		log.Fatalf("could not marshal sample config: %v", err)
	}
	if err := ioutil.WriteFile(writeConfigTo, out, 0644); err != nil {
		log.Fatalf("could not write sample config to file %s: %v", writeConfigTo, err)
	}
	fmt.Printf("Wrote example config to: %s\n", writeConfigTo)
}
