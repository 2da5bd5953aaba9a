// Command dhcli is an interactive menu over a dhash table.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/theflywheel/dhash/internal/cli"
	"github.com/theflywheel/dhash/internal/config"
)

func main() {
	config.LoadEnv()
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	store, err := cfg.Open(os.Stderr)
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}
	fmt.Println("=> Your hash table is ready to be used.")

	runErr := cli.Run(store, os.Stdin, os.Stdout)

	if err := store.Close(); err != nil {
		log.Printf("Failed to close table: %v", err)
	}
	if runErr != nil {
		log.Fatalf("Session ended with error: %v", runErr)
	}
	fmt.Println("=> Your hash table has been deleted.")
}
