// cmd/odctl/main.go
package main

import (
	"log"
	"os"

	"github.com/tamzrod/modbus-od/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Printf("odctl: %v", err)
		os.Exit(1)
	}
}
