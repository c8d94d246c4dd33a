package main

import (
	"fmt"
	"log"
	"os"
)

func run() error { return nil }

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err) // want `log.Fatalf call is forbidden in main function`
	}
	defer fmt.Println("done")
	os.Exit(1) // want `os.Exit call is forbidden in main function`
}

func helper() {
	os.Exit(2)
}
