package main

import (
	"fmt"
	"os"

	"moviegraph/internal/config"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	// A missing .env is fine; real environment variables take precedence.
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
	}

	switch os.Args[1] {
	case "serve":
		handleServe()
	case "query":
		handleQuery(os.Args[2:])
	case "seed":
		handleSeed(os.Args[2:])
	case "export":
		handleExport(os.Args[2:])
	case "mcp":
		handleMCP()
	case "version":
		fmt.Println(version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: moviegraph <command> [options]")
	fmt.Println("Commands: serve, query, seed, export, mcp, version")
}
