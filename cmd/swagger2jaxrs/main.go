package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/swagger2jaxrs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Cobra is configured to not print errors. Ensure users still get a message.
		if msg := err.Error(); msg != "" {
			_, _ = fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
