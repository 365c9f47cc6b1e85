package main

import (
	"fmt"
	"os"

	"github.com/rezonia/einvoice-converter/cmd/einvoice-converter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
