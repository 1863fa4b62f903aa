package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kevinaud/repo-map/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var engErr *errors.EngineError
		if errors.As(err, &engErr) && engErr.Details != nil {
			if detail, jerr := json.MarshalIndent(engErr.Details, "", "  "); jerr == nil {
				fmt.Fprintln(os.Stderr, string(detail))
			}
		}
		os.Exit(exitCode(err))
	}
}
