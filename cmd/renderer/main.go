package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jo-hoe/gorender/internal/payload"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError is the single place failures become user-visible: the report
// goes to stderr as JSON so the calling process can decode it.
func reportError(err error) {
	report := payload.NewErrorPayload(err)
	encoded, marshalErr := json.Marshal(report)
	if marshalErr != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	fmt.Fprintln(os.Stderr, string(encoded))
}
