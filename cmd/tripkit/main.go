// Package main provides the tripkit binary entry point.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tripkit-ai/tripkit/commands"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
