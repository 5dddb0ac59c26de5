// Command codexia drives codex proto sessions from a terminal or over a
// websocket bridge.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
