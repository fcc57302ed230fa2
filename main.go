package main

import (
	"fmt"
	"os"

	"campusevents_backend/internals/commands"
)

func main() {
	if err := commands.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
