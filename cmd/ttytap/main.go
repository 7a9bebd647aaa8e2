package main

import (
	"errors"
	"fmt"
	"os"

	"ttytap/internal/cmd"
)

func main() {
	err := cmd.NewRootCmd().Execute()
	if err == nil {
		return
	}
	var child *cmd.ChildExitError
	if errors.As(err, &child) {
		fmt.Fprintln(os.Stderr, child.Detail)
		os.Exit(child.Code)
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
