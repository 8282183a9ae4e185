// Command folioctl edits the portfolio content from a terminal. It shares
// the session and drafts of the server through the same SQLite database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
