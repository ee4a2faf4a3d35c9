package main

import (
	"fmt"
	"os"

	"example.com/polyglot/svc/store"
)

func main() {
	// Print the configured store name.
	fmt.Fprintln(os.Stdout, store.Name)
}
