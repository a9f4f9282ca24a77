// Command frostd produces FROST threshold signatures with local
// participants, via a trusted dealer or a distributed key generation.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
