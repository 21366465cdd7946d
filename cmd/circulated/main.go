// Command circulated runs the circulation service: the admin HTTP surface,
// the availability publisher and the periodic overdue sweep, all over the
// Postgres transaction log.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
