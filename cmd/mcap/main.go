// Command mcap runs assignment strategies over multi-cycle instance files.
package main

import (
	"os"

	"github.com/HelgeS/mcap-rotational-diversity/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
