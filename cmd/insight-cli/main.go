// Command insight-cli runs analysis queries and correlations over JSON row
// files from the command line.
//
//	insight-cli run --data rows.json --query query.json
//	insight-cli correlate --data rows.json -x spend -y revenue --sample 500
//	insight-cli summary --data rows.json
//	insight-cli version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
