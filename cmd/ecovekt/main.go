// Package main is the ecovekt command-line client. It keeps a pending list of
// weighed waste on the device and submits it to the ecoVekt API.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{out: os.Stdout}
	defer a.Close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		a.Close()
		os.Exit(1)
	}
}
