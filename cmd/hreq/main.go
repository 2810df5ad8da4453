package main

import (
	"fmt"
	"os"

	"github.com/HexmosTech/hreq"
	_ "github.com/mtibben/androiddnsfix"
)

func main() {
	if err := hreq.Main(&hreq.Options{}); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}
