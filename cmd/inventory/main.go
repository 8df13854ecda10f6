package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hostelworks/roster-backend/pkg/inventory"
)

// Converts terraform outputs JSON into a grouped ansible inventory. Reads
// stdin and writes stdout unless -in/-out name files.
func main() {
	in := flag.String("in", "", "terraform outputs JSON file (default stdin)")
	out := flag.String("out", "", "ansible inventory file to write (default stdout)")
	flag.Parse()

	input := os.Stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", *in, err)
			os.Exit(1)
		}
		defer f.Close()
		input = f
	}

	output := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "create %s: %v\n", *out, err)
			os.Exit(1)
		}
		defer f.Close()
		output = f
	}

	if err := inventory.Transform(input, output); err != nil {
		fmt.Fprintf(os.Stderr, "transform: %v\n", err)
		os.Exit(1)
	}
}
