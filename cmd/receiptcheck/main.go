// Command receiptcheck validates local files against a declared content type
// using the same magic-number rules as the upload endpoint.
//
// Usage:
//
//	receiptcheck -type image/jpeg scan1.jpg scan2.jpg
//
// One verdict line is printed per file. The exit status is 1 if any file is
// rejected and 2 on usage or read errors.
package main

import (
	"cmp"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/receiptguard/internal/upload"
)

var (
	version   string
	buildDate string
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("receiptcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	declared := fs.String("type", "", "declared content type ("+strings.Join(upload.SupportedTypes(), ", ")+")")
	showVersion := fs.Bool("version", false, "print build information and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintf(stdout, "Build version: %s\nBuild date: %s\n", cmp.Or(version, "N/A"), cmp.Or(buildDate, "N/A"))
		return exitOK
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: receiptcheck -type <content-type> file...")
		return exitUsage
	}

	status := exitOK
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			status = exitUsage
			continue
		}
		res := upload.Validate(data, *declared)
		if res.OK() {
			fmt.Fprintf(stdout, "%s: ok (%s)\n", path, res.CanonicalType())
			continue
		}
		fmt.Fprintf(stdout, "%s: rejected [%s] %s\n", path, res.Kind(), res.Message())
		if status == exitOK {
			status = exitRejected
		}
	}
	return status
}
