package main

import (
	"fmt"
	"os"

	applycmd "github.com/1homsi/tsparam/cmd/tsparam/apply"
	plancmd "github.com/1homsi/tsparam/cmd/tsparam/plan"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "plan":
		os.Exit(plancmd.Run(os.Args[2:]))
	case "apply":
		os.Exit(applycmd.Run(os.Args[2:]))
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `tsparam — transitive parameter-addition refactoring for TypeScript projects

Usage:
  tsparam plan  [--json] [--verbose] --file <path> --function <name> [--class C] [--namespace N]
                --param <name> --type <Type> [--from <module> | --from-path <path> [--external <pkg>]]
                [--dummy <expr>] [--dummy-import <name> --dummy-from <module>] [dir]
  tsparam apply [--json] [--verbose] [--dry-run] [--migrations <out.yaml>] ...same flags... [dir]
  tsparam version`)
}
