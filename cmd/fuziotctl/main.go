// fuziotctl is a small inspection/administration CLI for a FuziotDB data
// directory: register a schema from a YAML file, push a row of literal
// values, fetch every row, or purge a type's tombstones. With no
// subcommand it drops into an interactive REPL. Grounded on the teacher's
// tools/ directory of single-purpose command-line utilities and on
// calvinalkan-agent-task's subcommand-FlagSet-per-command convention
// (cmd/sloty, internal/cli).
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/Adloeth/FuziotDB/fuziot"
	"github.com/Adloeth/FuziotDB/internal/config"
	"github.com/Adloeth/FuziotDB/scan"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut io.Writer) int {
	global := flag.NewFlagSet("fuziotctl", flag.ContinueOnError)
	global.SetOutput(errOut)
	dataDir := global.StringP("data-dir", "d", "./data", "database directory")
	workers := global.IntP("workers", "w", 0, "parallel scan worker count (0 = config default)")
	upgrade := global.Bool("upgrade", false, "register: migrate an existing file on header mismatch")

	if len(args) == 0 {
		return runREPL(*dataDir, *workers, out, errOut)
	}
	cmd, rest := args[0], args[1:]
	if cmd == "-h" || cmd == "--help" {
		printUsage(out)
		return 0
	}

	if err := global.Parse(rest); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	cfg := config.Default()
	cfg.DataDir = *dataDir
	if *workers > 0 {
		cfg.Workers = *workers
	}
	db := fuziot.Open(cfg)
	defer db.Shutdown()

	switch cmd {
	case "register":
		regArgs := global.Args()
		if *upgrade {
			regArgs = append(regArgs, "--upgrade")
		}
		return cmdRegister(db, regArgs, out, errOut)
	case "push":
		return cmdPush(db, global.Args(), out, errOut)
	case "fetch":
		return cmdFetch(db, global.Args(), out, errOut)
	case "purge":
		return cmdPurge(db, global.Args(), out, errOut)
	case "repl":
		return runREPLOn(db, out, errOut)
	default:
		fmt.Fprintf(errOut, "unknown command %q\n", cmd)
		printUsage(errOut)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `fuziotctl <command> [args] [-d data-dir] [-w workers]

Commands:
  register <schema.yaml> [--upgrade]   Register a type from a YAML schema file
  push <type> <value>...               Append a row (values in field order)
  fetch <type>                         Print every live row
  purge <type>                         Compact a type's file
  repl                                 Interactive mode

With no arguments at all, starts the REPL on ./data.
`)
}

func cmdRegister(db *fuziot.Database, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(errOut)
	upgrade := fs.Bool("upgrade", false, "migrate an existing file on header mismatch")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: register <schema.yaml> [--upgrade]")
		return 1
	}
	if err := db.RegisterFromYAML(fs.Arg(0), *upgrade); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, "registered")
	return 0
}

func cmdPush(db *fuziot.Database, args []string, out, errOut io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(errOut, "usage: push <type> <value>...")
		return 1
	}
	typeName, literals := args[0], args[1:]
	values := make([]any, len(literals))
	for i, lit := range literals {
		values[i] = parseLiteral(lit)
	}
	id, err := db.Push(typeName, values)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, id)
	return 0
}

func cmdFetch(db *fuziot.Database, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: fetch <type>")
		return 1
	}
	recs, err := db.FetchFull(args[0], func(rec *scan.Record) bool { return true })
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	for _, rec := range recs {
		fmt.Fprintf(out, "%d: %v\n", rec.SlotID, rec.Values)
	}
	return 0
}

func cmdPurge(db *fuziot.Database, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "usage: purge <type>")
		return 1
	}
	if err := db.Purge(args[0]); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, "purged")
	return 0
}

// parseLiteral converts a command-line token to the value a codec expects:
// a uint32 if it parses as an unsigned decimal integer (higher bits are
// dropped), a float64 if it parses as a float (this includes negative
// integers), otherwise the literal string (for ascii/utf16/bytes-backed
// fields).
func parseLiteral(lit string) any {
	if n, err := strconv.ParseUint(lit, 10, 64); err == nil {
		return uint32(n)
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil {
		return f
	}
	return lit
}

// runREPL opens a fresh Database rooted at dataDir and hands it to
// runREPLOn; used when fuziotctl is invoked with no subcommand.
func runREPL(dataDir string, workers int, out, errOut io.Writer) int {
	cfg := config.Default()
	cfg.DataDir = dataDir
	if workers > 0 {
		cfg.Workers = workers
	}
	db := fuziot.Open(cfg)
	defer db.Shutdown()
	return runREPLOn(db, out, errOut)
}

// runREPLOn drives an interactive session over db using peterh/liner for
// line editing and history, in the shape of the teacher's sloty REPL.
func runREPLOn(db *fuziot.Database, out, errOut io.Writer) int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	fmt.Fprintln(out, "fuziotctl interactive mode. Type 'help' for commands, 'exit' to quit.")
	for {
		input, err := line.Prompt("fuziot> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(out, "bye")
				return 0
			}
			fmt.Fprintln(errOut, err)
			return 1
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		parts := strings.Fields(input)
		switch strings.ToLower(parts[0]) {
		case "exit", "quit", "q":
			fmt.Fprintln(out, "bye")
			return 0
		case "help":
			printUsage(out)
		case "register":
			cmdRegister(db, parts[1:], out, errOut)
		case "push":
			cmdPush(db, parts[1:], out, errOut)
		case "fetch":
			cmdFetch(db, parts[1:], out, errOut)
		case "purge":
			cmdPurge(db, parts[1:], out, errOut)
		case "stats":
			for _, s := range db.Stats() {
				fmt.Fprintf(out, "%s: live=%d total=%d size=%d\n", s.Name, s.LiveSlotCount, s.TotalSlots, s.FileSize)
			}
		default:
			fmt.Fprintf(errOut, "unknown command %q (type 'help')\n", parts[0])
		}
	}
}
