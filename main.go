package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/term"

	"mibk.dev/phpfix/rules"
)

const version = "0.1.0"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: phpfix [flags] [path ...]\n")
	flag.PrintDefaults()
	os.Exit(2)
}

var (
	inPlace    = flag.Bool("w", false, "write result to (source) file instead of stdout")
	showDiff   = flag.Bool("d", false, "display diffs instead of rewriting files")
	listFiles  = flag.Bool("l", false, "list files whose formatting differs")
	configFile = flag.String("config", "", "use this configuration `file` instead of searching for one")
	ruleList   = flag.String("rules", "", "comma-separated `fixers` to run; -name disables a fixer")
	jobs       = flag.Int("j", runtime.GOMAXPROCS(0), "number of files fixed in parallel")
	cacheFile  = flag.String("cache", "", "cache `file` overriding the configured one")
	listRules  = flag.Bool("list", false, "list the available fixers and exit")
	colorMode  = flag.String("color", "auto", "colorize the report (auto|on|off)")
	verbose    = flag.Bool("v", false, "trace the fix passes")
)

func main() {
	log.SetPrefix("phpfix: ")
	log.SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	switch *colorMode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !term.IsTerminal(int(os.Stderr.Fd()))
	default:
		log.Fatalf("invalid -color value %q", *colorMode)
	}

	reg := rules.Registry()
	if *listRules {
		for _, name := range reg.Names() {
			e, _ := reg.Lookup(name)
			fmt.Printf("%-24s %s\n", name, e.Summary)
		}
		return
	}

	r := &runner{
		registry: reg,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		write:    *inPlace,
		diff:     *showDiff,
		list:     *listFiles,
		config:   *configFile,
		rules:    *ruleList,
		cache:    *cacheFile,
		jobs:     *jobs,
	}
	if *verbose {
		r.trace = log.New(os.Stderr, "phpfix: ", 0)
	}

	if flag.NArg() == 0 {
		if *inPlace {
			log.Fatal("cannot use -w with standard input")
		}
		if err := r.pipe("<stdin>", os.Stdin); err != nil {
			log.Fatal(err)
		}
		return
	}

	files, err := collectFiles(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	if err := r.setup(files); err != nil {
		log.Fatal(err)
	}
	if !r.run(files) {
		os.Exit(1)
	}
}
