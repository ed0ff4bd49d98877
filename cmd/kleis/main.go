package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/eatikrh/kleis/internal/engine"
	"github.com/eatikrh/kleis/internal/repl"
	"github.com/eatikrh/kleis/internal/stdlib"
)

var (
	// Version info - set by ldflags during build
	Version = "dev"
	Commit  = "unknown"

	red  = color.New(color.FgRed).SprintFunc()
	cyan = color.New(color.FgCyan).SprintFunc()
	bold = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		configFlag  = flag.String("config", "", "Path to an EngineConfig YAML file")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	cfg := stdlib.DefaultConfig()
	if *configFlag != "" {
		loaded, err := stdlib.LoadConfigFile(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", red("Error"), err)
			os.Exit(1)
		}
		cfg = loaded
	}

	eng, reports := engine.WithStdlib(cfg)
	if reports != nil {
		for _, r := range reports {
			fmt.Fprintf(os.Stderr, "%s[%s]: %s\n", red("Error"), r.Kind, r.Message)
		}
		os.Exit(1)
	}

	switch command := flag.Arg(0); command {
	case "repl":
		repl.New(eng, Version).Start(os.Stdin, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Kleis %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("Kleis: a formal language core for algebraic mathematics"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  kleis <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s    Start the interactive REPL over a stdlib-seeded Engine\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version        Print version information")
	fmt.Println("  --help           Show this help message")
	fmt.Println("  --config <file>  Load an EngineConfig YAML file")
}
