package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"

	"randkit-go/pkg/aesctr"
	"randkit-go/pkg/bench"
	"randkit-go/pkg/bitrand"
	"randkit-go/pkg/cc20"
	"randkit-go/pkg/log"
	"randkit-go/pkg/xorshift"
)

// Version information - will be set at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Command-line flags
var (
	casesFlag  string
	bytesFlag  int
	runsFlag   int
	outputFlag string
	helpFlag   bool
)

func init() {
	flag.StringVar(&casesFlag, "cases", "aesctr,cc20,xorshift", "Comma-separated generators to benchmark")
	flag.IntVar(&bytesFlag, "bytes", 1<<20, "Bytes generated per run")
	flag.IntVar(&runsFlag, "runs", 5, "Runs per case")
	flag.StringVar(&outputFlag, "output", "", "Output file for per-run results (CSV format)")
	flag.BoolVar(&helpFlag, "help", false, "Show help")

	// Parse flags
	flag.Parse()

	// Show help if requested
	if helpFlag {
		printUsage()
		os.Exit(0)
	}
}

func printUsage() {
	fmt.Printf("randkit benchmark tool %s (built %s)\n\n", Version, BuildTime)
	fmt.Println("Usage: randbench [options]")
	fmt.Println("\nOptions:")
	flag.PrintDefaults()

	fmt.Println("\nExamples:")
	fmt.Println("  randbench --cases aesctr --runs 10")
	fmt.Println("  randbench --bytes 4194304 --output results.csv")
	fmt.Println("  randbench --cases cc20,xorshift --bytes 16777216")
}

func buildCase(name string) (bench.Case, error) {
	switch strings.ToLower(name) {
	case "aesctr":
		return bench.Case{Name: "aesctr", New: func() (bitrand.Source, error) { return aesctr.New() }}, nil
	case "cc20":
		return bench.Case{Name: "cc20", New: func() (bitrand.Source, error) { return cc20.New() }}, nil
	case "xorshift":
		return bench.Case{Name: "xorshift", New: func() (bitrand.Source, error) { return xorshift.New() }}, nil
	default:
		return bench.Case{}, fmt.Errorf("unknown generator: %s", name)
	}
}

func main() {
	log.SetStd()
	fmt.Printf("randkit benchmark tool %s (built %s)\n\n", Version, BuildTime)

	var cases []bench.Case
	for _, name := range strings.Split(casesFlag, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, err := buildCase(name)
		if err != nil {
			stdlog.Fatalf("Invalid case: %v", err)
		}
		cases = append(cases, c)
	}
	if len(cases) == 0 {
		stdlog.Fatal("No benchmark cases selected.")
	}
	if bytesFlag <= 0 || runsFlag <= 0 {
		stdlog.Fatal("Both -bytes and -runs must be positive.")
	}

	opts := &bench.Options{Bytes: bytesFlag, Runs: runsFlag}
	results := bench.Run(opts, cases)

	fmt.Println()
	bench.PrintAggregates(bench.AggregateResults(results))

	if outputFlag != "" {
		if err := bench.WriteCSV(outputFlag, results); err != nil {
			stdlog.Fatalf("Failed to save results: %v", err)
		}
		log.Printf("results saved to %s", outputFlag)
	}
}
