// Package bench measures generator throughput and output quality over
// repeated runs, for comparing the generators in this module against each
// other and against configuration changes.
package bench

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"randkit-go/pkg/bitrand"
	"randkit-go/pkg/log"
	"randkit-go/pkg/quality"
	"randkit-go/pkg/sample"
)

// Case names a generator constructor under test. New is called once per
// run so every run starts from a fresh stream.
type Case struct {
	Name string
	New  func() (bitrand.Source, error)
}

// Options configures a benchmark run.
type Options struct {
	Bytes int // bytes generated per run
	Runs  int // runs per case
}

// DefaultOptions returns the defaults used by the benchmark tool.
func DefaultOptions() *Options {
	return &Options{
		Bytes: 1 << 20,
		Runs:  5,
	}
}

// Result is the outcome of one run of one case.
type Result struct {
	RunID          string
	Case           string
	Run            int
	Duration       time.Duration
	ThroughputMBps float64
	Report         quality.Report
	Err            error
}

// Aggregate summarizes all runs of one case.
type Aggregate struct {
	Case          string
	Runs          int
	Failed        int
	MinDuration   time.Duration
	MaxDuration   time.Duration
	AvgDuration   time.Duration
	MinThroughput float64
	MaxThroughput float64
	AvgThroughput float64
	AvgChiSquare  float64
	AvgEntropy    float64
	TotalBytes    int64
}

// Run executes every case Runs times and returns the per-run results in
// execution order.
func Run(opts *Options, cases []Case) []Result {
	if opts == nil {
		opts = DefaultOptions()
	}
	results := make([]Result, 0, len(cases)*opts.Runs)
	for _, c := range cases {
		for run := 1; run <= opts.Runs; run++ {
			res := runOnce(opts, c, run)
			if res.Err != nil {
				log.Error().Str("case", c.Name).Int("run", run).Err(res.Err).Msg("bench: run failed")
			}
			results = append(results, res)
		}
		log.Info().Str("case", c.Name).Int("runs", opts.Runs).Msg("bench: case complete")
	}
	return results
}

func runOnce(opts *Options, c Case, run int) Result {
	res := Result{RunID: uuid.NewString(), Case: c.Name, Run: run}
	g, err := c.New()
	if err != nil {
		res.Err = fmt.Errorf("bench: build %s: %w", c.Name, err)
		return res
	}

	start := time.Now()
	data := sample.Bytes(g, opts.Bytes)
	res.Duration = time.Since(start)
	if res.Duration < time.Microsecond {
		res.Duration = time.Microsecond
	}
	res.ThroughputMBps = float64(len(data)) / res.Duration.Seconds() / (1 << 20)
	res.Report = quality.Analyze(data)
	return res
}

// AggregateResults folds per-run results into one row per case, preserving
// first-seen order.
func AggregateResults(results []Result) []Aggregate {
	index := make(map[string]int)
	var aggs []Aggregate

	for _, r := range results {
		i, ok := index[r.Case]
		if !ok {
			i = len(aggs)
			index[r.Case] = i
			aggs = append(aggs, Aggregate{Case: r.Case})
		}
		a := &aggs[i]
		a.Runs++
		if r.Err != nil {
			a.Failed++
			continue
		}
		first := a.Runs-a.Failed == 1
		if first || r.Duration < a.MinDuration {
			a.MinDuration = r.Duration
		}
		if first || r.Duration > a.MaxDuration {
			a.MaxDuration = r.Duration
		}
		if first || r.ThroughputMBps < a.MinThroughput {
			a.MinThroughput = r.ThroughputMBps
		}
		if first || r.ThroughputMBps > a.MaxThroughput {
			a.MaxThroughput = r.ThroughputMBps
		}
		a.AvgDuration += r.Duration
		a.AvgThroughput += r.ThroughputMBps
		a.AvgChiSquare += r.Report.ChiSquare
		a.AvgEntropy += r.Report.ShannonEntropy
		a.TotalBytes += int64(r.Report.Length)
	}

	for i := range aggs {
		a := &aggs[i]
		ok := a.Runs - a.Failed
		if ok == 0 {
			continue
		}
		a.AvgDuration /= time.Duration(ok)
		a.AvgThroughput /= float64(ok)
		a.AvgChiSquare /= float64(ok)
		a.AvgEntropy /= float64(ok)
	}
	return aggs
}

// PrintAggregates writes a plain-text summary table for the tool output.
func PrintAggregates(aggs []Aggregate) {
	fmt.Printf("%-12s %-8s %-12s %-12s %-12s %-12s %-8s\n",
		"Case", "Runs", "Avg MB/s", "Min MB/s", "Max MB/s", "Avg chi2", "Avg H")
	for _, a := range aggs {
		if a.Runs == a.Failed {
			fmt.Printf("%-12s %-8s all runs failed\n", a.Case, fmt.Sprintf("%d/%d", 0, a.Runs))
			continue
		}
		fmt.Printf("%-12s %-8s %-12.2f %-12.2f %-12.2f %-12.2f %-8.3f\n",
			a.Case,
			fmt.Sprintf("%d/%d", a.Runs-a.Failed, a.Runs),
			a.AvgThroughput,
			a.MinThroughput,
			a.MaxThroughput,
			a.AvgChiSquare,
			a.AvgEntropy)
	}
}
