package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var csvHeader = []string{
	"RunID", "Case", "Run",
	"Duration_ms", "Throughput_MBps",
	"Mean", "ChiSquare", "MinFreq", "MaxFreq", "FreqRange",
	"ShannonEntropy", "Autocorrelation", "CompressionRatio",
	"DataLength", "Error",
}

// WriteCSV writes one row per run result so the raw numbers can be fed to
// external analysis.
func WriteCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bench: create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("bench: write csv header: %w", err)
	}
	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		row := []string{
			r.RunID,
			r.Case,
			strconv.Itoa(r.Run),
			strconv.FormatFloat(float64(r.Duration.Microseconds())/1000.0, 'f', 3, 64),
			strconv.FormatFloat(r.ThroughputMBps, 'f', 2, 64),
			strconv.FormatFloat(r.Report.Mean, 'f', 4, 64),
			strconv.FormatFloat(r.Report.ChiSquare, 'f', 2, 64),
			strconv.Itoa(r.Report.MinFreq),
			strconv.Itoa(r.Report.MaxFreq),
			strconv.Itoa(r.Report.FreqRange),
			strconv.FormatFloat(r.Report.ShannonEntropy, 'f', 6, 64),
			strconv.FormatFloat(r.Report.Autocorrelation, 'f', 6, 64),
			strconv.FormatFloat(r.Report.CompressionRatio, 'f', 4, 64),
			strconv.Itoa(r.Report.Length),
			errText,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("bench: write csv row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
