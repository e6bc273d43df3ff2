package qualityset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/gorgonia/learnkit"
	"github.com/gorgonia/learnkit/classifier/confusion"
)

var metricNames = [...]string{
	confusion.AverageAccuracy: "averageAccuracy",
	confusion.ErrorRate:       "errorRate",
	confusion.MicroPrecision:  "microPrecision",
	confusion.MicroRecall:     "microRecall",
	confusion.MicroFscore:     "microFscore",
	confusion.MacroPrecision:  "macroPrecision",
	confusion.MacroRecall:     "macroRecall",
	confusion.MacroFscore:     "macroFscore",
}

// WriteCSV writes the multi-class metrics of the set as a header row followed
// by one row of values.
func (c *ResultCollection) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(metricNames[:]); err != nil {
		return err
	}
	record := make([]string, len(metricNames))
	if r := c.GetResult(ConfusionMatrix); r != nil && r.Get(confusion.MultiClassMetrics) != nil {
		vals, err := learnkit.Float64s(r.Get(confusion.MultiClassMetrics))
		if err != nil {
			return err
		}
		for i := range record {
			if i < len(vals) {
				record[i] = strconv.FormatFloat(vals[i], 'f', 3, 64)
			}
		}
	}
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Dump writes the metrics of the set to filename as CSV.
func (c *ResultCollection) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return c.WriteCSV(f)
}
