package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/crashpair/internal/analysis"
	"github.com/KaramelBytes/crashpair/internal/chart"
	"github.com/KaramelBytes/crashpair/internal/dataset"
	"github.com/KaramelBytes/crashpair/internal/utils"
)

var (
	anaDelimiter   string
	anaTop         int
	anaMaxRows     int
	anaFormat      string
	anaOutputPath  string
	anaChartDir    string
	anaChartFormat string
	anaHTML        bool
)

// analyzeSettings is the effective configuration of one analyze run.
type analyzeSettings struct {
	delimiter   rune
	maxRows     int
	top         int
	separator   string
	format      string
	output      string
	chartDir    string
	chartFormat string
	html        bool
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Compare severity of matching vs. non-matching contributing factors",
	Long: `Reads a collisions CSV/TSV, keeps crashes with exactly two vehicles and reports,
per factors_match group, the number of crashes, the mean severity (injured + killed)
and the percent of severe crashes, followed by the most common factor pairs.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveAnalyzeSettings(cmd)
		if err != nil {
			return err
		}
		res, err := runAnalysis(args[0], s)
		if err != nil {
			return err
		}

		out, err := renderReport(res, s.format)
		if err != nil {
			return err
		}
		if s.output != "" {
			if err := utils.SafeWriteFile(s.output, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote analysis to %s\n", s.output)
		} else {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
		}

		if s.chartDir == "" {
			return nil
		}
		paths, err := writeCharts(res, s)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote chart %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default from file extension)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 15, "number of factor pairs to rank (0 = all)")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "text", "report format: text | markdown | json | yaml")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report to this path instead of stdout")
	analyzeCmd.Flags().StringVar(&anaChartDir, "charts", "", "directory to write chart images to")
	analyzeCmd.Flags().StringVar(&anaChartFormat, "chart-format", "png", "chart image format: "+strings.Join(chart.ImageFormats, " | "))
	analyzeCmd.Flags().BoolVar(&anaHTML, "html", false, "also write an interactive charts.html to the chart directory")
}

// resolveAnalyzeSettings merges config values with the flags the user set.
func resolveAnalyzeSettings(cmd *cobra.Command) (analyzeSettings, error) {
	c := currentConfig()
	f := cmd.Flags()
	s := analyzeSettings{
		maxRows:     c.MaxRows,
		top:         c.TopPairs,
		separator:   c.PairSeparator,
		format:      c.OutputFormat,
		output:      anaOutputPath,
		chartDir:    c.ChartDir,
		chartFormat: c.ChartFormat,
		html:        c.ChartHTML,
	}
	delim := c.Delimiter
	if f.Changed("delimiter") {
		delim = anaDelimiter
	}
	d, err := parseDelimiter(delim)
	if err != nil {
		return s, err
	}
	s.delimiter = d
	if f.Changed("top") {
		s.top = anaTop
	}
	if f.Changed("max-rows") {
		s.maxRows = anaMaxRows
	}
	if s.top < 0 {
		return s, fmt.Errorf("invalid --top: %d (must be >= 0)", s.top)
	}
	if s.maxRows < 0 {
		return s, fmt.Errorf("invalid --max-rows: %d (must be >= 0)", s.maxRows)
	}
	switch {
	case f.Changed("format"):
		s.format = anaFormat
	case s.output != "":
		// an output extension beats the configured default
		if ext := formatFromExt(s.output); ext != "" {
			s.format = ext
		}
	}
	if f.Changed("charts") {
		s.chartDir = anaChartDir
	}
	if f.Changed("chart-format") {
		s.chartFormat = anaChartFormat
	}
	if f.Changed("html") {
		s.html = anaHTML
	}
	if s.html && s.chartDir == "" {
		return s, fmt.Errorf("--html needs a chart directory (--charts)")
	}
	return s, nil
}

func parseDelimiter(v string) (rune, error) {
	switch strings.ToLower(v) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case "\t", "tab", `\t`:
		return '\t', nil
	case ";", "semicolon":
		return ';', nil
	case "|", "pipe":
		return '|', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", v)
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".txt":
		return "text"
	}
	return ""
}

// runAnalysis loads path and runs the full pipeline over it.
func runAnalysis(path string, s analyzeSettings) (*analysis.Result, error) {
	tbl, err := dataset.Load(path, dataset.Options{
		Delimiter: s.delimiter,
		MaxRows:   s.maxRows,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("loaded collisions", zap.String("file", tbl.Name), zap.Int("rows", len(tbl.Records)))

	res := analysis.Run(tbl.Records, analysis.Options{TopPairs: s.top, PairSeparator: s.separator})
	res.Source = tbl.Name
	res.Warnings = loadWarnings(tbl)
	for _, w := range res.Warnings {
		logger.Warn(w, zap.String("file", tbl.Name))
	}
	logger.Debug("analysis complete",
		zap.String("run_id", res.RunID),
		zap.Int("two_vehicle", res.TwoVehicle),
		zap.Int("pairs", len(res.TopPairs)))
	return res, nil
}

func loadWarnings(t *dataset.Table) []string {
	var out []string
	if t.Truncated {
		out = append(out, fmt.Sprintf("input truncated after %d rows (--max-rows)", len(t.Records)))
	}
	if t.NegativeCounts > 0 {
		out = append(out, fmt.Sprintf("%d rows have negative injured/killed counts; summed as given", t.NegativeCounts))
	}
	if t.MissingDates > 0 {
		out = append(out, fmt.Sprintf("%d rows have no crash date", t.MissingDates))
	}
	return out
}

func renderReport(res *analysis.Result, format string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text", "txt":
		return []byte(res.Text()), nil
	case "markdown", "md":
		return []byte(res.Markdown()), nil
	case "json":
		return utils.PrettyJSON(res)
	case "yaml", "yml":
		return utils.YAML(res)
	}
	return nil, fmt.Errorf("unsupported --format: %s (use text|markdown|json|yaml)", format)
}

func writeCharts(res *analysis.Result, s analyzeSettings) ([]string, error) {
	specs := chart.Build(res)
	paths, err := chart.SaveAll(specs, s.chartDir, s.chartFormat)
	if err != nil {
		return nil, err
	}
	if s.html && len(paths) > 0 {
		p, err := chart.SaveHTML(specs, s.chartDir)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	for _, p := range paths {
		logger.Debug("wrote chart", zap.String("path", p))
	}
	if len(paths) == 0 {
		logger.Warn("no charts written: no two-vehicle collisions")
	}
	return paths, nil
}
