package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/crashpair/internal/chart"
	cfgpkg "github.com/KaramelBytes/crashpair/internal/config"
	"github.com/KaramelBytes/crashpair/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage crashpair configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		w := cmd.OutOrStdout()
		delim := c.Delimiter
		if delim == "" {
			delim = "(from file extension)"
		}
		fmt.Fprintf(w, "delimiter: %s\n", delim)
		fmt.Fprintf(w, "max_rows: %d\n", c.MaxRows)
		fmt.Fprintf(w, "top_pairs: %d\n", c.TopPairs)
		fmt.Fprintf(w, "pair_separator: %q\n", c.PairSeparator)
		fmt.Fprintf(w, "output_format: %s\n", c.OutputFormat)
		if c.ChartDir != "" {
			fmt.Fprintf(w, "chart_dir: %s\n", c.ChartDir)
		}
		fmt.Fprintf(w, "chart_format: %s\n", c.ChartFormat)
		fmt.Fprintf(w, "chart_html: %t\n", c.ChartHTML)
		fmt.Fprintf(w, "log_level: %s\n", c.LogLevel)
		fmt.Fprintf(w, "log_json: %t\n", c.LogJSON)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setConfigValue(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setConfigValue(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "max_rows":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for max_rows: %v", val)
		}
		c.MaxRows = i
	case "top_pairs":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for top_pairs: %v", val)
		}
		c.TopPairs = i
	case "pair_separator":
		if val == "" {
			return fmt.Errorf("pair_separator must not be empty")
		}
		c.PairSeparator = val
	case "output_format":
		switch strings.ToLower(val) {
		case "text", "markdown", "json", "yaml":
			c.OutputFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid output_format: %s (use text, markdown, json or yaml)", val)
		}
	case "chart_dir":
		c.ChartDir = val
	case "chart_format":
		f := strings.ToLower(val)
		ok := false
		for _, v := range chart.ImageFormats {
			ok = ok || v == f
		}
		if !ok {
			return fmt.Errorf("invalid chart_format: %s (use one of %s)", val, strings.Join(chart.ImageFormats, ", "))
		}
		c.ChartFormat = f
	case "chart_html":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for chart_html: %v", val)
		}
		c.ChartHTML = b
	case "log_level":
		if _, err := logging.ParseLevel(val); err != nil {
			return err
		}
		c.LogLevel = strings.ToLower(val)
	case "log_json":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("invalid bool for log_json: %v", val)
		}
		c.LogJSON = b
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
