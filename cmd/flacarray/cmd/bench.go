package cmd

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arloliu/flacarray/internal/bench"
)

const (
	flagStreams    = "streams"
	flagStreamSize = "stream-size"
	flagLevels     = "levels"
	flagTypes      = "types"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Round-trips generated arrays and reports size and speed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed(flagStreams) {
			cfg.Bench.Streams, _ = flags.GetInt(flagStreams)
		}
		if flags.Changed(flagStreamSize) {
			cfg.Bench.StreamSize, _ = flags.GetInt(flagStreamSize)
		}
		if flags.Changed(flagLevels) {
			cfg.Bench.Levels, _ = flags.GetIntSlice(flagLevels)
		}
		if flags.Changed(flagTypes) {
			cfg.Bench.Types, _ = flags.GetStringSlice(flagTypes)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := newLogger(cmd, cfg)
		if err != nil {
			return err
		}
		results, err := bench.Run(cfg.Bench, log)
		if err != nil {
			return err
		}
		renderResults(cmd.OutOrStdout(), results)

		return nil
	},
}

func init() {
	benchCmd.Flags().Int(flagStreams, 0, "Number of streams. Overrides the config file.")
	benchCmd.Flags().Int(flagStreamSize, 0, "Samples per stream. Overrides the config file.")
	benchCmd.Flags().IntSlice(flagLevels, nil, "Compression levels to run. Overrides the config file.")
	benchCmd.Flags().StringSlice(flagTypes, nil, "Array types to run (int32, int64, float32, float64).")
	rootCmd.AddCommand(benchCmd)
}

func renderResults(w io.Writer, results []bench.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Type", "Level", "Workers", "Backend", "Ratio", "Encode", "Decode", "Slice", "Max Error", "Fingerprint",
	})
	for _, r := range results {
		table.Append([]string{
			r.Type,
			strconv.Itoa(r.Level),
			strconv.Itoa(r.Workers),
			r.Stats.Algorithm.String(),
			fmt.Sprintf("%.3f", r.Stats.CompressionRatio()),
			durationStr(r.Stats.CompressionTimeNs),
			durationStr(r.Stats.DecompressionTimeNs),
			durationStr(r.SliceTimeNs),
			strconv.FormatFloat(r.MaxError, 'g', 3, 64),
			fmt.Sprintf("%016x", r.Fingerprint),
		})
	}
	table.Render()
}

func durationStr(ns int64) string {
	return time.Duration(ns).Round(time.Microsecond).String()
}
