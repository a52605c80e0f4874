package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/gridpoint/internal/batch"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert a CSV or XLSX file of coordinates or codes",
	Long: "Reads rows with a code column or latitude/longitude columns, converts each row " +
		"and writes the results. Rows that fail keep their error and never stop the run.",
	Example: "  gridpoint batch --input places.csv --output-file places.geojson\n" +
		"  gridpoint batch --input codes.xlsx --mode decode --format json",
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.StringP("input", "i", "", "input .csv or .xlsx file (required)")
	f.String("sheet", "", "worksheet name for .xlsx input (default first sheet)")
	f.String("charset", "", "character encoding of .csv input (default utf-8)")
	f.StringP("output-file", "O", "", "output file (default stdout)")
	f.String("mode", string(batch.ModeAuto), "conversion direction: auto, encode, decode")
	f.StringP("format", "f", "", "output format: csv, json, geojson, shp (default from output extension, else csv)")
	f.IntP("concurrency", "c", 0, "parallel workers (default from config)")
	f.Bool("raw", false, "write bare codes without # and dashes")
	f.Bool("save", false, "also import successful rows into the places registry")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	sheet, _ := cmd.Flags().GetString("sheet")
	charset, _ := cmd.Flags().GetString("charset")
	outPath, _ := cmd.Flags().GetString("output-file")
	modeFlag, _ := cmd.Flags().GetString("mode")
	formatFlag, _ := cmd.Flags().GetString("format")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	raw, _ := cmd.Flags().GetBool("raw")
	save, _ := cmd.Flags().GetBool("save")

	mode, err := batch.ParseMode(modeFlag)
	if err != nil {
		return err
	}
	format, err := resolveFormat(formatFlag, outPath)
	if err != nil {
		return err
	}
	if format == batch.FormatShp && outPath == "" {
		return eris.New("batch: shp output requires --output-file")
	}
	if concurrency <= 0 {
		concurrency = cfg.Batch.Concurrency
	}

	records, err := batch.ReadFile(input, batch.ReadOptions{Sheet: sheet, Charset: charset})
	if err != nil {
		return err
	}

	zap.L().Info("batch: starting",
		zap.String("input", input),
		zap.Int("rows", len(records)),
		zap.String("mode", string(mode)),
		zap.Int("concurrency", concurrency),
	)

	summary, err := batch.Run(ctx, records, batch.Options{
		Mode:        mode,
		Concurrency: concurrency,
		Formatted:   !raw,
	})
	if err != nil {
		return eris.Wrap(err, "batch: run")
	}

	if outPath == "" {
		if err := batch.Write(cmd.OutOrStdout(), format, records); err != nil {
			return err
		}
	} else if err := batch.WriteFile(outPath, format, records); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(cmd.ErrOrStderr(), "%d rows: %d encoded, %d decoded, %d failed in %v\n",
		summary.Total, summary.Encoded, summary.Decoded, summary.Failed, summary.Duration.Round(time.Millisecond))

	if !save {
		return nil
	}
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	n, err := st.ImportPlaces(ctx, batch.Places(records))
	if err != nil {
		return err
	}
	p.Fprintf(cmd.ErrOrStderr(), "%d places saved\n", n)
	return nil
}

// resolveFormat prefers the explicit flag, then the output extension, then csv.
func resolveFormat(flag, outPath string) (batch.Format, error) {
	if flag != "" {
		return batch.ParseFormat(flag)
	}
	if outPath != "" {
		if f, err := batch.FormatFromPath(outPath); err == nil {
			return f, nil
		}
	}
	return batch.FormatCSV, nil
}
