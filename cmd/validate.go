package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gridpoint/pkg/gpc"
)

// errInvalid makes the process exit non-zero after the result is printed.
var errInvalid = eris.New("invalid")

var validateCmd = &cobra.Command{
	Use:   "validate [code]",
	Short: "Check a code or a coordinate pair",
	Long:  "Prints the validity and failure reason. Exits non-zero when the input is invalid.",
	Example: "  gridpoint validate '#DCCC-CCCC-CCC'\n" +
		"  gridpoint validate --lat 91 --lon 0",
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().Float64("lat", 0, "latitude to check")
	validateCmd.Flags().Float64("lon", 0, "longitude to check")
	validateCmd.Flags().StringP("output", "o", outputText, "output format: text, json, yaml")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	var v gpc.Validation
	switch {
	case len(args) == 1:
		v = gpc.IsValidCode(args[0])
	case cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon"):
		lat, _ := cmd.Flags().GetFloat64("lat")
		lon, _ := cmd.Flags().GetFloat64("lon")
		v = gpc.IsValidCoordinates(lat, lon)
	default:
		return eris.New("validate: pass a code or --lat and --lon")
	}

	text := "valid"
	if !v.Valid {
		text = "invalid: " + string(v.Reason)
	}
	if err := render(cmd.OutOrStdout(), output, text, v); err != nil {
		return err
	}
	if !v.Valid {
		cmd.SilenceErrors = true
		return errInvalid
	}
	return nil
}
