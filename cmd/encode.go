package main

import (
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gridpoint/pkg/gpc"
)

type codeResult struct {
	Code      string  `json:"code" yaml:"code"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

var encodeCmd = &cobra.Command{
	Use:   "encode <latitude> <longitude>",
	Short: "Encode a coordinate pair as a Grid Point Code",
	Long: "Encodes a latitude/longitude pair. Values are truncated to 5 fractional digits.\n" +
		"Put -- before negative coordinates so they are not read as flags.",
	Example: "  gridpoint encode 40.71277 -- -74.00597\n  gridpoint encode --raw -- -33.86882 151.20929",
	Args:    cobra.ExactArgs(2),
	RunE:    runEncode,
}

func init() {
	encodeCmd.Flags().Bool("raw", false, "print the bare 11-character code without # and dashes")
	encodeCmd.Flags().StringP("output", "o", outputText, "output format: text, json, yaml")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetBool("raw")
	output, _ := cmd.Flags().GetString("output")

	lat, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return eris.Errorf("latitude %q is not a number", args[0])
	}
	lon, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return eris.Errorf("longitude %q is not a number", args[1])
	}

	code, err := gpc.EncodeWithFormat(lat, lon, !raw)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), output, code, codeResult{Code: code, Latitude: lat, Longitude: lon})
}
