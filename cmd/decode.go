package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/gridpoint/internal/geo"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

var decodeCmd = &cobra.Command{
	Use:     "decode <code>",
	Short:   "Decode a Grid Point Code to latitude and longitude",
	Long:    "Decodes a code with or without the # prefix and dashes. Case and whitespace are ignored.",
	Example: "  gridpoint decode '#FKC8-FC1C-5V9'\n  gridpoint decode fkc8fc1c5v9 -o geojson",
	Args:    cobra.ExactArgs(1),
	RunE:    runDecode,
}

func init() {
	decodeCmd.Flags().StringP("output", "o", outputText, "output format: text, json, yaml, geojson")
	rootCmd.AddCommand(decodeCmd)
}

func runDecode(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	c, err := gpc.Decode(args[0])
	if err != nil {
		return err
	}
	code := gpc.FormatCode(gpc.Normalize(args[0]))

	if output == outputGeoJSON {
		data, err := geo.Feature(code, c, nil).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(append(data, '\n'))
		return err
	}
	return render(cmd.OutOrStdout(), output, c.String(),
		codeResult{Code: code, Latitude: c.Latitude, Longitude: c.Longitude})
}
