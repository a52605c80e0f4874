package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/gridpoint/internal/model"
	"github.com/sells-group/gridpoint/internal/store"
	"github.com/sells-group/gridpoint/pkg/gpc"
)

var placesCmd = &cobra.Command{
	Use:   "places",
	Short: "Manage the named place registry",
}

var placesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save a place by code or coordinates",
	Example: "  gridpoint places add 'Opera House' --code '#GR94-HF29-9YT'\n" +
		"  gridpoint places add Office --lat 51.50735 --lon -0.12776",
	Args: cobra.ExactArgs(1),
	RunE: runPlacesAdd,
}

var placesGetCmd = &cobra.Command{
	Use:   "get <id|code>",
	Short: "Show a place by ID, or by code when the argument is a valid code",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacesGet,
}

var placesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved places, newest first",
	RunE:  runPlacesList,
}

var placesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a place",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlacesDelete,
}

func init() {
	placesAddCmd.Flags().String("code", "", "Grid Point Code of the place")
	placesAddCmd.Flags().Float64("lat", 0, "latitude of the place")
	placesAddCmd.Flags().Float64("lon", 0, "longitude of the place")
	placesListCmd.Flags().String("name", "", "filter by name substring")
	placesListCmd.Flags().Int("limit", store.DefaultListLimit, "maximum places to list")
	placesListCmd.Flags().Int("offset", 0, "places to skip")

	for _, c := range []*cobra.Command{placesAddCmd, placesGetCmd, placesListCmd} {
		c.Flags().StringP("output", "o", outputText, "output format: text, json, yaml")
	}

	placesCmd.AddCommand(placesAddCmd, placesGetCmd, placesListCmd, placesDeleteCmd)
	rootCmd.AddCommand(placesCmd)
}

func placeInput(cmd *cobra.Command, name string) model.PlaceInput {
	in := model.PlaceInput{Name: name}
	in.Code, _ = cmd.Flags().GetString("code")
	if cmd.Flags().Changed("lat") {
		lat, _ := cmd.Flags().GetFloat64("lat")
		in.Latitude = &lat
	}
	if cmd.Flags().Changed("lon") {
		lon, _ := cmd.Flags().GetFloat64("lon")
		in.Longitude = &lon
	}
	return in
}

func placeLine(p model.Place) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s", p.ID, p.FormattedCode(), p.Coordinates(), p.Name)
}

func runPlacesAdd(cmd *cobra.Command, args []string) error {
	place, err := placeInput(cmd, args[0]).Resolve()
	if err != nil {
		return err
	}

	st, err := initStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	created, err := st.CreatePlace(cmd.Context(), place)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return render(cmd.OutOrStdout(), output, placeLine(*created), created)
}

func runPlacesGet(cmd *cobra.Command, args []string) error {
	st, err := initStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	var place *model.Place
	if gpc.IsValidCode(args[0]).Valid {
		place, err = st.GetPlaceByCode(cmd.Context(), args[0])
	} else {
		place, err = st.GetPlace(cmd.Context(), args[0])
	}
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	return render(cmd.OutOrStdout(), output, placeLine(*place), place)
}

func runPlacesList(cmd *cobra.Command, _ []string) error {
	name, _ := cmd.Flags().GetString("name")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	output, _ := cmd.Flags().GetString("output")

	st, err := initStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	places, err := st.ListPlaces(cmd.Context(), store.PlaceFilter{Name: name, Limit: limit, Offset: offset})
	if err != nil {
		return err
	}

	if output != "" && output != outputText {
		if places == nil {
			places = []model.Place{}
		}
		return render(cmd.OutOrStdout(), output, "", places)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tCOORDINATES\tNAME")
	for _, p := range places {
		fmt.Fprintln(w, placeLine(p))
	}
	return w.Flush()
}

func runPlacesDelete(cmd *cobra.Command, args []string) error {
	st, err := initStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeletePlace(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}
