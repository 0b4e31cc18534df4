package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weather-outfit/internal/models"
)

var (
	searchLimit int
	lat, lon    float64
)

var searchCmd = &cobra.Command{
	Use:   "search <place>",
	Short: "List places matching a name",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 5, "maximum number of candidates")
}

func runSearch(cmd *cobra.Command, args []string) error {
	e := envFrom(cmd)
	candidates, err := e.app.Weather.Search(cmd.Context(), strings.Join(args, " "), searchLimit)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no places found")
		return nil
	}
	for i, c := range candidates {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (%.4f, %.4f)\n", i+1, c.Label(), c.Latitude, c.Longitude)
	}
	return nil
}

// selection resolves the place for commands that take one: explicit
// coordinates win, otherwise the best geocoding match is used.
func selection(ctx context.Context, e *env, cmd *cobra.Command, args []string) (models.LocationSelection, error) {
	if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
		if err := models.ValidateCoordinates(lat, lon); err != nil {
			return models.LocationSelection{}, err
		}
		return models.LocationSelection{Latitude: lat, Longitude: lon, Label: strings.Join(args, " ")}, nil
	}
	if len(args) == 0 {
		return models.LocationSelection{}, fmt.Errorf("a place or --lat/--lon is required")
	}

	candidates, err := e.app.Weather.Search(ctx, strings.Join(args, " "), 1)
	if err != nil {
		return models.LocationSelection{}, err
	}
	if len(candidates) == 0 {
		return models.LocationSelection{}, fmt.Errorf("no place matches %q", strings.Join(args, " "))
	}
	return candidates[0].Selection(), nil
}

func addLocationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude instead of a place name")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude instead of a place name")
}
