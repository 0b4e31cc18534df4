package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weather-outfit/internal/models"
	"weather-outfit/internal/services/outfit"
)

var (
	styleFlag  string
	genderFlag string
)

var outfitCmd = &cobra.Command{
	Use:   "outfit [place]",
	Short: "Suggest an outfit for the current weather",
	RunE:  runOutfit,
}

func init() {
	rootCmd.AddCommand(outfitCmd)
	addLocationFlags(outfitCmd)
	addPreferenceFlags(outfitCmd)
}

func addPreferenceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&styleFlag, "style", "Casual", "Stylish, Casual, Sporty or Formal")
	cmd.Flags().StringVar(&genderFlag, "gender", "female", "female or male")
}

func preferences() (models.OutfitPreferences, error) {
	style, err := models.ParseStyle(styleFlag)
	if err != nil {
		return models.OutfitPreferences{}, err
	}
	gender, err := models.ParseGender(genderFlag)
	if err != nil {
		return models.OutfitPreferences{}, err
	}
	return models.OutfitPreferences{Style: style, Gender: gender}, nil
}

func runOutfit(cmd *cobra.Command, args []string) error {
	e := envFrom(cmd)
	prefs, err := preferences()
	if err != nil {
		return err
	}
	sel, err := selection(cmd.Context(), e, cmd, args)
	if err != nil {
		return err
	}

	conditions, err := e.app.Weather.Lookup(cmd.Context(), sel)
	if err != nil {
		return err
	}

	res, err := e.app.Resolver.Suggest(cmd.Context(), outfit.Input{
		Weather:     conditions.Current,
		Preferences: prefs,
		Unit:        e.unit,
		Location:    conditions.Location,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatCurrent(conditions, e.unit))
	fmt.Fprintln(out, formatSuggestion(res))
	return nil
}
