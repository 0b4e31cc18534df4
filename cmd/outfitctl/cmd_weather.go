package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var weatherCmd = &cobra.Command{
	Use:   "weather [place]",
	Short: "Show current weather and the upcoming forecast",
	RunE:  runWeather,
}

func init() {
	rootCmd.AddCommand(weatherCmd)
	addLocationFlags(weatherCmd)
}

func runWeather(cmd *cobra.Command, args []string) error {
	e := envFrom(cmd)
	sel, err := selection(cmd.Context(), e, cmd, args)
	if err != nil {
		return err
	}

	conditions, err := e.app.Weather.Lookup(cmd.Context(), sel)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, formatCurrent(conditions, e.unit))
	for _, slot := range conditions.Forecast {
		fmt.Fprintln(out, formatSlot(slot, e.unit))
	}
	return nil
}
