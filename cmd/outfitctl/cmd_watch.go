package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"weather-outfit/internal/models"
	"weather-outfit/internal/services/outfit"
	"weather-outfit/internal/services/weather"
)

var watchCmd = &cobra.Command{
	Use:   "watch [place]",
	Short: "Refresh the weather periodically and keep the outfit current",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addLocationFlags(watchCmd)
	addPreferenceFlags(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	e := envFrom(cmd)
	prefs, err := preferences()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sel, err := selection(ctx, e, cmd, args)
	if err != nil {
		return err
	}

	refresher := weather.NewRefresher(e.app.Weather, e.cfg.Weather.RefreshInterval, e.l)
	w := &watcher{
		session: outfit.NewSession(e.app.Resolver),
		prefs:   prefs,
		unit:    e.unit,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}
	w.run(ctx, func(ctx context.Context, onUpdate func(models.Conditions, error)) {
		refresher.Run(ctx, sel, onUpdate)
	})
	return nil
}

// watcher prints every refresh and keeps the outfit for the latest one.
type watcher struct {
	session *outfit.Session
	prefs   models.OutfitPreferences
	unit    models.Unit
	out     io.Writer
	errOut  io.Writer
}

// run returns only after every outfit request it started has finished, so the
// backends can be closed safely afterwards.
func (w *watcher) run(ctx context.Context, refresh func(context.Context, func(models.Conditions, error))) {
	var wg sync.WaitGroup
	defer wg.Wait()

	refresh(ctx, func(conditions models.Conditions, err error) {
		if err != nil {
			fmt.Fprintln(w.errOut, "weather refresh failed:", err)
			return
		}
		fmt.Fprintln(w.out, formatCurrent(conditions, w.unit))

		// A newer refresh supersedes this one if its key changed.
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := w.session.Request(ctx, outfit.Input{
				Weather:     conditions.Current,
				Preferences: w.prefs,
				Unit:        w.unit,
				Location:    conditions.Location,
			})
			switch {
			case errors.Is(err, outfit.ErrSuperseded), errors.Is(err, context.Canceled):
			case err != nil:
				fmt.Fprintln(w.errOut, "outfit suggestion failed:", err)
			default:
				fmt.Fprintln(w.out, formatSuggestion(res))
			}
		}()
	})
}
