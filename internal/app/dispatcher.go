package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/MarcMan710/PosTask/internal/config"
	"github.com/MarcMan710/PosTask/internal/services"
)

var globalCron *cron.Cron

// MustStartDispatcher runs the notification dispatcher on a fixed
// interval. SkipIfStillRunning guarantees ticks never overlap: a slow
// batch simply swallows the next tick.
func MustStartDispatcher() {
	cfg := config.Global().Dispatcher
	dispatcher := services.NewDispatcher(globalLogger,
		globalNotificationService, globalMailer)

	globalCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	spec := fmt.Sprintf("@every %s", cfg.Interval)
	_, err := globalCron.AddFunc(spec, func() {
		dispatcher.RunOnce(context.Background())
	})
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("spec", spec).
			Msg("failed to schedule dispatcher")
		panic(err)
	}

	globalCron.Start()
	globalLogger.Info().
		Dur("interval", cfg.Interval).
		Msg("started notification dispatcher")
}

func StopDispatcher() {
	// Stop returns a context that is done once running jobs finish.
	<-globalCron.Stop().Done()
	globalLogger.Info().Msg("stopped notification dispatcher")
}
