package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/internal/controller"
	"github.com/dyike/ForecastGo/internal/theme"
	"github.com/dyike/ForecastGo/internal/tui"
)

// runDashboard starts the interactive dashboard. Edits to the config file
// are delivered to the running program as ConfigChanged messages.
func runDashboard(ctx context.Context, a *app) error {
	th := theme.Load(a.store, a.log)
	state := controller.NewState(th, a.cfg.DefaultAsset, a.cfg.DefaultPeriod, a.log)
	ctrl := controller.New(state, a.client, controller.Options{BannerTimeout: a.cfg.BannerTimeout()}, a.log)

	p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen(), tea.WithContext(ctx))

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.manager.SetLogger(a.log)
	err := a.manager.Watch(watchCtx, func(cfg config.Config) {
		p.Send(controller.ConfigChanged{Config: a.effective(cfg)})
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("config watch disabled")
	}

	a.log.Info().Str("backend", a.cfg.BackendURL).Msg("dashboard started")
	_, err = p.Run()
	return err
}
