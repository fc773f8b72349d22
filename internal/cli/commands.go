package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyike/ForecastGo/config"
	"github.com/dyike/ForecastGo/consts"
	"github.com/dyike/ForecastGo/internal/chart"
	"github.com/dyike/ForecastGo/internal/forecast"
	"github.com/dyike/ForecastGo/internal/history"
	"github.com/dyike/ForecastGo/internal/portfolio"
	"github.com/dyike/ForecastGo/internal/theme"
	"github.com/dyike/ForecastGo/models"
)

const version = "v1.0.0"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "forecastgo",
		Short: "ForecastGo - cryptocurrency price forecasts in the terminal",
		Long: `ForecastGo is a terminal client for a cryptocurrency forecasting backend.
It requests price forecasts and analyst narratives, tracks prediction history,
charts historical prices and manages a simple portfolio.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsApp(cmd) {
				return nil
			}
			return a.setup(!cmd.HasParent())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDashboard(cmd.Context(), a)
		},
	}

	rootCmd.AddCommand(newPredictCmd(a))
	rootCmd.AddCommand(newAnalyzeCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newChartCmd(a))
	rootCmd.AddCommand(newPortfolioCmd(a))
	rootCmd.AddCommand(newThemeCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&a.backendURL, "backend", "", "Backend base URL (overrides config)")

	return rootCmd
}

// resolveAsset takes the asset from args, or asks for one.
func resolveAsset(a *app, args []string) (string, error) {
	if len(args) > 0 {
		asset := strings.ToUpper(strings.TrimSpace(args[0]))
		if !consts.IsAsset(asset) {
			return "", fmt.Errorf("unknown asset %q (supported: %s)", asset, strings.Join(consts.AssetSymbols(), ", "))
		}
		return asset, nil
	}
	return PromptForAsset(a.cfg.DefaultAsset)
}

func newPredictCmd(a *app) *cobra.Command {
	var (
		days    int
		analyze bool
	)
	cmd := &cobra.Command{
		Use:   "predict [ASSET]",
		Short: "Forecast the price of a cryptocurrency",
		Long: `Request a price forecast from the backend.
Example: forecastgo predict BTC --analyze`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := resolveAsset(a, args)
			if err != nil {
				return err
			}
			return runPredict(cmd, a, asset, days, analyze)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Forecast horizon in days (backend default when 0)")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Also request the analyst narrative")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [ASSET]",
		Short: "Forecast a cryptocurrency and request the analyst narrative",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset, err := resolveAsset(a, args)
			if err != nil {
				return err
			}
			return runPredict(cmd, a, asset, 0, true)
		},
	}
}

func runPredict(cmd *cobra.Command, a *app, asset string, days int, analyze bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	desk := forecast.NewDesk(a.log)
	if _, err := desk.Forecast(ctx, a.client, asset, days); err != nil {
		return fmt.Errorf("forecast %s: %w", asset, err)
	}
	printForecast(out, desk.View())
	if !analyze {
		return nil
	}
	_, err := desk.Analyze(ctx, a.client)
	printAnalysis(out, desk.View())
	if err != nil {
		return fmt.Errorf("analysis %s: %w", asset, err)
	}
	return nil
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show past predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := history.NewCache(a.log)
			if err := cache.Refresh(cmd.Context(), a.client); err != nil {
				return fmt.Errorf("history: %w", err)
			}
			printHistory(cmd.OutOrStdout(), cache.View())
			return nil
		},
	}
}

func newChartCmd(a *app) *cobra.Command {
	var (
		days     int
		htmlPath string
		width    int
		height   int
	)
	cmd := &cobra.Command{
		Use:   "chart [ASSET]",
		Short: "Chart historical prices",
		Long: `Draw the price history of an asset in the terminal, or write it as an
HTML document with --html.
Example: forecastgo chart ETH --days 90 --html eth.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asset := a.cfg.DefaultAsset
			if len(args) > 0 {
				var err error
				if asset, err = resolveAsset(a, args); err != nil {
					return err
				}
			}
			if days == 0 {
				days = a.cfg.DefaultPeriod
			}
			if !consts.IsPeriod(days) {
				return fmt.Errorf("unsupported period %d (use 7, 30, 90 or 365)", days)
			}

			dark := theme.Load(a.store, a.log).Dark()
			r := chart.NewRenderer(width, height, a.log)
			if err := r.Load(cmd.Context(), a.client, asset, days, dark); err != nil {
				return fmt.Errorf("chart %s: %w", asset, err)
			}
			if htmlPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), r.View())
				return nil
			}
			return writeChartHTML(r, htmlPath)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "Period in days: 7, 30, 90 or 365")
	cmd.Flags().StringVar(&htmlPath, "html", "", "Write the chart as an HTML document to this file")
	cmd.Flags().IntVar(&width, "width", 72, "Terminal chart width")
	cmd.Flags().IntVar(&height, "height", 16, "Terminal chart height")
	return cmd
}

func writeChartHTML(r *chart.Renderer, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := r.WriteHTML(f); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func newPortfolioCmd(a *app) *cobra.Command {
	portfolioCmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show and manage holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger := portfolio.NewLedger(a.log)
			if err := ledger.Refresh(cmd.Context(), a.client); err != nil {
				return fmt.Errorf("portfolio: %w", err)
			}
			printPortfolio(cmd.OutOrStdout(), ledger.View())
			return nil
		},
	}

	portfolioCmd.AddCommand(&cobra.Command{
		Use:   "add [ASSET AMOUNT PRICE]",
		Short: "Add a holding",
		Long: `Add a holding bought at PRICE USD per unit. Prompts for the fields when
none are given.
Example: forecastgo portfolio add BTC 0.5 45000`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 3 {
				return fmt.Errorf("expected ASSET AMOUNT PRICE, got %d argument(s)", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var asset, amount, price string
			if len(args) == 3 {
				asset, amount, price = args[0], args[1], args[2]
			} else {
				var err error
				if asset, amount, price, err = PromptForHolding(a.cfg.DefaultAsset); err != nil {
					return err
				}
			}
			in, err := portfolio.ParseInput(asset, amount, price)
			if err != nil {
				return err
			}
			ledger := portfolio.NewLedger(a.log)
			created, err := ledger.Add(cmd.Context(), a.client, in)
			if err != nil {
				return fmt.Errorf("add holding: %w", err)
			}
			out := cmd.OutOrStdout()
			DisplaySuccess(out, fmt.Sprintf("%s (id %s)", consts.MsgHoldingAdded, created.ID))
			printPortfolio(out, ledger.View())
			return nil
		},
	})

	var yes bool
	removeCmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a holding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer portfolio.Confirmer = surveyConfirmer{}
			if yes {
				confirmer = yesConfirmer{}
			}
			ledger := portfolio.NewLedger(a.log)
			removed, err := ledger.Remove(cmd.Context(), a.client, confirmer, models.HoldingID(args[0]))
			if err != nil {
				return fmt.Errorf("remove holding %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			if !removed {
				DisplayInfo(out, "Nothing removed")
				return nil
			}
			DisplaySuccess(out, consts.MsgHoldingRemoved)
			printPortfolio(out, ledger.View())
			return nil
		},
	}
	removeCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking")
	portfolioCmd.AddCommand(removeCmd)

	return portfolioCmd
}

func newThemeCmd(a *app) *cobra.Command {
	show := func(cmd *cobra.Command, st *theme.State) {
		name := "light"
		if st.Dark() {
			name = "dark"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", st.Icon(), name)
	}

	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the color theme",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			show(cmd, theme.Load(a.store, a.log))
		},
	}
	themeCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current theme",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			show(cmd, theme.Load(a.store, a.log))
		},
	})
	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := theme.Load(a.store, a.log)
			if err := st.Toggle(); err != nil {
				return fmt.Errorf("save theme: %w", err)
			}
			show(cmd, st)
			return nil
		},
	})
	return themeCmd
}

// newConfigCmd creates the config command
func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration management",
		Long:        "Manage ForecastGo configuration settings",
		Annotations: map[string]string{"standalone": "true"},
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), a.cfg, a.manager.Path())
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and reach the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(cmd, a)
		},
	})

	var reset bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			if reset {
				cfg, err := a.manager.Reset()
				if err != nil {
					return fmt.Errorf("reset config: %w", err)
				}
				a.cfg = a.effective(cfg)
			}
			if err := a.cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			DisplaySuccess(cmd.OutOrStdout(), "Configuration at "+a.manager.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVar(&reset, "reset", false, "Overwrite the file with the defaults")
	configCmd.AddCommand(initCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change one setting in the configuration file",
		Long: "Change one setting in the configuration file. A running dashboard picks up the change.\n\nKeys: " +
			strings.Join(config.SettableKeys, ", "),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}
			stored, err := a.manager.Set(args[0], args[1])
			if err != nil {
				return err
			}
			value, _ := stored.Value(args[0])
			DisplaySuccess(cmd.OutOrStdout(), fmt.Sprintf("%s = %s", args[0], value))
			return nil
		},
	})

	return configCmd
}

// validateConfig checks the configuration values, then the data
// directories, then that the backend answers.
func validateConfig(cmd *cobra.Command, a *app) error {
	out := cmd.OutOrStdout()
	if err := a.loadConfig(); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		DisplayError(out, err)
		return fmt.Errorf("configuration is invalid")
	}
	DisplaySuccess(out, "Configuration values")

	if err := a.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("directory validation failed: %w", err)
	}
	DisplaySuccess(out, "Data directories")

	if err := a.setup(false); err != nil {
		return err
	}
	if _, err := a.client.History(cmd.Context()); err != nil {
		var te *models.TransportError
		if errors.As(err, &te) && te.StatusCode == 0 {
			return fmt.Errorf("backend %s unreachable: %w", a.cfg.BackendURL, err)
		}
		DisplayInfo(out, "Backend answered with an error: "+err.Error())
		return nil
	}
	DisplaySuccess(out, "Backend "+a.cfg.BackendURL)
	return nil
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{"standalone": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ForecastGo "+version)
			fmt.Fprintln(cmd.OutOrStdout(), "Cryptocurrency price forecasts in the terminal")
		},
	}
}
