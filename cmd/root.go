package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"carsync/internal/db"
	"carsync/internal/model"
	"carsync/internal/remote"
	"carsync/internal/server"
	"carsync/internal/store"
	"carsync/internal/ui"
	"carsync/internal/util"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// Run builds the CLI and runs it with args.
func Run(version string, args []string) error {
	return NewApp(version).Run(args)
}

// NewApp returns the carsync command tree. Running it with no command starts
// the TUI.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "carsync",
		Usage:   "browse and edit a car collection kept by a REST service",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "base URL of the cars service (default: " + DefaultAPIURL + ")"},
			&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout"},
			&cli.StringFlag{Name: "log-level", Usage: "log level (debug, info, warn, error)"},
		},
		Action: tuiAction,
		Commands: []*cli.Command{
			{
				Name:   "tui",
				Usage:  "start the interactive terminal UI",
				Action: tuiAction,
			},
			{
				Name:  "list",
				Usage: "print the collection once",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sort", Usage: "sort by year or price"},
					&cli.BoolFlag{Name: "desc", Usage: "sort descending"},
				},
				Action: listAction,
			},
			{
				Name:  "serve",
				Usage: "run the SQLite-backed development service",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Usage: "path to SQLite database file (default: ~/.carsync/cars.db)"},
					&cli.StringFlag{Name: "addr", Usage: "listen address"},
					&cli.BoolFlag{Name: "seed", Usage: "insert sample cars into an empty database"},
				},
				Action: serveAction,
			},
		},
	}
}

// configFromContext layers flags over the env-derived config.
func configFromContext(c *cli.Context) (*Config, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	if c.IsSet("api-url") {
		config.APIURL = c.String("api-url")
	}
	if c.IsSet("timeout") {
		config.Timeout = c.Duration("timeout")
	}
	if c.IsSet("log-level") {
		config.LogLevel = c.String("log-level")
	}
	if c.IsSet("db") {
		config.DBPath = c.String("db")
	}
	if c.IsSet("addr") {
		config.Addr = c.String("addr")
	}
	return config, nil
}

// resolveAPIURL picks the service URL: flag or env, then saved settings, then
// first-run setup, then the default.
func resolveAPIURL(config *Config, interactive bool) (string, error) {
	if config.APIURL != "" {
		return validateAPIURL(config.APIURL)
	}

	settings, err := loadSettings(config.ConfigDir)
	if err != nil {
		return "", errors.Wrap(err, "failed to load settings")
	}
	if interactive && shouldRunOnboarding(settings) {
		settings, err = runOnboarding(config.ConfigDir, "")
		if err != nil {
			return "", errors.Wrap(err, "failed to run onboarding")
		}
	}
	if settings.APIURL != "" {
		return validateAPIURL(settings.APIURL)
	}
	return DefaultAPIURL, nil
}

func tuiAction(c *cli.Context) error {
	config, err := configFromContext(c)
	if err != nil {
		return err
	}
	if err := config.ensureConfigDir(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(config.LogLevel, config.LogFile, c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer closeLog()

	apiURL, err := resolveAPIURL(config, true)
	if err != nil {
		return err
	}
	logger.WithField("api_url", apiURL).Info("starting tui")

	client := remote.NewClient(apiURL, config.Timeout, logger)
	s := store.New(client, logger)
	prefsPath, err := ui.DefaultPrefsPath()
	if err != nil {
		logger.WithError(err).Warn("using default ui preferences")
	}
	app := ui.New(s, ui.Options{
		BaseURL:   apiURL,
		PrefsPath: prefsPath,
		TermCaps:  ui.DetectTerminalCapabilities(),
		Logger:    logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "error running app")
	}
	return nil
}

func listAction(c *cli.Context) error {
	config, err := configFromContext(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(config.LogLevel, "", c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer closeLog()

	sortKey := model.SortKey(c.String("sort"))
	switch sortKey {
	case model.SortNone, model.SortYear, model.SortPrice:
	default:
		return errors.Errorf("unknown sort %q, use year or price", sortKey)
	}

	apiURL, err := resolveAPIURL(config, false)
	if err != nil {
		return err
	}

	s := store.New(remote.NewClient(apiURL, config.Timeout, logger), logger)
	if err := s.Do(c.Context, s.FetchAll()); err != nil {
		return err
	}
	if msg := s.Err(); msg != "" {
		return errors.Errorf("fetch cars: %s", msg)
	}

	if sortKey != model.SortNone {
		s.SelectSort(sortKey)
		if c.Bool("desc") {
			s.SelectSort(sortKey)
		}
	}

	_, err = fmt.Fprintln(c.App.Writer, renderCarTable(s.Rows()))
	return err
}

func renderCarTable(cars []model.Car) string {
	rows := make([][]string, 0, len(cars))
	for _, car := range cars {
		rows = append(rows, []string{
			car.ID.String(),
			util.FormatText(car.Name),
			util.FormatText(car.Model),
			util.FormatYear(car.Year),
			util.FormatPrice(car.Price),
			util.FormatText(car.Color),
			util.FormatCoords(car.Latitude, car.Longitude),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "MODEL", "YEAR", "PRICE", "COLOR", "COORDS").
		Rows(rows...).
		String()
}

func serveAction(c *cli.Context) error {
	config, err := configFromContext(c)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(config.LogLevel, "", c.App.ErrWriter)
	if err != nil {
		return err
	}
	defer closeLog()

	conn, err := db.Open(config.DBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer conn.Close()

	if c.Bool("seed") {
		n, err := db.SeedCars(conn, SampleCars())
		if err != nil {
			return err
		}
		logger.WithField("count", n).Info("seeded cars")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithField("db", config.DBPath).Info("serving cars")
	return server.Serve(ctx, config.Addr, server.Router(conn, logger), logger)
}

// SampleCars is the data `serve --seed` starts from.
func SampleCars() []model.Car {
	return []model.Car{
		{ID: model.NewID(1), Name: "Lada", Model: "Vesta", Year: 2019, Color: "white", Price: model.Float(12500), Latitude: model.Float(59.9386), Longitude: model.Float(30.3141)},
		{ID: model.NewID(2), Name: "Volvo", Model: "XC60", Year: 2021, Color: "black", Price: model.Float(41000), Latitude: model.Float(59.9311), Longitude: model.Float(30.3609)},
		{ID: model.NewID(3), Name: "Skoda", Model: "Octavia", Year: 2017, Color: "grey", Price: model.Float(14900)},
		{ID: model.NewID(4), Name: "Toyota", Model: "Camry", Year: 2022, Color: "blue", Latitude: model.Float(59.9570), Longitude: model.Float(30.3080)},
	}
}
