// Package main provides the CLI entrypoint for tuiview.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiview/internal/config"
	"github.com/verte-zerg/tuiview/internal/generator"
	"github.com/verte-zerg/tuiview/internal/logging"
	"github.com/verte-zerg/tuiview/internal/model"
	"github.com/verte-zerg/tuiview/internal/session"
	"github.com/verte-zerg/tuiview/internal/stats"
	"github.com/verte-zerg/tuiview/internal/statsui"
	"github.com/verte-zerg/tuiview/internal/store"
	"github.com/verte-zerg/tuiview/internal/tui"
)

// dotenvPath is read from the working directory before anything else.
const dotenvPath = ".env"

var (
	rootDB       string
	rootLogLevel string
	rootLogFile  string

	interviewBank string
	interviewSeed int64

	dashboardSearch string
	dashboardStatus string
	dashboardSort   string
	dashboardOrder  string

	sessionsID string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiview",
		Short:         "Terminal interview assistant",
		Long:          "Run timed technical interviews in the terminal and review candidates afterwards.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runInterviewCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDB, "db", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFile, "log-file", "", "log file path")
	rootCmd.Flags().StringVar(&interviewBank, "bank", "", "question bank YAML file (default: built-in bank)")
	rootCmd.Flags().Int64Var(&interviewSeed, "seed", 0, "seed for question selection (0 picks a random seed)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newSessionsCmd())
	rootCmd.AddCommand(newResumeCmd())

	return rootCmd
}

// appEnv holds what every data command needs once configuration is resolved.
type appEnv struct {
	file     config.FileConfig
	settings config.Settings
	log      *zap.Logger
	db       *store.Store
}

func openAppEnv(cmd *cobra.Command) (*appEnv, error) {
	env, err := config.LoadEnv(dotenvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	settings := config.Resolve(fileCfg, env)
	applyStringConfig(cmd, "db", &rootDB, &settings.DBPath)
	applyStringConfig(cmd, "log-level", &rootLogLevel, &settings.LogLevel)
	applyStringConfig(cmd, "log-file", &rootLogFile, &settings.LogFile)
	settings.DBPath = rootDB
	settings.LogLevel = rootLogLevel
	settings.LogFile = rootLogFile

	log, err := logging.New(settings.LogFile, settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	db, err := store.Open(settings.DBPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	log.Debug("command ready",
		zap.String("command", cmd.Name()),
		zap.String("db", settings.DBPath))
	return &appEnv{file: fileCfg, settings: settings, log: log, db: db}, nil
}

func (r *appEnv) Close() {
	if err := r.db.Close(); err != nil {
		r.log.Error("failed to close db", zap.Error(err))
		logErrf("failed to close db: %v\n", err)
	}
	// Best-effort flush.
	_ = r.log.Sync()
}

func runInterviewCmd(cmd *cobra.Command, _ []string) error {
	rt, err := openAppEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	applyStringConfig(cmd, "bank", &interviewBank, &rt.settings.BankPath)
	applyInt64Config(cmd, "seed", &interviewSeed, &rt.settings.Seed)
	cfg := model.Config{
		BankPath: interviewBank,
		Seed:     interviewSeed,
		DBPath:   rt.settings.DBPath,
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	sessions, err := session.Open(context.Background(), rt.db, gen, session.WithLogger(rt.log))
	if err != nil {
		return err
	}

	rt.log.Info("starting interview UI",
		zap.String("bank", cfg.BankPath),
		zap.Int64("seed", cfg.Seed))
	ui := tui.NewModel(sessions, rt.log)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newGenerator(cfg model.Config) (*generator.Generator, error) {
	var (
		bank generator.Bank
		err  error
	)
	if cfg.BankPath == "" {
		bank, err = generator.DefaultBank()
	} else {
		bank, err = generator.LoadBank(cfg.BankPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	if cfg.Seed != 0 {
		return generator.NewWithRand(bank, rand.New(rand.NewSource(cfg.Seed)))
	}
	return generator.New(bank)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultFileContents), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Browse candidates and interview statistics",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	addDashboardFlags(cmd)
	return cmd
}

func addDashboardFlags(cmd *cobra.Command) {
	defaults := stats.DefaultDashboardConfig()
	cmd.Flags().StringVar(&dashboardSearch, "search", "", "filter by name, email or phone")
	cmd.Flags().StringVar(&dashboardStatus, "status", defaults.Status, "status filter ("+strings.Join(stats.StatusFilters, ", ")+")")
	cmd.Flags().StringVar(&dashboardSort, "sort", defaults.SortBy, "sort key ("+strings.Join(stats.SortKeys, ", ")+")")
	cmd.Flags().StringVar(&dashboardOrder, "order", defaults.Order, "sort order (asc, desc)")
}

func dashboardConfig(cmd *cobra.Command, fileCfg config.FileConfig) (model.DashboardConfig, error) {
	applyStringConfig(cmd, "status", &dashboardStatus, fileCfg.Dashboard.Status)
	applyStringConfig(cmd, "sort", &dashboardSort, fileCfg.Dashboard.Sort)
	applyStringConfig(cmd, "order", &dashboardOrder, fileCfg.Dashboard.Order)
	cfg := model.DashboardConfig{
		Search: strings.TrimSpace(dashboardSearch),
		Status: dashboardStatus,
		SortBy: dashboardSort,
		Order:  dashboardOrder,
	}
	if err := stats.ValidateDashboardConfig(cfg); err != nil {
		return model.DashboardConfig{}, err
	}
	return cfg, nil
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	rt, err := openAppEnv(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, err := dashboardConfig(cmd, rt.file)
	if err != nil {
		return err
	}
	ui := statsui.NewModel(rt.db, cfg, rt.log)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard TUI: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
