// Package main is the CLI entry point for screenguard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/momentummm/screenguard/internal/domain"
	"github.com/momentummm/screenguard/internal/infra"
	"github.com/momentummm/screenguard/internal/rules"
	"github.com/momentummm/screenguard/internal/service"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "screenguard",
	Short: "Blocks distracting in-app features (Reels, Shorts, explore feeds)",
	Long: `screenguard watches the foreground app's accessibility tree and reacts
when you navigate into a feature you chose to block: it backs you out and
shows a blocking overlay. Rules live in an encrypted local store.`,
	Version: Version,
}

var runCmd = &cobra.Command{
	Use:   "run <session.jsonl>",
	Short: "Run the blocking pipeline against a captured session",
	Long: `Starts the full pipeline (gate, matcher, reactor) and feeds it the
accessibility events recorded in the given JSONL session file. On a device
the platform delivers events directly; this command is the off-device
equivalent for tuning rules and timing.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage blocking rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all rules and their state",
	RunE:  runRulesList,
}

var rulesEnableCmd = &cobra.Command{
	Use:   "enable <rule-id>",
	Short: "Enable a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleRule(args[0], true) },
}

var rulesDisableCmd = &cobra.Command{
	Use:   "disable <rule-id>",
	Short: "Disable a rule",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleRule(args[0], false) },
}

var scanCmd = &cobra.Command{
	Use:   "scan <tree.json>",
	Short: "Evaluate one UI-tree snapshot against the enabled rules",
	Long: `Loads a captured accessibility tree snapshot and reports which enabled
rules match it. Useful when a detector stops firing after a target app
updates its UI.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run:   runVersion,
}

var (
	configPath  string
	dataDir     string
	scanPackage string
	jsonOutput  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Data directory (rule store, key)")
	scanCmd.Flags().StringVar(&scanPackage, "package", rules.PackageInstagram, "Foreground package the snapshot came from")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesEnableCmd)
	rulesCmd.AddCommand(rulesDisableCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(versionCmd)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".screenguard"
	}
	return filepath.Join(home, ".screenguard")
}

// openStore opens the encrypted rule store, creating key and database on
// first use.
func openStore() (*infra.SQLRuleStore, error) {
	key, err := infra.EnsureKey(infra.NewFileKeyProvider(dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to obtain store key: %w", err)
	}
	store, err := infra.NewSQLRuleStore(dataDir, key)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule store: %w", err)
	}
	return store, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	loader := infra.NewConfigLoader(configPath, dataDir)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logger := createLogger(cfg.LogPath)
	defer func() { _ = logger.Sync() }()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	svc := service.New(
		service.Config{
			OwnPackage:    cfg.OwnPackage,
			Throttle:      cfg.Throttle,
			Cooldown:      cfg.Cooldown,
			EventTimeout:  cfg.EventTimeout,
			QueueCapacity: cfg.QueueCapacity,
		},
		store,
		infra.NewLogNavigator(logger),
		infra.NewLogOverlay(logger),
		infra.NewProcessSessionTracker(),
		domain.SystemClock(),
		logger,
	)

	// Live edits to the config file retune the pipeline without restart.
	loader.Watch(func(next infra.Config) {
		svc.Gate().SetThrottle(next.Throttle)
		svc.Reactor().SetCooldown(next.Cooldown)
		logger.Info("config reloaded",
			zap.Duration("throttle", next.Throttle),
			zap.Duration("cooldown", next.Cooldown))
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	source := infra.NewReplaySource(args[0])
	if err := svc.Run(ctx, source); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runRulesList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	all, err := store.GetAll(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("\n=== Blocking Rules ===")
	for _, r := range all {
		state := "disabled"
		if r.Enabled {
			state = "enabled"
		}
		fmt.Printf("\n[%s] %s — %s (%s)\n", r.RuleID, r.AppName, r.FeatureName, state)
		fmt.Printf("  Package: %s\n", r.TargetPackage)
		fmt.Printf("  Type:    %s\n", r.BlockType)
		if !rules.Supported(r.RuleID) {
			fmt.Println("  Warning: no detector registered; this rule never fires")
		}
	}

	fmt.Println("\nSupported detectors:")
	for _, id := range rules.SupportedRuleIDs() {
		fmt.Printf("  - %s\n", id)
	}
	fmt.Println("\n======================")
	return nil
}

func toggleRule(id string, enabled bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SetEnabled(context.Background(), domain.RuleID(id), enabled); err != nil {
		return err
	}
	if enabled {
		fmt.Printf("Rule %s enabled\n", id)
	} else {
		fmt.Printf("Rule %s disabled\n", id)
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	root, err := infra.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	enabled, err := store.GetEnabledRulesForPackage(context.Background(), scanPackage)
	if err != nil {
		return err
	}
	if len(enabled) == 0 {
		fmt.Printf("No enabled rules for %s\n", scanPackage)
		return nil
	}

	matched := 0
	for _, r := range enabled {
		if rules.Match(r.RuleID, root) {
			fmt.Printf("MATCH  %s (%s / %s)\n", r.RuleID, r.AppName, r.FeatureName)
			matched++
		} else {
			fmt.Printf("-      %s\n", r.RuleID)
		}
	}
	if matched == 0 {
		fmt.Println("\nNo rule matched this snapshot.")
	}
	return nil
}

func createLogger(logPath string) *zap.Logger {
	if logPath == "" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{logPath}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := config.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("screenguard %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
