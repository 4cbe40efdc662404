package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danhigham/tgcast/internal/broadcast"
	"github.com/danhigham/tgcast/internal/config"
	"github.com/danhigham/tgcast/internal/state"
	"github.com/danhigham/tgcast/internal/targets"
	"github.com/danhigham/tgcast/internal/telegram"
	"github.com/danhigham/tgcast/internal/ui"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

type app struct {
	configPath string
	width      int
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tgcast",
		Short: "Join Telegram groups and broadcast a message to them on a fixed schedule",
		Long: `tgcast logs in as a Telegram user, joins every group listed in the groups
file once, then sends the message file to each group forever, pausing between
messages and between cycles.

Run without a subcommand to start broadcasting.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.broadcast(cmd.Context(), false)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "",
		"config file (default "+filepath.Join(config.Dir(), "config.yaml")+")")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Join the groups once, then broadcast until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.broadcast(cmd.Context(), false)
		},
	}

	joinCmd := &cobra.Command{
		Use:   "join",
		Short: "Join every group in the groups file and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.broadcast(cmd.Context(), true)
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session without broadcasting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd.Context())
		},
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the groups, schedule and rendered message without connecting",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.preview()
		},
	}
	previewCmd.Flags().IntVar(&a.width, "width", 80, "word wrap width")

	root.AddCommand(runCmd, joinCmd, loginCmd, previewCmd)
	return root
}

// loadConfig reads the config file (optional unless --config is given)
// and applies overrides from the environment and ./.env.
func (a *app) loadConfig() (config.Config, error) {
	path := a.configPath
	explicit := path != ""
	if !explicit {
		path = filepath.Join(config.Dir(), "config.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return config.Config{}, err
		}
		cfg = config.Default()
	}

	lookup, err := config.DotenvLookup(".env")
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) newClient(cfg config.Config, logger *zap.Logger) (telegram.Client, error) {
	mode, err := telegram.ParseParseMode(cfg.Telegram.ParseMode)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Telegram.SessionDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	sessionPath := filepath.Join(cfg.Telegram.SessionDir, cfg.Telegram.SessionName+".session.json")

	authFlow := telegram.NewPromptAuth(cfg.Telegram.Phone, ui.NewTermPrompter())
	return telegram.NewGotdClient(
		cfg.Telegram.APIID,
		cfg.Telegram.APIHash,
		sessionPath,
		mode,
		authFlow,
		logger.Named("telegram"),
	), nil
}

func (a *app) broadcast(ctx context.Context, joinOnly bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	groups, err := targets.LoadGroups(cfg.Files.Groups)
	if err != nil {
		return err
	}
	var text string
	if !joinOnly {
		if text, err = targets.LoadMessage(cfg.Files.Message); err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("message file %s is empty", cfg.Files.Message)
		}
	}

	logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := a.newClient(cfg, logger)
	if err != nil {
		return err
	}

	store := state.New()
	svc := broadcast.New(client, broadcast.Delays{
		BetweenMessages: cfg.Delays.MessageDelay(),
		BetweenGroups:   cfg.Delays.GroupDelay(),
		Cycle:           cfg.Delays.CycleDelay(),
	}, logger.Named("broadcast"), broadcast.WithEventHandler(store))

	logger.Info("Bot started",
		zap.Int("groups", targets.Count(groups)),
		zap.String("session", cfg.Telegram.SessionName),
		zap.Bool("join_only", joinOnly),
	)

	err = client.Run(ctx, func(ctx context.Context) error {
		if joinOnly {
			return svc.Sync(ctx, groups)
		}
		return svc.Run(ctx, groups, text)
	})

	sent, failed, limited := store.Totals()
	logger.Info("Bot stopped",
		zap.Int("cycles", store.Cycles()),
		zap.Int("sent", sent),
		zap.Int("failed", failed),
		zap.Int("rate_limited", limited),
	)
	for _, st := range store.Snapshot() {
		logger.Debug("Group summary",
			zap.String("group", st.Group),
			zap.Bool("member", st.Member),
			zap.Bool("joined", st.Joined),
			zap.Int("sent", st.Sent),
			zap.Int("failed", st.Failed),
			zap.String("last_error", st.LastError),
		)
	}

	if ctx.Err() != nil && (err == nil || errors.Is(err, context.Canceled)) {
		return nil
	}
	return err
}

func (a *app) login(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := a.newClient(cfg, logger)
	if err != nil {
		return err
	}
	return client.Run(ctx, func(ctx context.Context) error {
		self := client.Self()
		fmt.Printf("Logged in as %s %s (@%s), session saved.\n", self.FirstName, self.LastName, self.Username)
		return nil
	})
}

func (a *app) preview() error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	mode, err := telegram.ParseParseMode(cfg.Telegram.ParseMode)
	if err != nil {
		return err
	}

	groups, err := targets.LoadGroups(cfg.Files.Groups)
	if err != nil {
		return err
	}
	text, err := targets.LoadMessage(cfg.Files.Message)
	if err != nil {
		return err
	}
	md, err := telegram.PreviewMarkdown(text, mode)
	if err != nil {
		return err
	}

	return ui.RenderPreview(os.Stdout, ui.Preview{
		Groups:   groups,
		Markdown: md,
		Delays:   [3]time.Duration{cfg.Delays.MessageDelay(), cfg.Delays.GroupDelay(), cfg.Delays.CycleDelay()},
		Width:    a.width,
	})
}
