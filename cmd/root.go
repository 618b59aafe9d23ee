// Package cmd wires the monitor command tree. The root command starts the
// terminal UI; subcommands run headless sweeps and single-endpoint queries.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/manufgue/Monitor/internal/config"
	"github.com/manufgue/Monitor/internal/engine"
	"github.com/manufgue/Monitor/internal/model"
	"github.com/manufgue/Monitor/internal/tui"
)

// Execute runs the command tree and reports failures through the exit code.
func Execute() error {
	return newRootCmd().Execute()
}

// rootFlags carries the persistent flags shared by every command. Empty
// values mean "use the configured setting".
type rootFlags struct {
	config  string
	targets string
	timeout time.Duration
	user    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "monitor",
		Short: "Terminal monitor for Enterprise Server active PCT counters",
		Long: "monitor polls the admin API of every configured Enterprise Server host\n" +
			"for active PCT counters and aggregates them into one fleet view.\n\n" +
			"Without a subcommand it starts the interactive terminal UI. Credentials\n" +
			"come from monitor.yaml or MONITOR_USER/MONITOR_PASSWORD; --user overrides\n" +
			"the account name, and the UI login form can supply both at runtime.",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI(flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "settings file (default: monitor.yaml on the search path)")
	pf.StringVar(&flags.targets, "targets", "", "targets file, overrides the configured path")
	pf.DurationVar(&flags.timeout, "timeout", 0, "per-fetch timeout, overrides the configured value")
	pf.StringVar(&flags.user, "user", "", "admin account, overrides the configured user")

	rootCmd.AddCommand(
		newSweepCmd(flags),
		newQueryCmd(flags),
		newVersionCmd(),
	)

	return rootCmd
}

func runTUI(flags *rootFlags) error {
	rt, err := buildRuntime(flags)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so watcher logs go nowhere.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan []model.HostTarget, 1)
	go func() {
		_ = config.Watch(watchCtx, rt.settings.Targets, logger, func(targets []model.HostTarget) {
			pushLatest(reloads, targets)
		})
	}()

	coord := engine.NewCoordinator(rt.engine)
	defer coord.Close()

	app := tui.NewApp(coord, rt.engine, rt.targets, rt.creds, reloads)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

// pushLatest delivers a reload without ever blocking the watcher goroutine.
// When the UI has not consumed the previous set yet, the stale one is
// dropped in favor of the newer one.
func pushLatest(ch chan []model.HostTarget, targets []model.HostTarget) {
	for {
		select {
		case ch <- targets:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
