package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/millesime/barrels/internal/session"
	"github.com/millesime/barrels/internal/tui"
)

// newRootCmd builds the command tree. Running the root command without a
// subcommand opens the interactive shop.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "barrels",
		Short:         "Millésime Sans Frontières barrel shop",
		Long:          `Browse second-life wine barrels, manage your cart and your account from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	root.PersistentFlags().String("env-file", ".env", "Optional .env file loaded before the environment")
	root.PersistentFlags().String("store", "", "Persistence backend: file, redis or memory (overrides MSF_STORE)")
	root.PersistentFlags().Int("log-level", 0, "slog level: -4 debug, 0 info, 4 warn, 8 error (overrides MSF_LOG_LEVEL)")

	defaultHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			printHelp(cmd.OutOrStdout())
			return
		}
		defaultHelp(cmd, args)
	})

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newPasswdCmd(),
		newRefreshCmd(),
		newStatusCmd(),
		newBarrelsCmd(),
		newCategoriesCmd(),
		newCartCmd(),
		newVersionCmd(),
	)
	return root
}

func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close() //nolint:errcheck

	var prog *tea.Program
	s, err := newShop(cmd.Context(), cfg, setupOptions{
		logWriter: logFile,
		sessionOpts: []session.Option{
			session.WithExpiryHook(func() {
				prog.Send(tui.SessionExpiredMsg{})
			}),
		},
	})
	if err != nil {
		return err
	}
	defer s.Close()

	app := tui.NewApp(s.api, s.session, s.cart, s.nav)
	prog = tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	s.session.Start(cmd.Context())

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
