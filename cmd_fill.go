package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/client"
	"github.com/tim-martinez/node-form/internal/logging"
	"github.com/tim-martinez/node-form/internal/models"
	"github.com/tim-martinez/node-form/internal/questionnaire"
	"github.com/tim-martinez/node-form/internal/session"
	"github.com/tim-martinez/node-form/internal/tui"
)

const formFetchTimeout = 3 * time.Second

var (
	fillLogFile   string
	fillLocalForm bool
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in the questionnaire in the terminal",
	Long: `Opens the questionnaire wizard and submits answers to the server.

The form is taken from the server's /api/form unless a definition file is
configured or --local-form is given. Logs go to --log-file only.`,
	Args: cobra.NoArgs,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVar(&fillLogFile, "log-file", "", "Write logs to this file (default: discard)")
	fillCmd.Flags().BoolVar(&fillLocalForm, "local-form", false, "Use the local form definition instead of the server's")
}

func runFill(cmd *cobra.Command, args []string) error {
	log, closeLog, err := logging.NewFile(fillLogFile, verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	c := client.New(cfg.Client.ServerURL, nil)
	form, err := resolveForm(cmd.Context(), c, log)
	if err != nil {
		return err
	}

	ctrl := session.New(form, c,
		session.WithSubmitTimeout(cfg.Client.SubmitTimeout),
		session.WithLogger(log))
	m := tui.NewModel(ctrl, log)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}
	if id := m.Submitted(); id != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Last submission: %s\n", id)
	}
	return nil
}

// resolveForm picks the configured definition file, else the server's form,
// else the built-in questionnaire.
func resolveForm(ctx context.Context, c *client.Client, log *zap.Logger) (*models.Form, error) {
	if cfg.Form.Path != "" || fillLocalForm {
		return questionnaire.Load(cfg.Form.Path)
	}
	ctx, cancel := context.WithTimeout(ctx, formFetchTimeout)
	defer cancel()
	form, err := c.Form(ctx)
	if err == nil {
		err = questionnaire.Validate(form)
	}
	if err != nil {
		log.Warn("server form unavailable, using built-in", zap.String("server", cfg.Client.ServerURL), zap.Error(err))
		return questionnaire.Facility(), nil
	}
	return form, nil
}
