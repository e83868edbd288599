package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tim-martinez/node-form/internal/config"
	"github.com/tim-martinez/node-form/internal/questionnaire"
)

var configForce bool

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Print the active form definition as YAML",
	Args:  cobra.NoArgs,
	RunE:  runForm,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the node-form config file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a commented default config file",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func runForm(cmd *cobra.Command, args []string) error {
	form, err := questionnaire.Load(cfg.Form.Path)
	if err != nil {
		return err
	}
	return questionnaire.EncodeYAML(cmd.OutOrStdout(), form)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.Template), 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
