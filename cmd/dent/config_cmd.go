// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dent-cli/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the dent configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration dent would use, after merging the
configuration file with the built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.configFile)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Effective configuration"))
	if dir, err := config.Dir(); err == nil {
		fmt.Fprintln(w, SubtitleStyle.Render("searched in "+dir))
	}
	printConfigEntry(w, "engine", cfg.Engine)
	printConfigEntry(w, "base_image", cfg.BaseImage)
	printConfigEntry(w, "tag", cfg.Tag)
	printConfigEntry(w, "elevate_command", strings.Join(cfg.ElevateCommand, " "))
	printConfigEntry(w, "shell", strings.Join(cfg.Shell, " "))
	printConfigEntry(w, "quiet", fmt.Sprintf("%t", cfg.Quiet))
}

func printConfigEntry(w io.Writer, key, value string) {
	if value == "" {
		value = SubtitleStyle.Render("(unset)")
	} else {
		value = CmdStyle.Render(value)
	}
	fmt.Fprintf(w, "  %-16s %s\n", key, value)
}
