// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the dent command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dent-cli/internal/image"
)

// Build information. Populated at build-time via -ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// rootFlags holds the values of the root command's flags. They are merged
// with the loaded configuration into an enterOptions value before anything
// touches a container engine.
type rootFlags struct {
	configFile     string
	image          string
	base           string
	tag            string
	engine         string
	buildDir       string
	quiet          bool
	rebuild        bool
	keepBuildDir   bool
	listBaseImages bool
	verbose        bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "dent NAME [COMMAND...]",
	Short: "Enter a persistent development container",
	Long: `Dent drops you into a persistent, named development container,
creating the image and the container on demand.

The first positional argument names the container. Everything after it is
run inside the container instead of the default login shell:

  dent devbox
  dent devbox make test
  dent --base debian:13 devbox`,
	SilenceUsage: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if flags.listBaseImages {
			return nil
		}
		if len(args) < 1 {
			return errors.New("a container name is required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if flags.listBaseImages {
			printBaseImages(cmd.OutOrStdout())
			return nil
		}
		return runEnter(cmd.Context(), flags, args)
	},
}

func init() {
	// Everything after the container name belongs to the command that runs
	// inside the container, so flag parsing must stop at the first
	// positional argument.
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.Flags().StringVar(&flags.configFile, "config", "", "path to the configuration file")
	rootCmd.Flags().StringVarP(&flags.image, "image", "i", "", "enter a container based on this exact image")
	rootCmd.Flags().StringVarP(&flags.base, "base", "b", "", "base image to derive the container image from")
	rootCmd.Flags().StringVarP(&flags.tag, "tag", "t", "", "tag of the derived image (defaults to your username)")
	rootCmd.Flags().StringVar(&flags.engine, "engine", "", "container engine to use (docker or podman)")
	rootCmd.Flags().StringVar(&flags.buildDir, "build-dir", "", "directory to assemble the image build context in")
	rootCmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress image build output")
	rootCmd.Flags().BoolVar(&flags.rebuild, "rebuild", false, "rebuild the image even if it already exists")
	rootCmd.Flags().BoolVar(&flags.keepBuildDir, "keep-build-dir", false, "keep the build context directory after building")
	rootCmd.Flags().BoolVar(&flags.listBaseImages, "list-base-images", false, "list the known base images and exit")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
}

// Execute runs the root command. It is the entry point called from main.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the CLI logger. Debug output is opt-in via --verbose;
// the default level keeps the happy path silent apart from build output.
func newLogger(verbose bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "dent",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func printBaseImages(w io.Writer) {
	fmt.Fprintln(w, TitleStyle.Render("Known base images"))
	for _, base := range image.KnownBaseImages {
		fmt.Fprintf(w, "  %s\n", CmdStyle.Render(base))
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Any image with apt-get and useradd should work as --base."))
}
