package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/five82/arbor/internal/app"
)

// NewRootCmd creates the root command for arbor.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arbor",
		Short: "Terminal viewer for a shared growth tree",
		Long: `arbor polls a growth tree backend and shows the tree image for the stage
its interaction counter has reached, animating through stages as it grows.

Without a subcommand arbor starts the viewer when stdout is a terminal and
falls back to watch mode otherwise.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stdoutIsTerminal() {
				return runView(cmd)
			}
			return runWatch(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/arbor/config.toml)")
	flags.String("prefs", "", "preferences file (default $XDG_CONFIG_HOME/arbor/prefs.toml)")
	flags.String("api-url", "", "backend URL, overrides api_url")
	flags.Int("poll", 0, "poll interval in seconds until the backend sets one")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewViewCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewStatsCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewDemoCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// optionsFrom reads the persistent flags.
func optionsFrom(cmd *cobra.Command) app.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	prefsPath, _ := flags.GetString("prefs")
	apiURL, _ := flags.GetString("api-url")
	poll, _ := flags.GetInt("poll")
	verbose, _ := flags.GetBool("verbose")
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		APIURL:     apiURL,
		PollEvery:  poll,
		Verbose:    verbose,
		Version:    getVersion(),
	}
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
