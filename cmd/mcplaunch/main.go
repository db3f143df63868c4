package main

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/config"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/launcher"
	"github.com/ZebulonRouseFrantzich/mcplaunch/internal/logging"
)

func main() {
	// The child shares the terminal and handles Ctrl-C itself. The launcher
	// keeps running so it can relay the child's exit code.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)

	code := run(context.Background(), os.Args[1:], config.OSEnv(), os.Stderr)

	signal.Stop(interrupts)
	os.Exit(code)
}

// run executes the launcher with args and returns the process exit code.
func run(ctx context.Context, args []string, env config.Env, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args for nil.
		args = []string{}
	}

	code := 0
	root := newRootCommand(env, stderr, &code)
	root.SetArgs(args)
	root.SetOut(stderr)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		logging.NewReporter(stderr).Reportf("Error running executable: %v", err)
		return 1
	}
	return code
}

func newRootCommand(env config.Env, stderr io.Writer, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-digitalocean [--verbose] [args...]",
		Short: "Run the DigitalOcean MCP server built for this platform",
		Long: `Runs the DigitalOcean MCP server executable that matches this operating
system and architecture, forwarding every argument except --verbose and
exiting with the server's exit code.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(env)
			if err != nil {
				return err
			}

			l, err := launcher.New(launcher.Options{Config: cfg, Stderr: stderr})
			if err != nil {
				return err
			}

			*code = l.Run(cmd.Context(), args)
			return nil
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}
