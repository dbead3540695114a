package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swipekit",
		Short: "Server-driven drag-to-reveal interactions for list rows",
		Long: `SwipeKit runs the swipe-to-reveal interaction state machine on the
server: browser pointer events stream in over WebSocket, the server
computes reveal transforms, and view patches stream back.

The serve command runs a demo list with left/right reveal panels and
swipe-to-delete rows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("swipekit %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
