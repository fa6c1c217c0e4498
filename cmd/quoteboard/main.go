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
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var dir string

	root := &cobra.Command{
		Use:   "quoteboard",
		Short: "A live stock quote board",
		Long: `quoteboard serves a small set of reactive widgets over WebSocket.

Widgets:
  • side-drawer      slide-out navigation and contact info
  • stock-finder     company search
  • stock-price      price lookup by symbol
  • tool-tip         click-to-show help text
  • loading-spinner  pending indicator`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dir, "dir", "C", ".", "Directory containing quoteboard.json")

	root.AddCommand(
		serveCmd(&dir),
		renderCmd(&dir),
		versionCmd(),
	)
	return root
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
