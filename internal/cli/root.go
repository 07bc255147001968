package cli

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
	flagHost string
	flagPort int
	flagKey  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "policyctl",
	Short: "Policyctl - websocket policy client tooling",
	Long: `Policyctl talks to a remote inference server over websocket.
It can fetch the server's metadata, run one-off inference calls from
JSON observation files, and run a local echo server for development.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.policyctl/policyctl.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "", "policy server host (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagPort, "port", 0, "policy server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "API key presented during the handshake (overrides config)")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
