package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/robolink/policyclient/pkg/policyserver"
)

var (
	servePort     int
	serveKey      string
	serveMetadata string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local echo policy server",
	Long: `Run a websocket policy server backed by an echo policy that
returns each observation unchanged. Intended for developing and
smoke-testing clients without a real model.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "serve-port", 8000, "port to listen on")
	serveCmd.Flags().StringVar(&serveKey, "serve-api-key", "", "require this API key from clients")
	serveCmd.Flags().StringVar(&serveMetadata, "metadata", `{"policy":"echo"}`, "metadata JSON sent to clients on connect")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	_, log, err := loadSetup()
	if err != nil {
		return err
	}
	defer log.Close()

	var metadata map[string]any
	if err := json.Unmarshal([]byte(serveMetadata), &metadata); err != nil {
		return fmt.Errorf("parse metadata: %w", err)
	}

	server, err := policyserver.NewServer(policyserver.Config{
		Port:     servePort,
		Policy:   policyserver.EchoPolicy{},
		Metadata: metadata,
		APIKey:   serveKey,
		Logger:   log.GetZerolog(),
	})
	if err != nil {
		return err
	}

	if err := server.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	return server.Stop()
}
