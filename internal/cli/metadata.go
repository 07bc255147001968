package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Print the policy server's metadata",
	Long: `Connect to the policy server, capture the metadata it sends on
connect and print it as JSON. Blocks until the server is reachable.`,
	RunE: runMetadata,
}

func init() {
	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSetup()
	if err != nil {
		return err
	}
	defer log.Close()

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	out, err := json.MarshalIndent(client.ServerMetadata(), "", "  ")
	if err != nil {
		return fmt.Errorf("render metadata: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
