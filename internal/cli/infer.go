package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/robolink/policyclient/pkg/policy"
)

var inferTimeout float64

var inferCmd = &cobra.Command{
	Use:   "infer [observation.json]",
	Short: "Run one inference call",
	Long: `Send an observation to the policy server and print the result as
JSON. The observation is read from the given JSON file, or from stdin
when the argument is "-".`,
	Args: cobra.ExactArgs(1),
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().Float64Var(&inferTimeout, "timeout", 0, "response timeout in seconds (0 waits indefinitely)")
	rootCmd.AddCommand(inferCmd)
}

func readObservation(path string) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read observation: %w", err)
	}

	var obs map[string]any
	if err := json.Unmarshal(data, &obs); err != nil {
		return nil, fmt.Errorf("parse observation: %w", err)
	}
	return obs, nil
}

func runInfer(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadSetup()
	if err != nil {
		return err
	}
	defer log.Close()

	obs, err := readObservation(args[0])
	if err != nil {
		return err
	}

	timeout := inferTimeout
	if timeout == 0 {
		timeout = cfg.Infer.TimeoutSeconds
	}

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	var opts []policy.InferOption
	if timeout > 0 {
		opts = append(opts, policy.WithTimeout(time.Duration(timeout*float64(time.Second))))
	}

	result, err := client.Infer(obs, opts...)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("render result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
