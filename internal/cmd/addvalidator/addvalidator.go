// Package addvalidator implements the add-validator tool: it uploads an
// EIP-2335 keystore file to a lighthouse launcher.
package addvalidator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"validatorOps/internal/keystore"
	"validatorOps/internal/launchapi"
)

// Options holds the add-validator flags and output streams.
type Options struct {
	KeystorePath string
	Name         string
	URL          string
	Update       bool
	Validate     bool

	Out io.Writer
}

func newOptions() *Options {
	return &Options{
		Name: "V0",
		URL:  "http://localhost:5000",
		Out:  os.Stdout,
	}
}

// NewCommand builds the add-validator command.
func NewCommand() *cobra.Command {
	return newCommand(newOptions())
}

func newCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "add-validator KEYSTORE_PATH",
		Short:         "Upload a validator keystore to a lighthouse launcher",
		Long:          "Read an EIP-2335 keystore JSON file and post it to the launcher's /validator endpoint.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.KeystorePath = args[0]
			opts.Out = cmd.OutOrStdout()
			return opts.Run(cmd.Context())
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// AddFlags wires the add-validator flags into the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.Name, "name", "n", o.Name, "Name to register the validator under")
	fs.StringVarP(&o.URL, "url", "u", o.URL, "Launcher base URL, without the /validator path")
	fs.BoolVar(&o.Update, "update", false, "Replace the keystore of an existing validator instead of creating one")
	fs.BoolVar(&o.Validate, "validate", false, "Check the keystore against the EIP-2335 schema before uploading")
}

// Run reads the keystore, uploads it and reports the launcher's reply.
func (o *Options) Run(ctx context.Context) error {
	data, err := os.ReadFile(o.KeystorePath)
	if err != nil {
		return fmt.Errorf("unable to read keystore file: %w", err)
	}

	// The file must at least hold valid JSON; full schema checks are opt-in
	var ks json.RawMessage
	if err := json.Unmarshal(data, &ks); err != nil {
		return fmt.Errorf("unable to read keystore file: %w", err)
	}
	if o.Validate {
		if err := keystore.Validate(ks); err != nil {
			return fmt.Errorf("invalid keystore: %w", err)
		}
	}

	client := launchapi.NewClient(o.URL)
	send := client.CreateValidator
	if o.Update {
		send = client.UpdateValidator
	}

	res, err := send(ctx, o.Name, ks)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !res.OK() {
		return fmt.Errorf("server returned %d: %s", res.StatusCode, res.Body)
	}

	fmt.Fprintf(o.Out, "Success (%d): %s\n", res.StatusCode, res.Body)
	return nil
}
