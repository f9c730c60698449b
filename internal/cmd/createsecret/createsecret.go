// Package createsecret implements the create-secret tool: it stores a file
// or stdin as a single-key Kubernetes Secret with a derived name.
package createsecret

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"validatorOps/internal/cli"
	"validatorOps/internal/k8s"
	"validatorOps/internal/names"
)

// Exit codes, so callers can script against the failure class.
const (
	ExitEmptyPayload = 2
	ExitConfig       = 3
	ExitAPI          = 4
)

// Options holds the create-secret flags and streams.
type Options struct {
	File       string
	SecretName string
	Key        string
	Namespace  string
	Type       string
	Force      bool

	In  io.Reader
	Out io.Writer

	newClient func(ctx context.Context) (*k8s.Client, error)
	now       func() time.Time
}

func newOptions() *Options {
	return &Options{
		Key:  "password",
		Type: string(v1.SecretTypeOpaque),
		In:   os.Stdin,
		Out:  os.Stdout,

		newClient: k8s.NewClient,
		now:       time.Now,
	}
}

// NewCommand builds the create-secret command.
func NewCommand() *cobra.Command {
	return newCommand(newOptions())
}

func newCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create-secret",
		Short:         "Create or replace a Kubernetes Secret from a file or stdin",
		Long:          "Store arbitrary bytes as a single-key Secret. The name is taken from --secret-name, derived from the file name, or falls back to the current date.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.In = cmd.InOrStdin()
			opts.Out = cmd.OutOrStdout()
			return opts.Run(cmd.Context())
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// AddFlags wires the create-secret flags into the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.File, "file", "f", "", "File holding the secret bytes; stdin when omitted")
	fs.StringVarP(&o.SecretName, "secret-name", "s", "", "Secret name; derived from the file name or the date when omitted")
	fs.StringVarP(&o.Key, "key", "k", o.Key, "Key inside the Secret's data map")
	fs.StringVarP(&o.Namespace, "namespace", "n", "", "Target namespace; resolved from the environment when omitted")
	fs.StringVar(&o.Type, "type", o.Type, "Secret type")
	fs.BoolVar(&o.Force, "force", false, "Overwrite the Secret if it already exists")
}

// Run reads the payload and creates or replaces the Secret.
func (o *Options) Run(ctx context.Context) error {
	name := o.resolveName()
	namespace := o.Namespace
	if namespace == "" {
		namespace = k8s.DefaultNamespace()
	}

	payload, err := o.readPayload()
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return cli.Exit(ExitEmptyPayload, errors.New("refusing to create an empty Secret (no input provided)"))
	}

	client, err := o.newClient(ctx)
	if err != nil {
		return cli.Exit(ExitConfig, fmt.Errorf("failed to load Kubernetes config: %w", err))
	}

	outcome, err := client.EnsureSecret(k8s.Secret{
		Name:      name,
		Namespace: namespace,
		Key:       o.Key,
		Value:     payload,
		Type:      v1.SecretType(o.Type),
	}, o.Force)
	if errors.Is(err, k8s.ErrSecretExists) {
		return fmt.Errorf("secret %q already exists in namespace %q, use --force to overwrite", name, namespace)
	}
	if err != nil {
		return cli.Exit(ExitAPI, apiError(err))
	}

	if outcome == k8s.Replaced {
		fmt.Fprintf(o.Out, "Replaced Secret %q in namespace %q.\n", name, namespace)
	} else {
		fmt.Fprintf(o.Out, "Created Secret %q in namespace %q.\n", name, namespace)
	}
	return nil
}

// resolveName picks the Secret name: explicit flag, then file name, then
// the current date.
func (o *Options) resolveName() string {
	switch {
	case o.SecretName != "":
		return names.Sanitize(o.SecretName)
	case o.File != "":
		return names.FromFile(o.File)
	default:
		return names.DateName(o.now())
	}
}

func (o *Options) readPayload() ([]byte, error) {
	if o.File != "" {
		data, err := os.ReadFile(o.File)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", o.File, err)
		}
		return data, nil
	}
	return io.ReadAll(o.In)
}

// apiError renders a Kubernetes API failure with the status code callers
// script against.
func apiError(err error) error {
	var statusErr *apierrors.StatusError
	if errors.As(err, &statusErr) {
		status := statusErr.Status()
		return fmt.Errorf("kubernetes API error (status %d): %s", status.Code, status.Message)
	}
	return fmt.Errorf("kubernetes API error: %w", err)
}
