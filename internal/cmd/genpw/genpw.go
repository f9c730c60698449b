// Package genpw implements the genpw tool: it generates a random password
// and can store it as a Kubernetes Secret.
package genpw

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"validatorOps/internal/k8s"
	"validatorOps/internal/password"
)

// Options holds the genpw flags and output stream.
type Options struct {
	Length     int
	Namespace  string
	SecretName string
	Force      bool
	Bcrypt     bool

	Out io.Writer

	newClient func(ctx context.Context) (*k8s.Client, error)
}

func newOptions() *Options {
	return &Options{
		Length: 10,
		Out:    os.Stdout,

		newClient: k8s.NewClient,
	}
}

// NewCommand builds the genpw command.
func NewCommand() *cobra.Command {
	return newCommand(newOptions())
}

func newCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "genpw",
		Short:         "Generate a random password, optionally storing it as a Secret",
		Long:          "Generate a random alphanumeric password with at least one lowercase letter, one uppercase letter and one digit, print it, and optionally store it under the password key of a Kubernetes Secret.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return opts.Run(cmd.Context())
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// AddFlags wires the genpw flags into the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.Length, "length", "l", o.Length, "Password length")
	fs.StringVarP(&o.Namespace, "namespace", "n", "", "Namespace for the Secret; the current context's namespace when omitted")
	fs.StringVarP(&o.SecretName, "secret", "s", "", "Store the password in a Secret with this name")
	fs.BoolVar(&o.Force, "force", false, "Replace the Secret if it already exists")
	fs.BoolVar(&o.Bcrypt, "bcrypt", false, "Also print a bcrypt hash of the password")
}

// Run generates the password and stores it when a Secret name was given.
func (o *Options) Run(ctx context.Context) error {
	pw, err := password.Generate(o.Length)
	if err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "Generated password: %s\n", pw)

	if o.Bcrypt {
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		fmt.Fprintf(o.Out, "Bcrypt hash: %s\n", hash)
	}

	if o.SecretName == "" {
		return nil
	}

	namespace := o.Namespace
	if namespace == "" {
		namespace = k8s.CurrentNamespace()
	}

	client, err := o.newClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to load Kubernetes config: %w", err)
	}

	secret := k8s.Secret{
		Name:      o.SecretName,
		Namespace: namespace,
		Key:       "password",
		Value:     []byte(pw),
	}

	err = client.CreateSecret(secret)
	switch {
	case err == nil:
		fmt.Fprintf(o.Out, "Secret %q created in namespace %q.\n", o.SecretName, namespace)
	case apierrors.IsAlreadyExists(err):
		if !o.Force {
			// Existing passwords are not silently rotated; this is a
			// warning, not a failure
			fmt.Fprintf(o.Out, "Secret %q already exists in namespace %q. Use --force to replace it.\n", o.SecretName, namespace)
			return nil
		}
		if err := client.ReplaceSecret(secret, ""); err != nil {
			return fmt.Errorf("failed to store password: %w", err)
		}
		fmt.Fprintf(o.Out, "Secret %q replaced in namespace %q.\n", o.SecretName, namespace)
	default:
		return fmt.Errorf("failed to store password: %w", err)
	}
	return nil
}
