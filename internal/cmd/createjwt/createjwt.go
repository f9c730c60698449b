// Package createjwt implements the create-jwt tool: it provisions the
// shared engine-API JWT secret as a Kubernetes Secret.
package createjwt

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"validatorOps/internal/jwtsecret"
)

// DefaultSecretName is the Secret the execution and consensus client
// manifests mount by default.
const DefaultSecretName = "eth-validator-auth-jwt"

// Options holds the create-jwt flags, output stream and the provisioning
// operations, which tests replace with fakes.
type Options struct {
	Name       string
	Namespace  string
	Force      bool
	PrintToken bool

	Out io.Writer

	secretExists func(name, namespace string) (bool, error)
	deleteSecret func(name, namespace string) (string, error)
	createSecret func(name, namespace, hexValue string) (string, error)
	generateHex  func() (string, error)
}

func newOptions() *Options {
	return &Options{
		Name:      DefaultSecretName,
		Namespace: "default",
		Out:       os.Stdout,

		secretExists: jwtsecret.SecretExists,
		deleteSecret: jwtsecret.DeleteSecret,
		createSecret: jwtsecret.CreateSecret,
		generateHex:  jwtsecret.GenerateHex,
	}
}

// NewCommand builds the create-jwt command.
func NewCommand() *cobra.Command {
	return newCommand(newOptions())
}

func newCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "create-jwt",
		Short:         "Provision the engine-API JWT secret in Kubernetes",
		Long:          "Generate a 32-byte hex secret with openssl and store it in a Secret under the jwt.hex key, the layout both execution and consensus clients mount.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Out = cmd.OutOrStdout()
			return opts.Run()
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

// AddFlags wires the create-jwt flags into the given flag set.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Name, "name", o.Name, "Name of the Secret to create")
	fs.StringVar(&o.Namespace, "namespace", o.Namespace, "Namespace to create the Secret in")
	fs.BoolVar(&o.Force, "force", false, "Delete and regenerate the Secret if it already exists")
	fs.BoolVar(&o.PrintToken, "print-token", false, "Also mint and print an engine-API token signed with the new secret")
}

// Run provisions the JWT secret, regenerating it when forced.
func (o *Options) Run() error {
	exists, err := o.secretExists(o.Name, o.Namespace)
	if err != nil {
		return fmt.Errorf("checking for existing secret: %w", err)
	}

	if exists && !o.Force {
		fmt.Fprintf(o.Out, "Secret %q already exists in namespace %q. Use --force to regenerate it.\n", o.Name, o.Namespace)
		return nil
	}
	if exists {
		fmt.Fprintf(o.Out, "Secret %q exists in namespace %q. Deleting it due to --force.\n", o.Name, o.Namespace)
		out, err := o.deleteSecret(o.Name, o.Namespace)
		if err != nil {
			return fmt.Errorf("deleting secret: %w", err)
		}
		if out != "" {
			fmt.Fprintln(o.Out, out)
		}
	}

	secret, err := o.generateHex()
	if err != nil {
		return fmt.Errorf("generating secret: %w", err)
	}
	fmt.Fprintf(o.Out, "Generated new secret: %s\n", secret)

	out, err := o.createSecret(o.Name, o.Namespace, secret)
	if err != nil {
		return fmt.Errorf("creating secret: %w", err)
	}
	if out != "" {
		fmt.Fprintln(o.Out, out)
	}
	fmt.Fprintf(o.Out, "Secret %q has been created in namespace %q.\n", o.Name, o.Namespace)

	if o.PrintToken {
		issuer, err := jwtsecret.NewTokenIssuer(secret)
		if err != nil {
			return err
		}
		token, err := issuer.Issue()
		if err != nil {
			return fmt.Errorf("minting engine-API token: %w", err)
		}
		fmt.Fprintf(o.Out, "Engine API token: %s\n", token)
	}
	return nil
}
