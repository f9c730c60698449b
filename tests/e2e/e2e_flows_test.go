package e2e

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"

	"validatorOps/internal/cli"
	"validatorOps/internal/cmd/createsecret"
	"validatorOps/internal/cmd/genpw"
)

// The e2e suite runs the real commands against a real cluster. Opt in with
// E2E=1 and a KUBECONFIG pointing at a disposable cluster (kind works).
func skipUnlessE2E(t *testing.T) {
	t.Helper()
	if os.Getenv("E2E") == "" {
		t.Skip("E2E not set, skipping end-to-end tests")
	}
}

// Helper: build a clientset from KUBECONFIG (or the default location)
func mustClientset(t *testing.T) kubernetes.Interface {
	t.Helper()

	path := os.Getenv("KUBECONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".kube", "config")
	}

	cfg, err := clientcmd.BuildConfigFromFlags("", path)
	require.NoError(t, err)

	clientset, err := kubernetes.NewForConfig(cfg)
	require.NoError(t, err)
	return clientset
}

func deleteSecretIgnoreMissing(t *testing.T, clientset kubernetes.Interface, namespace, name string) {
	t.Helper()
	err := clientset.CoreV1().Secrets(namespace).Delete(context.Background(), name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		t.Fatalf("cleanup of secret %s/%s failed: %v", namespace, name, err)
	}
}

// runCommand executes one of the real cobra commands with captured output.
func runCommand(args ...string) (string, error) {
	var cmd *cobra.Command
	switch args[0] {
	case "genpw":
		cmd = genpw.NewCommand()
	case "create-secret":
		cmd = createsecret.NewCommand()
	default:
		return "", errors.New("unknown command " + args[0])
	}

	var out bytes.Buffer
	cmd.SetArgs(args[1:])
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

// Testing the genpw flow: generate, store, refuse without force, replace with force
func TestGenpwFlow(t *testing.T) {
	skipUnlessE2E(t)

	clientset := mustClientset(t)
	const name = "e2e-genpw-secret"
	deleteSecretIgnoreMissing(t, clientset, "default", name)
	defer deleteSecretIgnoreMissing(t, clientset, "default", name)

	// First run creates the secret
	output, err := runCommand("genpw", "-l", "16", "-s", name, "-n", "default")
	require.NoError(t, err)
	require.Contains(t, output, "Generated password: ")
	require.Contains(t, output, "created in namespace")

	firstPw := passwordFrom(t, output)
	require.Len(t, firstPw, 16)

	stored, err := clientset.CoreV1().Secrets("default").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, firstPw, string(stored.Data["password"]))

	// Second run without --force warns and leaves the password alone
	output, err = runCommand("genpw", "-s", name, "-n", "default")
	require.NoError(t, err)
	require.Contains(t, output, "already exists")

	stored, err = clientset.CoreV1().Secrets("default").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, firstPw, string(stored.Data["password"]))

	// --force rotates it
	output, err = runCommand("genpw", "-s", name, "-n", "default", "--force")
	require.NoError(t, err)
	require.Contains(t, output, "replaced in namespace")

	stored, err = clientset.CoreV1().Secrets("default").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	require.NotEqual(t, firstPw, string(stored.Data["password"]))
}

// Testing the create-secret flow: file-derived name, conflict refusal, forced replace
func TestCreateSecretFlow(t *testing.T) {
	skipUnlessE2E(t)

	clientset := mustClientset(t)
	const name = "voting-keystore"
	deleteSecretIgnoreMissing(t, clientset, "default", name)
	defer deleteSecretIgnoreMissing(t, clientset, "default", name)

	file := filepath.Join(t.TempDir(), "voting-keystore.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"version":4}`), 0o600))

	// Name is derived from the file, suffixes stripped
	output, err := runCommand("create-secret", "-f", file, "-n", "default")
	require.NoError(t, err)
	require.Contains(t, output, `Created Secret "voting-keystore"`)

	stored, err := clientset.CoreV1().Secrets("default").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, `{"version":4}`, string(stored.Data["password"]))

	// Re-running without --force refuses with exit code 1
	_, err = runCommand("create-secret", "-f", file, "-n", "default")
	require.Error(t, err)
	require.Equal(t, 1, cli.Code(err))
	require.Contains(t, err.Error(), "already exists")

	// --force replaces the payload under a chosen key
	require.NoError(t, os.WriteFile(file, []byte(`{"version":5}`), 0o600))
	output, err = runCommand("create-secret", "-f", file, "-n", "default", "-k", "keystore.json", "--force")
	require.NoError(t, err)
	require.Contains(t, output, `Replaced Secret "voting-keystore"`)

	stored, err = clientset.CoreV1().Secrets("default").Get(context.Background(), name, metav1.GetOptions{})
	require.NoError(t, err)
	require.Equal(t, `{"version":5}`, string(stored.Data["keystore.json"]))
}

func passwordFrom(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(line, "Generated password: "); ok {
			return rest
		}
	}
	t.Fatalf("no password line in output:\n%s", output)
	return ""
}
