// Package jwtsecret provisions the shared JWT secret that execution and
// consensus clients use for engine-API authentication. Cluster operations
// shell out to kubectl so the tool works with whatever authentication the
// operator's environment already has, and secret generation shells out to
// openssl to match how the secret is produced everywhere else in the
// deployment.
package jwtsecret

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
)

// SecretKey is the data key the provisioned Secret stores the hex value under.
const SecretKey = "jwt.hex"

// Adding the following variable, so that the code can be tested
var execCommand = exec.Command

var hexSecretFormat = regexp.MustCompile(`^[0-9a-f]{64}$`)

// GenerateHex produces a fresh 32-byte secret, hex encoded, via
// `openssl rand -hex 32`.
func GenerateHex() (string, error) {
	out, err := run("openssl", "rand", "-hex", "32")
	if err != nil {
		return "", err
	}

	secret := strings.TrimSpace(out)
	if !hexSecretFormat.MatchString(secret) {
		return "", fmt.Errorf("unexpected openssl output %q, want 64 hex characters", secret)
	}
	return secret, nil
}

// SecretExists reports whether kubectl can see the named Secret. Only
// kubectl's exit status is consulted; a kubectl that cannot run at all is
// an error.
func SecretExists(name, namespace string) (bool, error) {
	cmd := execCommand("kubectl", "get", "secret", name, "-n", namespace)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteSecret removes the Secret with kubectl and returns kubectl's output.
func DeleteSecret(name, namespace string) (string, error) {
	out, err := run("kubectl", "delete", "secret", name, "-n", namespace)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CreateSecret stores the hex value under the jwt.hex key with kubectl and
// returns kubectl's output.
func CreateSecret(name, namespace, hexValue string) (string, error) {
	out, err := run("kubectl", "create", "secret", "generic", name,
		"--from-literal="+SecretKey+"="+hexValue, "-n", namespace)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// run executes the command and returns its stdout. A failure surfaces the
// command's trimmed stderr as the error text, since that is what the user
// needs to see.
func run(name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := execCommand(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
		return "", err
	}
	return stdout.String(), nil
}
