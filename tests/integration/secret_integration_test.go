package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"validatorOps/internal/k8s"
)

// Testing the full secret lifecycle the tools rely on, against a real API server
func TestSecretLifecycle(t *testing.T) {
	ctx := context.Background()

	c, err := k8s.NewClientWithConfig(ctx, cfg)
	require.NoError(t, err)

	secret := k8s.Secret{
		Name:      "integ-credentials",
		Namespace: "default",
		Key:       "password",
		Value:     []byte("supersecret"),
	}

	// CreateSecret
	require.NoError(t, c.CreateSecret(secret))

	// GetSecret round-trips the payload and defaults the type to Opaque
	got, err := c.GetSecret("default", "integ-credentials")
	require.NoError(t, err)
	require.Equal(t, []byte("supersecret"), got.Data["password"])
	require.Equal(t, "Opaque", string(got.Type))

	// SecretExists
	exists, err := c.SecretExists("default", "integ-credentials")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = c.SecretExists("default", "no-such-secret")
	require.NoError(t, err)
	require.False(t, exists)

	// EnsureSecret without force refuses the conflict and leaves the store alone
	secret.Value = []byte("newpass")
	_, err = c.EnsureSecret(secret, false)
	require.Error(t, err)
	require.True(t, errors.Is(err, k8s.ErrSecretExists))

	got, err = c.GetSecret("default", "integ-credentials")
	require.NoError(t, err)
	require.Equal(t, []byte("supersecret"), got.Data["password"])

	// EnsureSecret with force replaces the payload in place
	outcome, err := c.EnsureSecret(secret, true)
	require.NoError(t, err)
	require.Equal(t, k8s.Replaced, outcome)

	got, err = c.GetSecret("default", "integ-credentials")
	require.NoError(t, err)
	require.Equal(t, []byte("newpass"), got.Data["password"])

	// DeleteSecret
	require.NoError(t, c.DeleteSecret("default", "integ-credentials"))

	_, err = clientset.CoreV1().Secrets("default").Get(ctx, "integ-credentials", metav1.GetOptions{})
	require.True(t, apierrors.IsNotFound(err))
}

// Testing that EnsureSecret creates when nothing is there yet
func TestEnsureSecretCreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()

	c, err := k8s.NewClientWithConfig(ctx, cfg)
	require.NoError(t, err)

	outcome, err := c.EnsureSecret(k8s.Secret{
		Name:      "integ-fresh",
		Namespace: "default",
		Key:       "jwt.hex",
		Value:     []byte("deadbeef"),
	}, false)
	require.NoError(t, err)
	require.Equal(t, k8s.Created, outcome)

	got, err := c.GetSecret("default", "integ-fresh")
	require.NoError(t, err)
	require.Equal(t, []byte("deadbeef"), got.Data["jwt.hex"])

	require.NoError(t, c.DeleteSecret("default", "integ-fresh"))

	_, err = clientset.CoreV1().Secrets("default").Get(ctx, "integ-fresh", metav1.GetOptions{})
	require.True(t, apierrors.IsNotFound(err))
}
