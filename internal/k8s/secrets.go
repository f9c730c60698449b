package k8s

import (
	"errors"
	"fmt"

	v1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ErrSecretExists reports a conflicting Secret the caller declined to
// overwrite. Callers detect it with errors.Is.
var ErrSecretExists = errors.New("secret already exists")

// Secret describes the single-key Secrets these tools manage.
type Secret struct {
	Name      string
	Namespace string
	Key       string
	Value     []byte
	Type      v1.SecretType
}

// Outcome reports which mutation EnsureSecret performed.
type Outcome int

const (
	Created Outcome = iota
	Replaced
)

func (s Secret) toCoreV1() *v1.Secret {
	secretType := s.Type
	if secretType == "" {
		secretType = v1.SecretTypeOpaque
	}
	return &v1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      s.Name, //this must be set
			Namespace: s.Namespace,
		},
		Data: map[string][]byte{s.Key: s.Value},
		Type: secretType,
	}
}

// CreateSecret creates a new Kubernetes secret holding s.Value under s.Key
func (c *Client) CreateSecret(s Secret) error {
	_, err := c.ClientSet.CoreV1().Secrets(s.Namespace).Create(c.Context, s.toCoreV1(), metav1.CreateOptions{})
	if err != nil {
		return fmt.Errorf("failed to create secret: %w", err)
	}
	return nil
}

// GetSecret retrieves a Kubernetes secret
func (c *Client) GetSecret(namespace, name string) (*v1.Secret, error) {
	secret, err := c.ClientSet.CoreV1().Secrets(namespace).Get(c.Context, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret: %w", err)
	}
	return secret, nil
}

// SecretExists reports whether the named secret is present in the namespace
func (c *Client) SecretExists(namespace, name string) (bool, error) {
	_, err := c.ClientSet.CoreV1().Secrets(namespace).Get(c.Context, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check secret: %w", err)
	}
	return true, nil
}

// ReplaceSecret overwrites an existing Kubernetes secret. A non-empty
// resourceVersion is carried over so the update targets the revision the
// caller last saw.
func (c *Client) ReplaceSecret(s Secret, resourceVersion string) error {
	secret := s.toCoreV1()
	secret.ResourceVersion = resourceVersion

	_, err := c.ClientSet.CoreV1().Secrets(s.Namespace).Update(c.Context, secret, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("failed to replace secret: %w", err)
	}
	return nil
}

// DeleteSecret deletes a Kubernetes secret
func (c *Client) DeleteSecret(namespace, name string) error {
	err := c.ClientSet.CoreV1().Secrets(namespace).Delete(c.Context, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}
	return nil
}

// EnsureSecret creates s, or replaces the Secret of the same name when force
// is set. Without force a conflicting Secret is left untouched and the
// returned error wraps ErrSecretExists.
func (c *Client) EnsureSecret(s Secret, force bool) (Outcome, error) {
	existing, err := c.ClientSet.CoreV1().Secrets(s.Namespace).Get(c.Context, s.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		if err := c.CreateSecret(s); err != nil {
			return Created, err
		}
		return Created, nil
	}
	if err != nil {
		return Created, fmt.Errorf("failed to check secret: %w", err)
	}

	if !force {
		return Created, fmt.Errorf("secret %q in namespace %q: %w", s.Name, s.Namespace, ErrSecretExists)
	}

	if err := c.ReplaceSecret(s, existing.ResourceVersion); err != nil {
		return Replaced, err
	}
	return Replaced, nil
}
