package k8s

import (
	"os"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/clientcmd"
)

// serviceAccountNamespaceFile is where the kubelet mounts the pod's own
// namespace. Adding it as a variable, so that the code can be tested
var serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// CurrentNamespace returns the namespace of the active kubeconfig context,
// falling back to "default" when the context does not pin one or no usable
// kubeconfig exists.
func CurrentNamespace() string {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{})

	namespace, _, err := clientConfig.Namespace()
	if err != nil || namespace == "" {
		return metav1.NamespaceDefault
	}
	return namespace
}

// DefaultNamespace resolves the namespace to target when none was given:
// the pod's service account namespace when running in-cluster, otherwise
// the kubeconfig context namespace, otherwise "default".
func DefaultNamespace() string {
	if data, err := os.ReadFile(serviceAccountNamespaceFile); err == nil {
		if namespace := strings.TrimSpace(string(data)); namespace != "" {
			return namespace
		}
	}
	return CurrentNamespace()
}
