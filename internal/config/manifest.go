// internal/config/manifest.go
package config

// Manifest identifiers accepted by the loader.
const (
	SupportedAPIVersion = "web3tx/v1"
	SupportedKind       = "Transaction"
)

// YAMLTransaction is a Kubernetes-style transaction request.
type YAMLTransaction struct {
	APIVersion string              `yaml:"apiVersion"`
	Kind       string              `yaml:"kind"`
	Metadata   YAMLMetadata        `yaml:"metadata"`
	Spec       YAMLTransactionSpec `yaml:"spec"`

	// Source is the file the document was read from; relative ABI paths
	// resolve against its directory.
	Source string `yaml:"-"`
}

// YAMLMetadata contains resource identification
type YAMLMetadata struct {
	Name        string            `yaml:"name"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// YAMLTransactionSpec describes what to submit.
type YAMLTransactionSpec struct {
	Chain    string `yaml:"chain,omitempty"`
	From     string `yaml:"from,omitempty"`
	To       string `yaml:"to"`
	Value    string `yaml:"value,omitempty"`    // decimal amount in whole currency units
	ValueWei string `yaml:"valueWei,omitempty"` // integer amount in base units
	ABI      string `yaml:"abi,omitempty"`      // path to a JSON ABI file
	Method   string `yaml:"method,omitempty"`
	Params   any    `yaml:"params,omitempty"` // sequence or mapping
	Wait     string `yaml:"wait,omitempty"`
}
