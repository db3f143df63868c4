package binary

import "strings"

// VerificationMethod indicates how an executable was verified.
type VerificationMethod int

const (
	// VerificationNone indicates the manifest did not ask for verification.
	VerificationNone VerificationMethod = iota
	// VerificationGPG indicates an OpenPGP detached signature was checked.
	VerificationGPG
	// VerificationSHA256 indicates a SHA-256 digest was compared.
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerifyOptions says what to check.
type VerifyOptions struct {
	// SHA256 is the expected hex digest; empty skips the digest check.
	SHA256 string
	// KeyringPath is an armored or binary OpenPGP public keyring; empty
	// skips the signature check.
	KeyringPath string
}

// Enabled reports whether any check is requested.
func (o VerifyOptions) Enabled() bool {
	return o.SHA256 != "" || o.KeyringPath != ""
}

// VerificationResult describes a successful verification.
type VerificationResult struct {
	Methods       []VerificationMethod
	SignaturePath string // set when a signature was checked
	Signer        string // primary identity of the signing key
}

// String lists the methods, e.g. "SHA256+GPG".
func (r *VerificationResult) String() string {
	if len(r.Methods) == 0 {
		return VerificationNone.String()
	}
	names := make([]string, len(r.Methods))
	for i, m := range r.Methods {
		names[i] = m.String()
	}
	return strings.Join(names, "+")
}
