package binary

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

const armorHeader = "-----BEGIN PGP"

// signatureSuffixes are tried in order next to the executable.
var signatureSuffixes = []string{".sig", ".asc"}

// Verifier checks executables against a manifest's digests and keyring.
type Verifier struct{}

// NewVerifier creates a new verifier
func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify runs the checks requested by opts against the file at path.
// It returns an error describing the first failed check.
func (v *Verifier) Verify(path string, opts VerifyOptions) (*VerificationResult, error) {
	result := &VerificationResult{}

	if opts.SHA256 != "" {
		if err := verifySHA256(path, opts.SHA256); err != nil {
			return nil, err
		}
		result.Methods = append(result.Methods, VerificationSHA256)
	}

	if opts.KeyringPath != "" {
		sigPath, signer, err := v.verifyGPG(path, opts.KeyringPath)
		if err != nil {
			return nil, err
		}
		result.Methods = append(result.Methods, VerificationGPG)
		result.SignaturePath = sigPath
		result.Signer = signer
	}

	return result, nil
}

// verifyGPG checks the detached signature next to path. The signature may be
// armored or binary, whatever its suffix.
func (v *Verifier) verifyGPG(path, keyringPath string) (string, string, error) {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return "", "", err
	}

	sigPath, err := findSignature(path)
	if err != nil {
		return "", "", err
	}

	binaryFile, err := os.Open(path)
	if err != nil {
		return "", "", fmt.Errorf("open executable: %w", err)
	}
	defer binaryFile.Close()

	sigFile, err := os.Open(sigPath)
	if err != nil {
		return "", "", fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	armored, err := isArmored(sigFile)
	if err != nil {
		return "", "", fmt.Errorf("read signature: %w", err)
	}

	var signer *openpgp.Entity
	if armored {
		signer, err = openpgp.CheckArmoredDetachedSignature(keyring, binaryFile, sigFile, nil)
	} else {
		signer, err = openpgp.CheckDetachedSignature(keyring, binaryFile, sigFile, nil)
	}
	if err != nil {
		return "", "", fmt.Errorf("verify signature: %w", err)
	}

	return sigPath, primaryIdentity(signer), nil
}

// isArmored reports whether the signature starts with an armor header and
// rewinds it.
func isArmored(sig io.ReadSeeker) (bool, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(sig, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	if _, err := sig.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	return bytes.HasPrefix(bytes.TrimLeft(head[:n], " \t\r\n"), []byte(armorHeader)), nil
}

func findSignature(path string) (string, error) {
	for _, suffix := range signatureSuffixes {
		candidate := path + suffix
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat signature: %w", err)
		}
	}
	return "", fmt.Errorf("signature not found: expected %s.sig or %s.asc", path, path)
}

// verifySHA256 compares the digest of path with want (case-insensitive).
func verifySHA256(path, want string) error {
	got, err := calculateSHA256(path)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}
	if !strings.EqualFold(got, want) {
		return fmt.Errorf("checksum mismatch: actual %s, expected %s", got, strings.ToLower(want))
	}
	return nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
