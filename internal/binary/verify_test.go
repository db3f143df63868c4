package binary

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
)

// testSigner generates a throwaway signing key and writes its public half
// as an armored keyring into dir.
func testSigner(t *testing.T, dir, name string) (*openpgp.Entity, string) {
	t.Helper()

	entity, err := openpgp.NewEntity(name, "test", "signer@example.com", nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("armor: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("serialize public key: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close armor: %v", err)
	}

	path := filepath.Join(dir, name+".asc")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write keyring: %v", err)
	}
	return entity, path
}

func writeExecutable(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write executable: %v", err)
	}
	return path
}

func sign(t *testing.T, signer *openpgp.Entity, path, sigPath string, armored bool) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var sig bytes.Buffer
	if armored {
		err = openpgp.ArmoredDetachSign(&sig, signer, bytes.NewReader(data), nil)
	} else {
		err = openpgp.DetachSign(&sig, signer, bytes.NewReader(data), nil)
	}
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if err := os.WriteFile(sigPath, sig.Bytes(), 0o644); err != nil {
		t.Fatalf("write signature: %v", err)
	}
}

func digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func TestVerify_SHA256(t *testing.T) {
	dir := t.TempDir()
	content := []byte("#!/bin/sh\nexit 0\n")
	path := writeExecutable(t, dir, "server", content)

	tests := []struct {
		name    string
		sum     string
		wantErr string
	}{
		{"match", digest(content), ""},
		{"match uppercase", strings.ToUpper(digest(content)), ""},
		{"mismatch", digest([]byte("other")), "checksum mismatch"},
	}

	v := NewVerifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.Verify(path, VerifyOptions{SHA256: tt.sum})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if result.String() != "SHA256" {
				t.Errorf("result = %v, want SHA256", result)
			}
		})
	}
}

func TestVerify_GPG(t *testing.T) {
	dir := t.TempDir()
	signer, keyringPath := testSigner(t, dir, "release")
	other, _ := testSigner(t, t.TempDir(), "other")

	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		wantErr string
	}{
		{
			name:  "armored signature",
			setup: func(t *testing.T, path string) { sign(t, signer, path, path+".asc", true) },
		},
		{
			name:  "binary signature",
			setup: func(t *testing.T, path string) { sign(t, signer, path, path+".sig", false) },
		},
		{
			name:    "missing signature",
			setup:   func(t *testing.T, path string) {},
			wantErr: "signature not found",
		},
		{
			name:    "wrong key",
			setup:   func(t *testing.T, path string) { sign(t, other, path, path+".sig", true) },
			wantErr: "verify signature",
		},
		{
			name: "tampered executable",
			setup: func(t *testing.T, path string) {
				sign(t, signer, path, path+".asc", true)
				if err := os.WriteFile(path, []byte("tampered"), 0o755); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: "verify signature",
		},
	}

	v := NewVerifier()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeExecutable(t, dir, "server"+string(rune('a'+i)), []byte("payload"))
			tt.setup(t, path)

			result, err := v.Verify(path, VerifyOptions{KeyringPath: keyringPath})
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Verify() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if result.String() != "GPG" {
				t.Errorf("result = %v, want GPG", result)
			}
			if !strings.Contains(result.Signer, "release") {
				t.Errorf("Signer = %q, want the release identity", result.Signer)
			}
		})
	}
}

func TestVerify_ArmoredFailureKeepsCause(t *testing.T) {
	dir := t.TempDir()
	signer, keyringPath := testSigner(t, dir, "release")
	other, _ := testSigner(t, t.TempDir(), "other")
	v := NewVerifier()

	t.Run("unknown signer", func(t *testing.T) {
		path := writeExecutable(t, dir, "unknown", []byte("payload"))
		sign(t, other, path, path+".asc", true)

		_, err := v.Verify(path, VerifyOptions{KeyringPath: keyringPath})
		if !errors.Is(err, pgperrors.ErrUnknownIssuer) {
			t.Fatalf("Verify() error = %v, want ErrUnknownIssuer", err)
		}
	})

	t.Run("tampered executable", func(t *testing.T) {
		path := writeExecutable(t, dir, "tampered", []byte("payload"))
		sign(t, signer, path, path+".asc", true)
		if err := os.WriteFile(path, []byte("tampered"), 0o755); err != nil {
			t.Fatal(err)
		}

		_, err := v.Verify(path, VerifyOptions{KeyringPath: keyringPath})
		if err == nil {
			t.Fatal("Verify() should fail for a tampered executable")
		}
		var structErr pgperrors.StructuralError
		if errors.As(err, &structErr) {
			t.Errorf("Verify() error = %v, want the signature failure, not a parse error", err)
		}
	})
}

func TestIsArmored(t *testing.T) {
	tests := []struct {
		name string
		data string
		want bool
	}{
		{"armored", "-----BEGIN PGP SIGNATURE-----\n\nabc", true},
		{"leading whitespace", "\n  -----BEGIN PGP SIGNATURE-----", true},
		{"binary", "\x88\x75\x04\x00", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bytes.NewReader([]byte(tt.data))
			got, err := isArmored(r)
			if err != nil {
				t.Fatalf("isArmored() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("isArmored() = %v, want %v", got, tt.want)
			}
			if r.Len() != len(tt.data) {
				t.Errorf("isArmored() did not rewind: %d bytes left, want %d", r.Len(), len(tt.data))
			}
		})
	}
}

func TestVerify_Both(t *testing.T) {
	dir := t.TempDir()
	signer, keyringPath := testSigner(t, dir, "release")
	content := []byte("payload")
	path := writeExecutable(t, dir, "server", content)
	sign(t, signer, path, path+".sig", true)

	v := NewVerifier()

	result, err := v.Verify(path, VerifyOptions{SHA256: digest(content), KeyringPath: keyringPath})
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if result.String() != "SHA256+GPG" {
		t.Errorf("result = %v, want SHA256+GPG", result)
	}

	// A bad digest fails even with a good signature.
	if _, err := v.Verify(path, VerifyOptions{SHA256: digest([]byte("x")), KeyringPath: keyringPath}); err == nil {
		t.Error("Verify() should fail on digest mismatch")
	}
}

func TestVerify_BadKeyring(t *testing.T) {
	dir := t.TempDir()
	path := writeExecutable(t, dir, "server", []byte("payload"))
	garbage := filepath.Join(dir, "garbage.asc")
	if err := os.WriteFile(garbage, []byte("not a key"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		keyring string
		wantErr string
	}{
		{"missing keyring", filepath.Join(dir, "missing.asc"), "open keyring"},
		{"garbage keyring", garbage, "keyring"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier().Verify(path, VerifyOptions{KeyringPath: tt.keyring})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyOptions_Enabled(t *testing.T) {
	if (VerifyOptions{}).Enabled() {
		t.Error("empty options should be disabled")
	}
	if !(VerifyOptions{SHA256: "x"}).Enabled() || !(VerifyOptions{KeyringPath: "k"}).Enabled() {
		t.Error("options with a check should be enabled")
	}
}

func TestVerificationMethod_String(t *testing.T) {
	tests := []struct {
		method VerificationMethod
		want   string
	}{
		{VerificationNone, "None"},
		{VerificationGPG, "GPG"},
		{VerificationSHA256, "SHA256"},
		{VerificationMethod(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("String() = %v, want %v", got, tt.want)
		}
	}
}
