// Package credential keeps the optional API token encrypted at rest.
// Values are sealed with AES-256-GCM under a key derived from the machine and
// user, so a copied settings database does not leak the token.
package credential

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/felixgeelhaar/echomind/internal/store"
)

// EncryptedPrefix marks values as encrypted in storage
const EncryptedPrefix = "enc:v1:"

var (
	ErrDecryptionFailed = errors.New("decryption failed")
	ErrInvalidFormat    = errors.New("invalid encrypted format")
)

// Manager seals and opens secrets.
type Manager struct {
	key []byte
}

// NewManager creates a Manager with the machine-derived key.
func NewManager() *Manager {
	return &Manager{key: deriveKey()}
}

func (m *Manager) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(m.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt returns the storable form of plaintext. Empty input stays empty.
func (m *Manager) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	gcm, err := m.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Values without the prefix are returned unchanged,
// which lets a token written by hand into the database keep working.
func (m *Manager) Decrypt(stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrInvalidFormat, err)
	}
	gcm, err := m.aead()
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", ErrInvalidFormat
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// SaveSecret encrypts value and writes it under key.
func (m *Manager) SaveSecret(s store.Storage, key, value string) error {
	enc, err := m.Encrypt(value)
	if err != nil {
		return err
	}
	return s.SetConfig(key, enc)
}

// LoadSecret reads key and decrypts it. A missing key yields "".
func (m *Manager) LoadSecret(s store.Storage, key string) (string, error) {
	stored, err := s.GetConfig(key)
	if err != nil {
		return "", err
	}
	return m.Decrypt(stored)
}

// IsEncrypted checks if a value is already encrypted.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

func deriveKey() []byte {
	var entropy strings.Builder

	hostname, _ := os.Hostname()
	home, _ := os.UserHomeDir()
	entropy.WriteString(hostname)
	entropy.WriteString(home)
	entropy.WriteString(runtime.GOOS)
	entropy.WriteString(runtime.GOARCH)
	entropy.WriteString("echomind-token-v1")
	if uid := os.Getuid(); uid != -1 {
		fmt.Fprintf(&entropy, "uid:%d", uid)
	}
	entropy.WriteString(os.Getenv("USER"))

	sum := sha256.Sum256([]byte(entropy.String()))
	return sum[:]
}

// MaskSecret hides all but the first and last 4 characters of a long secret.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
