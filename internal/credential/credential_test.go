package credential

import (
	"encoding/base64"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/echomind/internal/store"
)

func newStore(t *testing.T) store.Storage {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestManager_SaveLoadSecret(t *testing.T) {
	s := newStore(t)
	m := NewManager()

	if err := m.SaveSecret(s, store.KeyAPIToken, "tok-secret-value"); err != nil {
		t.Fatalf("SaveSecret failed: %v", err)
	}

	raw, _ := s.GetConfig(store.KeyAPIToken)
	if !IsEncrypted(raw) {
		t.Errorf("expected token stored encrypted, got %q", raw)
	}
	if strings.Contains(raw, "tok-secret-value") {
		t.Error("plaintext token leaked into storage")
	}

	got, err := m.LoadSecret(s, store.KeyAPIToken)
	if err != nil {
		t.Fatalf("LoadSecret failed: %v", err)
	}
	if got != "tok-secret-value" {
		t.Errorf("expected 'tok-secret-value', got %q", got)
	}
}

func TestManager_LoadSecretMissing(t *testing.T) {
	got, err := NewManager().LoadSecret(newStore(t), store.KeyAPIToken)
	if err != nil || got != "" {
		t.Errorf("expected empty token for unset key, got %q (%v)", got, err)
	}
}

func TestManager_SaveEmptyToken(t *testing.T) {
	s := newStore(t)
	if err := NewManager().SaveSecret(s, store.KeyAPIToken, ""); err != nil {
		t.Fatalf("SaveSecret failed: %v", err)
	}
	raw, _ := s.GetConfig(store.KeyAPIToken)
	if raw != "" {
		t.Errorf("expected empty token to stay empty, got %q", raw)
	}
}

func TestManager_HandWrittenToken(t *testing.T) {
	s := newStore(t)
	s.SetConfig(store.KeyAPIToken, "tok-typed-by-hand")

	got, err := NewManager().LoadSecret(s, store.KeyAPIToken)
	if err != nil {
		t.Fatalf("LoadSecret failed: %v", err)
	}
	if got != "tok-typed-by-hand" {
		t.Errorf("expected plain token to pass through, got %q", got)
	}
}

func TestManager_TamperedToken(t *testing.T) {
	s := newStore(t)
	m := NewManager()
	if err := m.SaveSecret(s, store.KeyAPIToken, "tok-secret-value"); err != nil {
		t.Fatal(err)
	}

	raw, _ := s.GetConfig(store.KeyAPIToken)
	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(raw, EncryptedPrefix))
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xff
	s.SetConfig(store.KeyAPIToken, EncryptedPrefix+base64.StdEncoding.EncodeToString(sealed))

	if _, err := m.LoadSecret(s, store.KeyAPIToken); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestManager_MalformedToken(t *testing.T) {
	testCases := []struct {
		name  string
		value string
	}{
		{"bad base64", EncryptedPrefix + "%%%"},
		{"shorter than nonce", EncryptedPrefix + "YWJj"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			s.SetConfig(store.KeyAPIToken, tc.value)
			if _, err := NewManager().LoadSecret(s, store.KeyAPIToken); !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

func TestManager_FreshNoncePerSave(t *testing.T) {
	s := newStore(t)
	m := NewManager()

	m.SaveSecret(s, store.KeyAPIToken, "tok-same")
	first, _ := s.GetConfig(store.KeyAPIToken)
	m.SaveSecret(s, store.KeyAPIToken, "tok-same")
	second, _ := s.GetConfig(store.KeyAPIToken)

	if first == second {
		t.Error("saving the same token twice should not produce the same stored value")
	}
}

func TestMaskSecret(t *testing.T) {
	testCases := map[string]string{
		"tok-1234567890":  "tok-...7890",
		"abcdefgh":        "****",
		"bearer-xyz-0001": "bear...0001",
	}
	for in, want := range testCases {
		if got := MaskSecret(in); got != want {
			t.Errorf("MaskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
