// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package security encrypts secrets stored in the preferences file.
//
// Values are sealed with AES-256-GCM. The key comes from one of two places:
//   - a passphrase (DOCSNAV_PASSPHRASE), stretched with PBKDF2-SHA-256 and a
//     salt kept next to the preferences
//   - a random master key file created on first use with 0600 permissions
package security

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
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/docsnav/internal/util"
)

// EncryptedPrefix marks a sealed value.
const EncryptedPrefix = "ENC:"

const (
	// NonceSize is the GCM nonce size in bytes.
	NonceSize = 12
	// KeySize is the AES-256 key size in bytes.
	KeySize = 32
	// SaltSize is the PBKDF2 salt size in bytes.
	SaltSize = 32
	// PBKDF2Iterations follows the OWASP 2023 recommendation for SHA-256.
	PBKDF2Iterations = 600000
)

// PassphraseEnv names the environment variable holding the passphrase.
const PassphraseEnv = "DOCSNAV_PASSPHRASE"

var (
	// ErrInvalidCiphertext indicates the sealed value is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong key or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// ZeroBytes overwrites b.
// SECURITY: Zero key material to prevent memory disclosure via crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// KEY MATERIAL
// =============================================================================

// DeriveKey stretches a passphrase with PBKDF2-SHA-256.
func DeriveKey(passphrase string, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = PBKDF2Iterations
	}
	return pbkdf2.Key([]byte(passphrase), salt, iterations, KeySize, sha256.New)
}

// loadOrCreate reads size random bytes from path, creating the file on first
// use.
func loadOrCreate(path string, size int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		if len(data) != size {
			return nil, fmt.Errorf("%s: unexpected length %d", path, len(data))
		}
		return data, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	data = make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, data); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	// RELIABILITY: Atomic write with fsync prevents a torn key file.
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return nil, fmt.Errorf("failed to save key material: %w", err)
	}
	return data, nil
}

// =============================================================================
// SEALER
// =============================================================================

// Sealer encrypts and decrypts short string values.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer builds a Sealer from a raw 32-byte key.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return &Sealer{aead: gcm}, nil
}

// NewPassphraseSealer derives the key from passphrase and the salt stored at
// saltPath (created if missing).
func NewPassphraseSealer(passphrase, saltPath string, iterations int) (*Sealer, error) {
	salt, err := loadOrCreate(saltPath, SaltSize)
	if err != nil {
		return nil, err
	}
	key := DeriveKey(passphrase, salt, iterations)
	defer ZeroBytes(key)
	return NewSealer(key)
}

// NewKeyFileSealer uses the random master key at keyPath (created if
// missing).
func NewKeyFileSealer(keyPath string) (*Sealer, error) {
	key, err := loadOrCreate(keyPath, KeySize)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)
	return NewSealer(key)
}

// DefaultSealer picks the passphrase sealer when PassphraseEnv is set and the
// key file sealer otherwise. Files live in dir.
func DefaultSealer(dir string) (*Sealer, error) {
	if pass := os.Getenv(PassphraseEnv); pass != "" {
		return NewPassphraseSealer(pass, dir+string(os.PathSeparator)+"prefs.salt", PBKDF2Iterations)
	}
	return NewKeyFileSealer(dir + string(os.PathSeparator) + "master.key")
}

// Seal encrypts plaintext and returns "ENC:" + base64(nonce || ciphertext).
// The empty string seals to the empty string.
func (s *Sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged so a
// hand-edited plaintext preference still loads.
func (s *Sealer) Open(value string) (string, error) {
	if !IsEncrypted(value) {
		return value, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, EncryptedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCiphertext, err)
	}
	if len(data) < NonceSize {
		return "", ErrInvalidCiphertext
	}
	plaintext, err := s.aead.Open(nil, data[:NonceSize], data[NonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether value carries the sealed prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}
