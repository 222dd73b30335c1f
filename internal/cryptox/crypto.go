// Package cryptox seals note content with a key derived from the vault PIN.
//
// Keys come from argon2id over the PIN and a per-vault salt. Content is
// sealed with AES-256-GCM and stored as text so a sealed note still travels
// through the replica, the mutation queue and the server as an ordinary
// string field.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	SaltSize = 16
	KeySize  = 32

	sealedPrefix = "gnv1:"
)

var (
	ErrNotSealed = errors.New("content is not sealed")
	// ErrOpen means the key is wrong or the sealed text was altered.
	ErrOpen = errors.New("cannot open sealed content")
)

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

func DeriveKey(pin, salt []byte) []byte {
	return argon2.IDKey(pin, salt, 1, 64*1024, 4, KeySize)
}

// MakeVerifier returns a value that can be stored to check a PIN later
// without storing the key itself.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

func Verify(key, verifier []byte) bool {
	return subtle.ConstantTimeCompare(MakeVerifier(key), verifier) == 1
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext under key. Every call uses a fresh nonce, so
// sealing the same text twice gives different results.
func Seal(plaintext string, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

func Open(sealed string, key []byte) (string, error) {
	if !IsSealed(sealed) {
		return "", ErrNotSealed
	}
	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOpen, err)
	}
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}
	if len(raw) < aesgcm.NonceSize() {
		return "", fmt.Errorf("%w: truncated", ErrOpen)
	}
	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrOpen
	}
	return string(plaintext), nil
}

func IsSealed(s string) bool {
	return strings.HasPrefix(s, sealedPrefix)
}

// Wipe overwrites b with zeros. Keys and PINs are wiped once they are no
// longer needed.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
