// Package seal encrypts and decrypts exported index text (the output of
// EXTRACT, or a LOAD source a caller wants to keep at rest encrypted). It is
// never applied to the index file itself: the block file's byte layout is a
// fixed on-disk format, and sealing it would make it unreadable by anything
// that expects §2/§3's layout.
//
// The approach is adapted from the teacher's encrypt/decrypt helpers in
// lib/kayveedb.go, which used XChaCha20-Poly1305 keyed by an HMAC-SHA256
// digest of a passphrase; the scheme here is the same, applied to whole
// blobs instead of per-key-value-pair payloads.
package seal

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/rickcollette/blockidx/internal/errs"
)

const keyContext = "blockidx-seal-v1"

// deriveKey turns an arbitrary-length passphrase into a fixed 32-byte
// XChaCha20-Poly1305 key, the same HMAC-SHA256-over-a-fixed-context
// construction the teacher used for its node-encryption key.
func deriveKey(passphrase string) [chacha20poly1305.KeySize]byte {
	mac := hmac.New(sha256.New, []byte(passphrase))
	mac.Write([]byte(keyContext))
	sum := mac.Sum(nil)
	var key [chacha20poly1305.KeySize]byte
	copy(key[:], sum)
	return key
}

// Seal encrypts plaintext under passphrase, returning nonce||ciphertext.
func Seal(passphrase string, plaintext []byte) ([]byte, error) {
	key := deriveKey(passphrase)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("construct aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errs.IoErrorf("generate nonce: %w", err)
	}

	out := aead.Seal(nonce, nonce, plaintext, nil)
	return out, nil
}

// Unseal reverses Seal. It returns errs.ErrInvalidArgument wrapped with
// detail if sealed is too short to contain a nonce, or if authentication
// fails (wrong passphrase or tampered data).
func Unseal(passphrase string, sealed []byte) ([]byte, error) {
	key := deriveKey(passphrase)
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("construct aead: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, fmt.Errorf("sealed data shorter than nonce: %w", errs.ErrInvalidArgument)
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", errs.ErrInvalidArgument)
	}
	return plaintext, nil
}
