package crypto

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"incorporator/internal/util/memzero"
)

const (
	// FormatVersion is the current blob format written by Encrypt.
	FormatVersion = 1

	saltSize   = 16
	nonceSize  = chacha20poly1305.NonceSize
	tagSize    = chacha20poly1305.Overhead
	headerSize = 4 + saltSize
	minBlob    = headerSize + nonceSize + tagSize

	maxLogN = 20
	maxR    = 16
	maxP    = 16
)

var (
	// ErrAuthentication is returned when the tag does not verify.
	ErrAuthentication = errors.New("authentication failed: wrong passphrase or tampered data")
	// ErrMalformed is returned when the blob cannot be parsed.
	ErrMalformed = errors.New("malformed encrypted blob")
)

// KDFParams are the scrypt cost parameters recorded in each blob.
type KDFParams struct {
	LogN uint8
	R    uint8
	P    uint8
}

// DefaultKDFParams are used by Encrypt.
var DefaultKDFParams = KDFParams{LogN: 15, R: 8, P: 1}

func (p KDFParams) validate() error {
	if p.LogN < 1 || p.LogN > maxLogN || p.R == 0 || p.R > maxR || p.P == 0 || p.P > maxP {
		return fmt.Errorf("%w: scrypt parameters N=2^%d r=%d p=%d", ErrMalformed, p.LogN, p.R, p.P)
	}
	return nil
}

// Sealer encrypts with fixed KDF parameters. The zero value uses
// DefaultKDFParams.
type Sealer struct {
	Params KDFParams
}

// Encrypt seals plaintext under passphrase with DefaultKDFParams.
func Encrypt(plaintext, passphrase []byte) ([]byte, error) {
	return Sealer{}.Encrypt(plaintext, passphrase)
}

// Decrypt opens a blob produced by Encrypt.
func Decrypt(blob, passphrase []byte) ([]byte, error) {
	return Sealer{}.Decrypt(blob, passphrase)
}

// Encrypt derives a key from passphrase and a fresh salt and seals plaintext.
func (s Sealer) Encrypt(plaintext, passphrase []byte) ([]byte, error) {
	params := s.Params
	if params == (KDFParams{}) {
		params = DefaultKDFParams
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	blob := make([]byte, minBlob, minBlob+len(plaintext))
	blob[0] = FormatVersion
	blob[1], blob[2], blob[3] = params.LogN, params.R, params.P
	salt := blob[4:headerSize]
	nonce := blob[headerSize : headerSize+nonceSize]
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	aead, err := newAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	sealed := aead.Seal(nil, nonce, plaintext, blob[:headerSize])

	// Seal returns ciphertext||tag; the tag is stored ahead of the ciphertext.
	ctLen := len(sealed) - tagSize
	copy(blob[headerSize+nonceSize:minBlob], sealed[ctLen:])
	return append(blob, sealed[:ctLen]...), nil
}

// Decrypt parses blob, derives the key recorded in its header and opens it.
func (s Sealer) Decrypt(blob, passphrase []byte) ([]byte, error) {
	if len(blob) < minBlob {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformed, len(blob))
	}
	if blob[0] != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrMalformed, blob[0])
	}
	params := KDFParams{LogN: blob[1], R: blob[2], P: blob[3]}
	if err := params.validate(); err != nil {
		return nil, err
	}
	salt := blob[4:headerSize]
	nonce := blob[headerSize : headerSize+nonceSize]
	tag := blob[headerSize+nonceSize : minBlob]
	ct := blob[minBlob:]

	aead, err := newAEAD(passphrase, salt, params)
	if err != nil {
		return nil, err
	}
	sealed := make([]byte, 0, len(ct)+tagSize)
	sealed = append(append(sealed, ct...), tag...)
	pt, err := aead.Open(nil, nonce, sealed, blob[:headerSize])
	if err != nil {
		return nil, ErrAuthentication
	}
	return pt, nil
}

func newAEAD(passphrase, salt []byte, p KDFParams) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, salt, 1<<p.LogN, int(p.R), int(p.P), chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer memzero.Zero(key)
	return chacha20poly1305.New(key)
}
