// Package crypto seals session payloads under a caller-supplied passphrase.
//
// Blob format (version 1)
//
//	offset  size  field
//	0       1     format version
//	1       1     scrypt log2(N)
//	2       1     scrypt r
//	3       1     scrypt p
//	4       16    salt
//	20      12    nonce
//	32      16    Poly1305 authentication tag
//	48      n     ChaCha20 ciphertext
//
// The first 20 bytes (version, KDF parameters and salt) are bound as
// associated data, so a modified header fails authentication. Each call to
// Encrypt draws a fresh salt and nonce; the blob is self-describing and the
// passphrase is never stored.
//
// # Errors
//
// Decrypt distinguishes ErrAuthentication (wrong passphrase or tampered
// blob) from ErrMalformed (truncated blob, unknown version or out-of-range
// parameters). It never returns partial plaintext.
package crypto
