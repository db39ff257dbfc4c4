package crypto_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"incorporator/internal/crypto"
)

// fast keeps scrypt cheap in tests; the format records it per blob.
var fast = crypto.Sealer{Params: crypto.KDFParams{LogN: 10, R: 8, P: 1}}

func TestSealer_RoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		[]byte("x"),
		[]byte(`{"state":{"value":"DE","filled":true}}`),
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}
	passphrases := []string{"", "pass", "correct horse battery staple", "päss\x00word"}

	for _, pt := range inputs {
		for _, pass := range passphrases {
			blob, err := fast.Encrypt(pt, []byte(pass))
			require.NoError(t, err)

			got, err := fast.Decrypt(blob, []byte(pass))
			require.NoError(t, err)
			require.True(t, bytes.Equal(pt, got), "round trip mismatch for %d bytes", len(pt))
		}
	}
}

func TestSealer_WrongPassphrase(t *testing.T) {
	blob, err := fast.Encrypt([]byte("secret draft"), []byte("correct"))
	require.NoError(t, err)

	_, err = fast.Decrypt(blob, []byte("wrong"))
	require.ErrorIs(t, err, crypto.ErrAuthentication)
	require.NotErrorIs(t, err, crypto.ErrMalformed)
}

func TestSealer_FreshSaltAndNonce(t *testing.T) {
	pass := []byte("p")
	a, err := fast.Encrypt([]byte("same"), pass)
	require.NoError(t, err)
	b, err := fast.Encrypt([]byte("same"), pass)
	require.NoError(t, err)

	require.NotEqual(t, a[4:20], b[4:20], "salt reused")
	require.NotEqual(t, a[20:32], b[20:32], "nonce reused")
}

func TestSealer_Tampered(t *testing.T) {
	pass := []byte("p")
	blob, err := fast.Encrypt([]byte("some payload"), pass)
	require.NoError(t, err)

	// Flip one bit in the salt, nonce, tag and ciphertext regions in turn.
	for _, off := range []int{5, 21, 33, len(blob) - 1} {
		mod := append([]byte(nil), blob...)
		mod[off] ^= 0x01
		_, err := fast.Decrypt(mod, pass)
		require.ErrorIs(t, err, crypto.ErrAuthentication, "offset %d", off)
	}
}

func TestSealer_Malformed(t *testing.T) {
	pass := []byte("p")
	blob, err := fast.Encrypt([]byte("payload"), pass)
	require.NoError(t, err)

	_, err = fast.Decrypt(blob[:47], pass)
	require.ErrorIs(t, err, crypto.ErrMalformed)

	badVersion := append([]byte(nil), blob...)
	badVersion[0] = 99
	_, err = fast.Decrypt(badVersion, pass)
	require.ErrorIs(t, err, crypto.ErrMalformed)

	hugeCost := append([]byte(nil), blob...)
	hugeCost[1] = 40
	_, err = fast.Decrypt(hugeCost, pass)
	require.ErrorIs(t, err, crypto.ErrMalformed)
}

func TestDecrypt_ReadsParamsFromBlob(t *testing.T) {
	blob, err := fast.Encrypt([]byte("hello"), []byte("p"))
	require.NoError(t, err)

	// The package-level Decrypt uses the parameters recorded in the header.
	got, err := crypto.Decrypt(blob, []byte("p"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestHash(t *testing.T) {
	require.Equal(t, crypto.Hash([]byte("a")), crypto.Hash([]byte("a")))
	require.NotEqual(t, crypto.Hash([]byte("a")), crypto.Hash([]byte("b")))
	require.Len(t, crypto.Hash(nil), 64)
	require.Len(t, crypto.Fingerprint([]byte("a")), 12)
}
