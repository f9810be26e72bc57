package ciphersuite

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func allSuiteNames() []string {
	return []string{X25519Sha256Aes128Gcm, P256Sha256Aes128Gcm, X25519Kyber1024Sha256Aes128Gcm, X25519Sha256XChaCha20Poly1305}
}

func TestSuiteLookup(t *testing.T) {
	for _, name := range allSuiteNames() {
		cs, err := Suite(name)
		require.NoError(t, err)
		require.Equal(t, name, cs.Name())
	}
	_, err := Suite("nonexistent-suite")
	require.Error(t, err)
}

func TestDHGenerateDeterministicFromSeed(t *testing.T) {
	for _, name := range allSuiteNames() {
		t.Run(name, func(t *testing.T) {
			cs, err := Suite(name)
			require.NoError(t, err)

			seed := bytes.Repeat([]byte{0x42}, 64)
			pub1, priv1, err := cs.DH().GenerateKeyPair(seed)
			require.NoError(t, err)
			pub2, priv2, err := cs.DH().GenerateKeyPair(seed)
			require.NoError(t, err)

			require.Equal(t, pub1, pub2)
			require.Equal(t, priv1, priv2)
			require.Len(t, pub1, cs.DH().PublicKeySize())
		})
	}
}

func TestDHEncapDecapRoundTrip(t *testing.T) {
	for _, name := range allSuiteNames() {
		t.Run(name, func(t *testing.T) {
			cs, err := Suite(name)
			require.NoError(t, err)

			seed := bytes.Repeat([]byte{0x07}, 64)
			recipientPub, recipientPriv, err := cs.DH().GenerateKeyPair(seed)
			require.NoError(t, err)

			ephemeralPub, sharedSend, outOfBand, err := cs.DH().Encap(rand.Reader, recipientPub)
			require.NoError(t, err)

			sharedRecv, err := cs.DH().Decap(recipientPriv, ephemeralPub, outOfBand)
			require.NoError(t, err)

			require.Equal(t, sharedSend, sharedRecv)
		})
	}
}

func TestSignatureRoundTrip(t *testing.T) {
	for _, name := range allSuiteNames() {
		t.Run(name, func(t *testing.T) {
			cs, err := Suite(name)
			require.NoError(t, err)

			pub, priv, err := cs.Signature().GenerateKeyPair(rand.Reader)
			require.NoError(t, err)

			msg := []byte("transcript hash over a handshake message")
			sig, err := cs.Signature().Sign(priv, msg)
			require.NoError(t, err)

			ok, err := cs.Signature().Verify(pub, msg, sig)
			require.NoError(t, err)
			require.True(t, ok)

			ok, err = cs.Signature().Verify(pub, []byte("tampered"), sig)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestAES128GCMSealOpenRoundTrip(t *testing.T) {
	a := AES128GCM{}
	key := bytes.Repeat([]byte{0x11}, a.KeySize())
	nonce := bytes.Repeat([]byte{0x22}, a.NonceSize())
	aad := []byte("associated data")
	plaintext := []byte("node secret material")

	ct, err := a.Seal(key, nonce, plaintext, aad)
	require.NoError(t, err)
	require.Len(t, ct, len(plaintext)+a.Overhead())

	pt, err := a.Open(key, nonce, ct, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, pt)

	_, err = a.Open(key, nonce, ct, []byte("wrong aad"))
	require.Error(t, err)
}

func TestXChaCha20Poly1305SealOpenRoundTrip(t *testing.T) {
	a := XChaCha20Poly1305AEAD{}
	key := bytes.Repeat([]byte{0x33}, a.KeySize())
	nonce := bytes.Repeat([]byte{0x44}, a.NonceSize())
	aad := []byte("associated data")
	plaintext := []byte("node secret material")

	ct, err := a.Seal(key, nonce, plaintext, aad)
	require.NoError(t, err)
	require.Len(t, ct, len(plaintext)+a.Overhead())

	pt, err := a.Open(key, nonce, ct, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, pt)

	_, err = a.Open(key, nonce, ct, []byte("wrong aad"))
	require.Error(t, err)
}

func TestGenerateNonceMatchesSuiteAEADSize(t *testing.T) {
	for _, name := range allSuiteNames() {
		t.Run(name, func(t *testing.T) {
			cs, err := Suite(name)
			require.NoError(t, err)

			nonce, err := cs.GenerateNonce()
			require.NoError(t, err)
			require.Len(t, nonce, cs.AEAD().NonceSize())
		})
	}
}

func TestHkdfExpandLabelDeterministicAndLabelSeparated(t *testing.T) {
	prk := bytes.Repeat([]byte{0x33}, hkdfHashSize)

	out1, err := HkdfExpandLabel(prk, "node", []byte("ctx"), 32)
	require.NoError(t, err)
	out2, err := HkdfExpandLabel(prk, "node", []byte("ctx"), 32)
	require.NoError(t, err)
	require.Equal(t, out1, out2)

	out3, err := HkdfExpandLabel(prk, "path", []byte("ctx"), 32)
	require.NoError(t, err)
	require.NotEqual(t, out1, out3)
}
