package handshake

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/credential"
	"github.com/kindlyrobotics/cgka/internal/ecies"
	"github.com/kindlyrobotics/cgka/internal/groupstate"
	"github.com/kindlyrobotics/cgka/internal/wire"
)

func testState(suite ciphersuite.CipherSuite) groupstate.GroupState {
	_, priv, _ := suite.Signature().GenerateKeyPair(bytes.NewReader(bytes.Repeat([]byte{0x5a}, 4096)))
	return groupstate.GroupState{
		Epoch:              3,
		TranscriptHash:     []byte("some transcript hash"),
		ConfirmationKey:    bytes.Repeat([]byte{0x11}, 32),
		IdentityPrivateKey: priv,
		RosterIndex:        1,
	}
}

func TestNewHandshakeVerifies(t *testing.T) {
	suite, err := ciphersuite.Suite(ciphersuite.X25519Sha256Aes128Gcm)
	require.NoError(t, err)
	state := testState(suite)

	h, err := NewHandshake(suite, state, NewGroupInitOperation())
	require.NoError(t, err)

	require.True(t, VerifyConfirmation(suite, state.ConfirmationKey, state.TranscriptHash, h))

	tampered := h
	tampered.Confirmation = append([]byte{}, h.Confirmation...)
	tampered.Confirmation[0] ^= 0xFF
	require.False(t, VerifyConfirmation(suite, state.ConfirmationKey, state.TranscriptHash, tampered))
}

func TestHandshakeWireRoundTripEachOperationKind(t *testing.T) {
	suite, err := ciphersuite.Suite(ciphersuite.X25519Sha256Aes128Gcm)
	require.NoError(t, err)
	state := testState(suite)

	cred := credential.Credential{UserID: uuid.New(), PublicKey: []byte{1, 2, 3}, Name: "alice"}
	pub, _, err := suite.DH().GenerateKeyPair(bytes.Repeat([]byte{0x02}, 32))
	require.NoError(t, err)
	initKey := UserInitKey{
		UserInitKeyID:     []byte("uik-1"),
		SupportedVersions: []ProtocolVersion{1},
		CipherSuites:      []string{suite.Name()},
		InitKeys:          []ciphersuite.DhPublicKey{{Raw: pub}},
		Credential:        cred,
		Signature:         bytes.Repeat([]byte{0x03}, 64),
	}

	ops := []GroupOperation{
		NewGroupInitOperation(),
		NewGroupAddOperation(GroupAdd{Index: 4, InitKey: initKey, WelcomeInfoHash: []byte("hash")}),
		NewGroupUpdateOperation(GroupUpdate{}),
		NewGroupRemoveOperation(GroupRemove{Removed: 2}),
	}

	for _, op := range ops {
		h, err := NewHandshake(suite, state, op)
		require.NoError(t, err)

		w := wire.NewWriter()
		h.Marshal(w)

		decoded, err := UnmarshalHandshake(wire.NewReader(w.Bytes()))
		require.NoError(t, err)
		require.Equal(t, h.PriorEpoch, decoded.PriorEpoch)
		require.Equal(t, h.SignerIndex, decoded.SignerIndex)
		require.Equal(t, h.Signature, decoded.Signature)
		require.Equal(t, h.Confirmation, decoded.Confirmation)
	}
}

func TestWelcomeWireRoundTrip(t *testing.T) {
	suite, err := ciphersuite.Suite(ciphersuite.X25519Sha256Aes128Gcm)
	require.NoError(t, err)

	recipientPub, _, err := suite.DH().GenerateKeyPair(bytes.Repeat([]byte{0x06}, 32))
	require.NoError(t, err)
	ct, err := ecies.Encrypt(suite, recipientPub, []byte("welcome info"), nil)
	require.NoError(t, err)

	welcome := Welcome{
		UserInitKeyID:        []byte("uik-1"),
		CipherSuite:          suite.Name(),
		EncryptedWelcomeInfo: ct,
	}

	w := wire.NewWriter()
	welcome.Marshal(w)

	decoded, err := UnmarshalWelcome(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	require.Equal(t, welcome.UserInitKeyID, decoded.UserInitKeyID)
	require.Equal(t, welcome.CipherSuite, decoded.CipherSuite)
	require.Equal(t, ct.EphemeralPublicKey, decoded.EncryptedWelcomeInfo.EphemeralPublicKey)
	require.Equal(t, ct.Nonce, decoded.EncryptedWelcomeInfo.Nonce)
	require.Equal(t, ct.Payload, decoded.EncryptedWelcomeInfo.Payload)
}

func TestUserInitKeyRejectsZeroInitKeys(t *testing.T) {
	w := wire.NewWriter()
	w.WriteVarBytes(1, []byte("id"))
	w.WriteUint8(0)
	w.WriteUint8(0)
	w.WriteUint16(0) // zero init keys: violates the 1..2^16-1 bound

	_, err := UnmarshalUserInitKey(wire.NewReader(w.Bytes()))
	require.Error(t, err)
}

func TestHandshakeRejectsEmptyConfirmation(t *testing.T) {
	w := wire.NewWriter()
	w.WriteUint32(1)
	NewGroupInitOperation().Marshal(w)
	w.WriteUint32(0)
	w.WriteVarBytes(2, []byte("sig"))
	w.WriteVarBytes(1, []byte{}) // empty confirmation: violates the 1..255 bound

	_, err := UnmarshalHandshake(wire.NewReader(w.Bytes()))
	require.Error(t, err)
}
