package handshake

import (
	"crypto/hmac"
	"fmt"

	"github.com/kindlyrobotics/cgka/internal/ciphersuite"
	"github.com/kindlyrobotics/cgka/internal/groupstate"
)

// NewHandshake constructs a Handshake over op against the current
// GroupState, matching handshake.rs's Handshake::from_group_op:
//
//	signature    = Sign(identity_key, transcript_hash)
//	confirmation = HMAC(confirmation_key, transcript_hash || signature)
//
// Unlike the teacher's own ComputeDeliveryToken (pqc.go), which
// acknowledges using "a simplified version" of HMAC built from a bare
// SHA-256 hash over concatenated inputs, this uses the real construction
// from the standard library's crypto/hmac.
func NewHandshake(suite ciphersuite.CipherSuite, state groupstate.GroupState, op GroupOperation) (Handshake, error) {
	signature, err := suite.Signature().Sign(state.IdentityPrivateKey, state.TranscriptHash)
	if err != nil {
		return Handshake{}, fmt.Errorf("signing handshake transcript: %w", err)
	}

	mac := hmac.New(suite.NewHash(), state.ConfirmationKey)
	mac.Write(state.TranscriptHash)
	mac.Write(signature)
	confirmation := mac.Sum(nil)

	return Handshake{
		PriorEpoch:   state.Epoch,
		Operation:    op,
		SignerIndex:  state.RosterIndex,
		Signature:    signature,
		Confirmation: confirmation,
	}, nil
}

// VerifyConfirmation recomputes the confirmation MAC under suite's hash
// algorithm and reports whether it matches h.Confirmation, using a
// constant-time comparison.
func VerifyConfirmation(suite ciphersuite.CipherSuite, confirmationKey []byte, transcriptHash []byte, h Handshake) bool {
	mac := hmac.New(suite.NewHash(), confirmationKey)
	mac.Write(transcriptHash)
	mac.Write(h.Signature)
	expected := mac.Sum(nil)
	return hmac.Equal(expected, h.Confirmation)
}
