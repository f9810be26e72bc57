// Package groupstate defines the minimal slice of a group's epoch
// state that Handshake construction needs: the epoch counter, the
// running transcript hash, the confirmation key, the signer's own
// identity key, and its roster index. spec.md places full epoch
// advancement, transcript-hash chaining, and roster mutation out of
// scope, so this struct is a fixed snapshot a caller populates and
// passes in — not a stateful object with its own update methods.
package groupstate

// GroupState is the epoch context a Handshake is constructed against.
type GroupState struct {
	Epoch              uint32
	TranscriptHash      []byte
	ConfirmationKey     []byte
	IdentityPrivateKey  []byte
	RosterIndex         uint32
}
