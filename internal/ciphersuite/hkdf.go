package ciphersuite

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfHashSize is the output size of the hash function every registered
// cipher suite uses for key derivation (SHA-256 throughout, matching
// the teacher's DeriveKey in symmetric.go).
const hkdfHashSize = sha256.Size

// HkdfExtract is the RFC 5869 extract step, used to turn a path secret
// into the pseudorandom key from which the node secret and the next
// path secret are expanded.
func HkdfExtract(salt, ikm []byte) []byte {
	return hkdf.Extract(sha256.New, ikm, salt)
}

// HkdfExpand derives outLen bytes from a pseudorandom key and context
// info, grounded on the teacher's DeriveKey helper (symmetric.go),
// generalized from a single call into the separate Extract/Expand steps
// the ratchet tree's key schedule needs independently.
func HkdfExpand(prk, info []byte, outLen int) ([]byte, error) {
	if outLen > 255*hkdfHashSize {
		return nil, fmt.Errorf("requested HKDF output too large: %d bytes", outLen)
	}
	reader := hkdf.Expand(sha256.New, prk, info)
	out := make([]byte, outLen)
	if _, err := io.ReadFull(reader, out); err != nil {
		return nil, fmt.Errorf("HKDF-Expand failed: %w", err)
	}
	return out, nil
}

// HkdfExpandLabel implements the MLS-style "Derive-Secret"/
// "HKDF-Expand-Label" construction: it binds the derived output to a
// textual label and an arbitrary context value, so secrets derived for
// different purposes from the same PRK are cryptographically
// independent even though the teacher's own DeriveKey never needed
// this label/context separation (it only ever mixed in a salt and a
// plain info string).
//
// The encoded info is:
//
//	uint16(outLen) || u8-len-prefixed("cgka " + label) || u32-len-prefixed(context)
func HkdfExpandLabel(prk []byte, label string, context []byte, outLen int) ([]byte, error) {
	fullLabel := "cgka " + label
	if len(fullLabel) > 255 {
		return nil, fmt.Errorf("HKDF-Expand-Label label too long: %d bytes", len(fullLabel))
	}

	info := make([]byte, 0, 2+1+len(fullLabel)+4+len(context))
	var lenBuf [4]byte
	binary.BigEndian.PutUint16(lenBuf[:2], uint16(outLen))
	info = append(info, lenBuf[:2]...)
	info = append(info, byte(len(fullLabel)))
	info = append(info, []byte(fullLabel)...)
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(context)))
	info = append(info, lenBuf[:]...)
	info = append(info, context...)

	return HkdfExpand(prk, info, outLen)
}
