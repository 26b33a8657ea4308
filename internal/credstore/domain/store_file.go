// Package domain defines the on-disk and in-memory models of the credential store.
package domain

import (
	"encoding/hex"
	"strconv"
	"strings"

	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
)

const (
	// LegacyVersion marks store files written before the header carried a version.
	// They decrypt with legacy KDF defaults and no additional authenticated data.
	LegacyVersion = 0

	// CurrentVersion is written by every save of a new store.
	CurrentVersion = 1
)

// StoreHeader holds everything needed to re-derive the key of a store and pick its cipher.
// It never changes after the store is created.
type StoreHeader struct {
	Version    int
	KDF        cryptoDomain.KDF
	Iterations int
	Algorithm  cryptoDomain.Algorithm
	Salt       []byte
}

// KDFParams returns the derivation parameters recorded in the header.
func (h StoreHeader) KDFParams() cryptoDomain.KDFParams {
	return cryptoDomain.KDFParams{
		KDF:        h.KDF,
		Iterations: h.Iterations,
		Salt:       h.Salt,
	}
}

// AAD returns the additional authenticated data binding the header to the ciphertext.
// Legacy stores were encrypted without any.
func (h StoreHeader) AAD() []byte {
	if h.Version == LegacyVersion {
		return nil
	}

	var b strings.Builder
	b.WriteString("dspace-credstore/v")
	b.WriteString(strconv.Itoa(h.Version))
	b.WriteByte('|')
	b.WriteString(string(h.KDF))
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(h.Iterations))
	b.WriteByte('|')
	b.WriteString(string(h.Algorithm))
	b.WriteByte('|')
	b.WriteString(hex.EncodeToString(h.Salt))
	return []byte(b.String())
}

// StoreFile is the decoded form of the encrypted store file.
type StoreFile struct {
	StoreHeader
	Nonce      []byte
	Ciphertext []byte
}
