package domain

// Algorithm identifies the AEAD cipher protecting a credential store.
//
// Both algorithms use a 256-bit key, a 12-byte nonce and a 16-byte tag, so a store can
// be created with either one and the choice is recorded in the store header.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode. Hardware accelerated on most CPUs.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, the better choice on machines without AES-NI.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// KDF identifies the password-based key derivation function of a store.
type KDF string

// PBKDF2SHA256 is PBKDF2 with HMAC-SHA256.
const PBKDF2SHA256 KDF = "pbkdf2-sha256"

const (
	// KeySize is the byte length of every derived symmetric key.
	KeySize = 32

	// SaltSize is the byte length of the random salt generated for a new store.
	SaltSize = 32

	// NonceSize is the nonce length shared by both supported ciphers.
	NonceSize = 12

	// MinKDFIterations is the lowest PBKDF2 iteration count accepted for derivation.
	MinKDFIterations = 100000

	// MaxKDFIterations bounds the work a store file header can demand before its
	// authentication tag is checked.
	MaxKDFIterations = 10000000

	// LegacyKDFIterations is assumed for store files written without an iteration count.
	LegacyKDFIterations = 100000

	// DefaultKDFIterations is used for newly created stores unless configured otherwise.
	DefaultKDFIterations = 210000
)

// SupportedAlgorithms lists the accepted cipher identifiers.
func SupportedAlgorithms() []Algorithm {
	return []Algorithm{AESGCM, ChaCha20}
}
