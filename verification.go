package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/goliatone/go-errors"
)

// codeNonceSize is the AES-GCM nonce length. Hex encoded it becomes the
// fixed-width prefix of every code, so decode never has to guess where the
// ciphertext starts even if the plaintext contained the separator.
const codeNonceSize = 12

const codeSeparator = ":"

// VerificationCodec produces self-verifying codes for out-of-band identity
// proofs: email verification links, password reset links. The code is the
// claim, there is no server-side table of outstanding codes. Staleness is
// enforced by the consuming workflow, not by the codec.
type VerificationCodec struct {
	key []byte
}

// NewVerificationCodec builds a codec around a static 32 byte key. The key is
// provisioned externally and must never be derived at runtime or committed to
// source.
func NewVerificationCodec(key []byte) (*VerificationCodec, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, errors.New("encryption key must be 16, 24, or 32 bytes", errors.CategoryValidation)
	}

	c := &VerificationCodec{key: make([]byte, len(key))}
	copy(c.key, key)
	return c, nil
}

// Encode encrypts the identity string under the static key and returns
// nonceHex:ciphertextHex. The nonce is freshly random per call, two encodings
// of the same identity never compare equal.
func (c *VerificationCodec) Encode(identity string) (string, error) {
	nonce := make([]byte, codeNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate code nonce")
	}

	gcm, err := c.sealer()
	if err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nil, nonce, []byte(identity), nil)

	return hex.EncodeToString(nonce) + codeSeparator + hex.EncodeToString(ciphertext), nil
}

// Decode reverses Encode. It fails closed: a code with the wrong shape
// returns ErrCodeMalformed, a code that does not open under our key (tampered
// bytes, different key) returns ErrCodeInvalid. Neither error carries
// cryptographic detail.
func (c *VerificationCodec) Decode(code string) (string, error) {
	// The nonce field is fixed width; everything after it is ciphertext,
	// including any further separator characters.
	prefixLen := codeNonceSize*2 + len(codeSeparator)
	if len(code) < prefixLen {
		return "", ErrCodeMalformed
	}

	nonceHex, rest := code[:codeNonceSize*2], code[codeNonceSize*2:]
	if !strings.HasPrefix(rest, codeSeparator) {
		return "", ErrCodeMalformed
	}

	nonce, err := hex.DecodeString(nonceHex)
	if err != nil {
		return "", ErrCodeMalformed
	}

	ciphertext, err := hex.DecodeString(rest[len(codeSeparator):])
	if err != nil {
		return "", ErrCodeMalformed
	}

	gcm, err := c.sealer()
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCodeInvalid
	}

	return string(plaintext), nil
}

func (c *VerificationCodec) sealer() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to initialize cipher")
	}

	gcm, err := cipher.NewGCMWithNonceSize(block, codeNonceSize)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to initialize GCM")
	}

	return gcm, nil
}
