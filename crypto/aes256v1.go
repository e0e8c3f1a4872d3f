package crypto

import (
	tinksubtle "github.com/google/tink/go/aead/subtle"

	"github.com/allisson/enquo/enquoerr"
)

// AES256v1Record is the wire shape of an AEAD-protected value: a 96-bit
// nonce and the ciphertext with its authentication tag appended.
type AES256v1Record struct {
	IV []byte `cbor:"iv"`
	CT []byte `cbor:"ct"`
}

// AES256v1Encrypt seals plaintext under key (32 bytes) with context as
// additional authenticated data, using AES-256-GCM-SIV.
func AES256v1Encrypt(key, plaintext, context []byte) (*AES256v1Record, error) {
	cipher, err := tinksubtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncryption, err.Error())
	}

	sealed, err := cipher.Encrypt(plaintext, context)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrEncryption, err.Error())
	}

	nonceSize := tinksubtle.AESGCMSIVNonceSize
	if len(sealed) < nonceSize {
		return nil, enquoerr.Wrap(enquoerr.ErrEncryption, "aes-256-gcm-siv produced a truncated ciphertext")
	}

	return &AES256v1Record{
		IV: append([]byte{}, sealed[:nonceSize]...),
		CT: append([]byte{}, sealed[nonceSize:]...),
	}, nil
}

// Decrypt opens the record, verifying context as additional authenticated
// data. Returns DecryptionError on tag mismatch or wrong key/context.
func (r *AES256v1Record) Decrypt(key, context []byte) ([]byte, error) {
	cipher, err := tinksubtle.NewAESGCMSIV(key)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrKey, err.Error())
	}

	sealed := make([]byte, 0, len(r.IV)+len(r.CT))
	sealed = append(sealed, r.IV...)
	sealed = append(sealed, r.CT...)

	plaintext, err := cipher.Decrypt(sealed, context)
	if err != nil {
		return nil, enquoerr.Wrap(enquoerr.ErrDecryption, err.Error())
	}
	return plaintext, nil
}
