package kdf

import "encoding/binary"

// DeriveCounterMode implements the SP 800-108 key-derivation function in
// counter mode, using AES-CMAC as the pseudo-random function. It writes
// len(out) pseudo-random bytes into out, deterministic in (key, label).
//
// Each 16-byte output block i (1-indexed) is computed as:
//
//	CMAC(key, BE32(i) || label || 0x00 || BE32(L))
//
// where L is the requested output length in bits, following the
// "feedback-free" counter construction from SP 800-108 §5.1, with the label
// and a single separator byte standing in for the standard's generic
// "Label || 0x00 || Context" input, and no separate Context component since
// Static's callers fold all domain separation into the label itself.
func DeriveCounterMode(key, label, out []byte) error {
	lengthBits := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBits, uint32(len(out))*8) //nolint:gosec // output lengths are tiny (<=64 bytes)

	fixedInput := make([]byte, 0, len(label)+1+len(lengthBits))
	fixedInput = append(fixedInput, label...)
	fixedInput = append(fixedInput, 0x00)
	fixedInput = append(fixedInput, lengthBits...)

	counter := make([]byte, 4)
	produced := 0
	for i := uint32(1); produced < len(out); i++ {
		binary.BigEndian.PutUint32(counter, i)

		block, err := CMAC(key, append(append([]byte{}, counter...), fixedInput...))
		if err != nil {
			return err
		}

		n := copy(out[produced:], block)
		produced += n
	}

	return nil
}
