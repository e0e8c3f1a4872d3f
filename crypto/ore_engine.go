// Package crypto implements the confidentiality and comparison-revealing
// cipher primitives that the datatype packages assemble into queryable
// records: AES-256-GCM-SIV for confidentiality, and a block-structured
// order/equality-revealing scheme for comparison.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/allisson/enquo/enquoerr"
)

// minBlocks/maxBlocks and minWidth/maxWidth bound the block shapes used
// anywhere in this module; they exist to keep digit decomposition and
// permutation tables a sane size, not because the scheme has a deeper
// limitation.
const (
	minBlocks = 1
	maxBlocks = 16
	minWidth  = 2
	maxWidth  = 65536
)

func validateShape(n, w int) error {
	if n < minBlocks || n > maxBlocks {
		return enquoerr.Wrapf(enquoerr.ErrOperation, "block count %d out of range [%d,%d]", n, minBlocks, maxBlocks)
	}
	if w < minWidth || w > maxWidth {
		return enquoerr.Wrapf(enquoerr.ErrOperation, "block width %d out of range [%d,%d]", w, minWidth, maxWidth)
	}
	return nil
}

// digits decomposes pt into n base-w digits, most significant first. It
// fails with ErrRange if pt does not fit in w^n, computed with math/big
// since some shapes (e.g. <8,256>) exactly span the full uint64 range.
func digits(pt uint64, n, w int) ([]uint16, error) {
	domain := new(big.Int).Exp(big.NewInt(int64(w)), big.NewInt(int64(n)), nil)
	val := new(big.Int).SetUint64(pt)
	if val.Cmp(domain) >= 0 {
		return nil, enquoerr.Wrapf(enquoerr.ErrRange, "value %d does not fit in %d base-%d digits", pt, n, w)
	}

	base := big.NewInt(int64(w))
	mod := new(big.Int)
	out := make([]uint16, n)
	for i := n - 1; i >= 0; i-- {
		val.DivMod(val, base, mod)
		out[i] = uint16(mod.Int64())
	}
	return out, nil
}

// cmp3 reports the order of c relative to x as 0 (less), 1 (equal) or 2
// (greater).
func cmp3(c, x uint16) byte {
	switch {
	case c < x:
		return 0
	case c > x:
		return 2
	default:
		return 1
	}
}

// derivePermutation deterministically derives a pseudo-random permutation of
// {0,...,w-1} for block index from key, by scoring every value with a keyed
// hash and sorting by score. Two parties deriving from the same key and
// block index always obtain the same permutation.
func derivePermutation(key []byte, block, w int) ([]uint16, error) {
	type scoredValue struct {
		value uint16
		score []byte
	}

	scores := make([]scoredValue, w)
	for c := 0; c < w; c++ {
		mac := hmac.New(sha256.New, key)
		var blockIndex [4]byte
		binary.BigEndian.PutUint32(blockIndex[:], uint32(block))
		mac.Write(blockIndex[:])
		mac.Write([]byte{'P'})
		var value [2]byte
		binary.BigEndian.PutUint16(value[:], uint16(c))
		mac.Write(value[:])
		scores[c] = scoredValue{value: uint16(c), score: mac.Sum(nil)}
	}

	sort.Slice(scores, func(i, j int) bool {
		return bytesCompare(scores[i].score, scores[j].score) < 0
	})

	permOf := make([]uint16, w)
	for rank, s := range scores {
		permOf[s.value] = uint16(rank)
	}
	return permOf, nil
}

func bytesCompare(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// encryptBlocks encrypts pt under the n,w shape keyed by key, producing the
// right half and, if withLeft is set, the left indicator table.
func encryptBlocks(key []byte, n, w int, pt uint64, withLeft bool) (right []uint16, left [][]byte, err error) {
	if err := validateShape(n, w); err != nil {
		return nil, nil, err
	}

	ds, err := digits(pt, n, w)
	if err != nil {
		return nil, nil, err
	}

	right = make([]uint16, n)
	if withLeft {
		left = make([][]byte, n)
	}

	for i := 0; i < n; i++ {
		perm, err := derivePermutation(key, i, w)
		if err != nil {
			return nil, nil, err
		}

		right[i] = perm[ds[i]]

		if withLeft {
			row := make([]byte, w)
			for c := 0; c < w; c++ {
				row[perm[c]] = cmp3(uint16(c), ds[i])
			}
			left[i] = row
		}
	}

	return right, left, nil
}

// compareBlocks compares two ciphertexts of the same n,w shape, requiring at
// least one side to carry a left half. It returns -1, 0 or 1 for a<b, a==b,
// a>b respectively.
func compareBlocks(n, w int, rightA, rightB []uint16, leftA, leftB [][]byte) (int, error) {
	var (
		other    []uint16
		selfLeft [][]byte
		selfIsA  bool
	)
	switch {
	case leftA != nil:
		other, selfLeft, selfIsA = rightB, leftA, true
	case leftB != nil:
		other, selfLeft, selfIsA = rightA, leftB, false
	default:
		return 0, enquoerr.Wrap(enquoerr.ErrOperation, "comparison requires a left half on at least one side")
	}

	for i := 0; i < n; i++ {
		otherDigit := other[i]
		if int(otherDigit) >= w {
			return 0, enquoerr.Wrap(enquoerr.ErrOperation, "right half out of range for shape")
		}
		indicator := selfLeft[i][otherDigit]
		if indicator == 1 {
			continue
		}
		if selfIsA {
			if indicator == 0 {
				return 1, nil
			}
			return -1, nil
		}
		if indicator == 0 {
			return -1, nil
		}
		return 1, nil
	}
	return 0, nil
}
