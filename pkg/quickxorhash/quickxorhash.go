// Package quickxorhash implements QuickXorHash, the content hash the
// Microsoft Graph API reports for files in SharePoint document libraries
// and OneDrive (the file.hashes.quickXorHash field of a driveItem).
//
// Each input byte is XORed into a 160-bit circular buffer whose insertion
// point advances 11 bits per byte; the final digest additionally mixes in
// the total input length. The hash is not cryptographic. It exists to
// detect transfer corruption.
//
// Based on the rclone implementation (BSD-0 license).
// Original source: github.com/rclone/rclone/backend/onedrive/quickxorhash
// Copyright (c) rclone contributors.
//
// Reference C# implementation by Microsoft:
// https://learn.microsoft.com/en-us/onedrive/developer/code-snippets/quickxorhash
package quickxorhash

import (
	"encoding/binary"
	"hash"
)

const (
	// Size is the length, in bytes, of a QuickXorHash digest.
	Size = 20

	// BlockSize is the preferred input block size for the hash, in bytes.
	BlockSize = 64

	// shift is the number of bits the insertion point advances per byte.
	shift = 11

	// widthInBits is the total width of the circular XOR buffer, in bits.
	widthInBits = 160

	// bitsPerByte is the number of bits in one byte.
	bitsPerByte = 8

	// bitsPerUint64 is the number of bits in a single uint64 element.
	bitsPerUint64 = 64

	// dataLen is the number of uint64 cells needed to hold widthInBits bits.
	dataLen = 3 // (widthInBits-1)/bitsPerUint64 + 1

	// bitsInLastCell is the number of valid bits in the final cell:
	// widthInBits - (dataLen-1)*64 = 160 - 2*64 = 32.
	bitsInLastCell = 32
)

// digest is the internal state of a QuickXorHash computation.
type digest struct {
	data        [dataLen]uint64
	shiftSoFar  int
	lengthSoFar uint64
}

// New returns a new hash.Hash computing the QuickXorHash checksum.
func New() hash.Hash {
	return &digest{}
}

// bitsInCell returns the number of valid bits in the cell at the given index.
func bitsInCell(index int) int {
	if index == dataLen-1 {
		return bitsInLastCell
	}

	return bitsPerUint64
}

// Write absorbs more data into the running hash.
// It always returns len(p), nil.
func (d *digest) Write(p []byte) (int, error) {
	cell := d.shiftSoFar / bitsPerUint64
	offset := d.shiftSoFar % bitsPerUint64

	// The insertion point cycles with period widthInBits, so bytes at
	// positions i, i+160, i+320, ... all land on the same bit offset and
	// can be folded together before the shift.
	iterations := min(len(p), widthInBits)

	for i := range iterations {
		cellBits := bitsInCell(cell)

		if offset <= cellBits-bitsPerByte {
			// The byte fits entirely within this cell.
			for j := i; j < len(p); j += widthInBits {
				d.data[cell] ^= uint64(p[j]) << offset
			}
		} else {
			// The byte straddles this cell and the next; fold first,
			// then split the folded byte across both cells.
			next := cell + 1
			if cell == dataLen-1 {
				next = 0
			}

			spill := byte(cellBits - offset)

			var folded byte
			for j := i; j < len(p); j += widthInBits {
				folded ^= p[j]
			}

			d.data[cell] ^= uint64(folded) << offset
			d.data[next] ^= uint64(folded) >> spill
		}

		offset += shift
		for offset >= bitsInCell(cell) {
			offset -= bitsInCell(cell)
			if cell == dataLen-1 {
				cell = 0
			} else {
				cell++
			}
		}
	}

	d.shiftSoFar = (d.shiftSoFar + shift*(len(p)%widthInBits)) % widthInBits
	d.lengthSoFar += uint64(len(p))

	return len(p), nil
}

// Sum appends the current hash to b and returns the resulting slice.
// It does not change the underlying hash state.
func (d *digest) Sum(b []byte) []byte {
	// Work on a copy so Sum stays non-destructive.
	snapshot := *d

	// Serialize the buffer into 20 bytes, little-endian per cell.
	var out [Size]byte
	binary.LittleEndian.PutUint64(out[0:8], snapshot.data[0])
	binary.LittleEndian.PutUint64(out[8:16], snapshot.data[1])
	// The last cell carries only bitsInLastCell (32) valid bits.
	lastCell := uint32(snapshot.data[2]) //nolint:gosec // truncation is intentional; see bitsInLastCell
	binary.LittleEndian.PutUint32(out[16:Size], lastCell)

	// XOR the input length (little-endian) into the trailing 8 bytes.
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], snapshot.lengthSoFar)

	start := Size - len(length)
	for i, lb := range length {
		out[start+i] ^= lb
	}

	return append(b, out[:]...)
}

// Reset resets the hash to its initial state.
func (d *digest) Reset() {
	*d = digest{}
}

// Size returns the number of bytes Sum will return.
func (d *digest) Size() int {
	return Size
}

// BlockSize returns the hash's underlying block size.
func (d *digest) BlockSize() int {
	return BlockSize
}
