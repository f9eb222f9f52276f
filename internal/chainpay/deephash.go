package chainpay

import (
	"crypto/sha512"
	"strconv"
)

// deepHashChunk is one element of a deep-hash input: either a blob or a
// nested list.
type deepHashChunk struct {
	blob []byte
	list []deepHashChunk
}

func blobChunk(b []byte) deepHashChunk {
	return deepHashChunk{blob: b}
}

func listChunk(items ...deepHashChunk) deepHashChunk {
	if items == nil {
		items = []deepHashChunk{}
	}
	return deepHashChunk{list: items}
}

// deepHash computes Arweave's recursive SHA-384 digest. Blobs hash as
// H(H("blob"+len) || H(data)); lists fold item digests into an
// accumulator seeded with H("list"+len).
func deepHash(chunk deepHashChunk) [sha512.Size384]byte {
	if chunk.list == nil {
		tag := []byte("blob" + strconv.Itoa(len(chunk.blob)))
		tagHash := sha512.Sum384(tag)
		blobHash := sha512.Sum384(chunk.blob)
		return sha512.Sum384(append(tagHash[:], blobHash[:]...))
	}

	tag := []byte("list" + strconv.Itoa(len(chunk.list)))
	acc := sha512.Sum384(tag)
	for _, item := range chunk.list {
		itemHash := deepHash(item)
		acc = sha512.Sum384(append(acc[:], itemHash[:]...))
	}
	return acc
}
