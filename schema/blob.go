// Package schema reads and writes the binary blob embedded in a
// compiled schema bundle: a compressed snapshot of the schema source
// plus enough of a header to detect format drift and corruption
// without decompressing first.
package schema

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pierrec/lz4/v4"
)

// MagicV2 is the current blob header: "STYX_SCHEMA_V2" padded with two
// NUL bytes to a round 16.
var MagicV2 = [16]byte{'S', 'T', 'Y', 'X', '_', 'S', 'C', 'H', 'E', 'M', 'A', '_', 'V', '2', 0, 0}

// MagicV1 is the legacy header this package still reads:
// "STYX_SCHEMAS_V1" padded with one NUL byte to 16.
var MagicV1 = [16]byte{'S', 'T', 'Y', 'X', '_', 'S', 'C', 'H', 'E', 'M', 'A', 'S', '_', 'V', '1', 0}

// hashSize is the width of the header's integrity field. The original
// format reserves 32 bytes for a BLAKE3 digest; no BLAKE3 package is
// available here, so xxhash64's 8-byte digest is stored left-aligned
// and the remaining 24 bytes are zero-padded (see DESIGN.md).
const hashSize = 32

// Blob is a decoded schema blob: its decompressed payload plus the
// digest recorded in its header.
type Blob struct {
	Payload []byte
	Hash    [hashSize]byte
	Legacy  bool // true if decoded from the V1 header
}

// Encode compresses payload and wraps it in a V2 header.
func Encode(payload []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var c lz4.Compressor
	n, err := c.CompressBlock(payload, compressed)
	if err != nil {
		return nil, fmt.Errorf("schema: compress: %w", err)
	}
	compressed = compressed[:n]

	var hash [hashSize]byte
	binary.LittleEndian.PutUint64(hash[:8], xxhash.Sum64(payload))

	var buf bytes.Buffer
	buf.Write(MagicV2[:])
	binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(compressed)))
	buf.Write(hash[:])
	buf.Write(compressed)
	return buf.Bytes(), nil
}

// Decode parses a schema blob, accepting both the current V2 header
// and the legacy V1 one. V1 blobs carry no length-prefixed compressed
// payload of their own shape; they are read as an uncompressed
// count-prefixed schema list and returned with Legacy set, Hash zero,
// and Payload holding everything after the header verbatim, left for
// the caller to interpret as the V1 schema-list encoding.
func Decode(data []byte) (Blob, error) {
	if len(data) < 16 {
		return Blob{}, fmt.Errorf("schema: blob too short")
	}
	switch {
	case bytes.Equal(data[:16], MagicV2[:]):
		return decodeV2(data)
	case bytes.Equal(data[:16], MagicV1[:]):
		return Blob{Payload: data[16:], Legacy: true}, nil
	default:
		return Blob{}, fmt.Errorf("schema: unrecognized blob header")
	}
}

// ExtractAll scans data for every schema blob concatenated end to end,
// decoding each in turn, per spec's "extraction scans for magic ...
// multiple blobs may be concatenated." A V2 header carries its own
// exact byte length (header + cmp_len), so the scan resumes right
// after it and keeps looking for the next magic; a V1 header's
// internal record layout isn't specified at this container-format
// level, so a V1 match consumes the rest of data and ends the scan.
func ExtractAll(data []byte) ([]Blob, error) {
	var blobs []Blob
	for len(data) > 0 {
		i2 := bytes.Index(data, MagicV2[:])
		i1 := bytes.Index(data, MagicV1[:])
		var idx int
		var isV1 bool
		switch {
		case i2 < 0 && i1 < 0:
			return blobs, nil
		case i2 < 0:
			idx, isV1 = i1, true
		case i1 < 0:
			idx, isV1 = i2, false
		case i1 < i2:
			idx, isV1 = i1, true
		default:
			idx, isV1 = i2, false
		}

		rest := data[idx:]
		if isV1 {
			b, err := Decode(rest)
			if err != nil {
				return blobs, err
			}
			return append(blobs, b), nil
		}

		const headerLen = 16 + 4 + 4 + hashSize
		if len(rest) < headerLen {
			return blobs, fmt.Errorf("schema: V2 header truncated")
		}
		cmpLen := binary.LittleEndian.Uint32(rest[20:24])
		total := headerLen + int(cmpLen)
		if total > len(rest) {
			return blobs, fmt.Errorf("schema: blob length exceeds remaining data")
		}
		b, err := decodeV2(rest[:total])
		if err != nil {
			return blobs, err
		}
		blobs = append(blobs, b)
		data = rest[total:]
	}
	return blobs, nil
}

func decodeV2(data []byte) (Blob, error) {
	const headerLen = 16 + 4 + 4 + hashSize
	if len(data) < headerLen {
		return Blob{}, fmt.Errorf("schema: V2 header truncated")
	}
	decLen := binary.LittleEndian.Uint32(data[16:20])
	cmpLen := binary.LittleEndian.Uint32(data[20:24])
	var hash [hashSize]byte
	copy(hash[:], data[24:24+hashSize])

	body := data[headerLen:]
	if uint32(len(body)) != cmpLen {
		return Blob{}, fmt.Errorf("schema: compressed length mismatch: header says %d, blob has %d", cmpLen, len(body))
	}

	payload := make([]byte, decLen)
	n, err := lz4.UncompressBlock(body, payload)
	if err != nil {
		return Blob{}, fmt.Errorf("schema: decompress: %w", err)
	}
	payload = payload[:n]

	var want [hashSize]byte
	binary.LittleEndian.PutUint64(want[:8], xxhash.Sum64(payload))
	if want != hash {
		return Blob{}, fmt.Errorf("schema: hash mismatch, blob is corrupt")
	}

	return Blob{Payload: payload, Hash: hash}, nil
}
