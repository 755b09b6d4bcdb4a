package schema

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	payload := []byte(`schema { name "person", fields (name age) }`)
	blob, err := Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(blob[:16], MagicV2[:]) {
		t.Fatalf("header = %q", blob[:16])
	}
	decoded, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Legacy {
		t.Fatal("expected Legacy = false for a V2 blob")
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Fatalf("payload = %q, want %q", decoded.Payload, payload)
	}
}

func TestDecodeLegacyV1(t *testing.T) {
	body := []byte("legacy schema bytes")
	blob := append(append([]byte{}, MagicV1[:]...), body...)
	decoded, err := Decode(blob)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.Legacy {
		t.Fatal("expected Legacy = true for a V1 blob")
	}
	if !bytes.Equal(decoded.Payload, body) {
		t.Fatalf("payload = %q, want %q", decoded.Payload, body)
	}
}

func TestDecodeRejectsCorruptHash(t *testing.T) {
	payload := []byte("some schema text")
	blob, err := Encode(payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	blob[len(blob)-1] ^= 0xFF
	if _, err := Decode(blob); err == nil {
		t.Fatal("expected corruption to be detected")
	}
}

func TestDecodeRejectsShortBlob(t *testing.T) {
	if _, err := Decode([]byte("short")); err == nil {
		t.Fatal("expected error for too-short blob")
	}
}

func TestExtractAllConcatenatedV2Blobs(t *testing.T) {
	first, err := Encode([]byte("schema one"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	second, err := Encode([]byte("schema two"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	concatenated := append(append([]byte{}, first...), second...)

	blobs, err := ExtractAll(concatenated)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(blobs) != 2 {
		t.Fatalf("got %d blobs, want 2", len(blobs))
	}
	if string(blobs[0].Payload) != "schema one" || string(blobs[1].Payload) != "schema two" {
		t.Fatalf("payloads = %q, %q", blobs[0].Payload, blobs[1].Payload)
	}
}

func TestExtractAllNoMagicReturnsEmpty(t *testing.T) {
	blobs, err := ExtractAll([]byte("not a schema blob at all"))
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(blobs) != 0 {
		t.Fatalf("blobs = %+v, want none", blobs)
	}
}

func TestExtractAllStopsAtLegacyV1(t *testing.T) {
	body := []byte("legacy schema bytes")
	v1 := append(append([]byte{}, MagicV1[:]...), body...)
	blobs, err := ExtractAll(v1)
	if err != nil {
		t.Fatalf("ExtractAll: %v", err)
	}
	if len(blobs) != 1 || !blobs[0].Legacy {
		t.Fatalf("blobs = %+v", blobs)
	}
}
