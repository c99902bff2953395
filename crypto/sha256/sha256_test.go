package sha256

import (
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum256KnownAnswers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", "abc", "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
		{
			"448 bits",
			"abcdbcdecdefdefgefghfghighijhijkijkljklmklmnlmnomnopnopq",
			"248d6a61d20638b8e5c026930c3e6039a33ce45964ff2167f6ecedd419db06c1",
		},
		{
			"896 bits",
			"abcdefghbcdefghicdefghijdefghijkefghijklfghijklmghijklmnhijklmnoijklmnopjklmnopqklmnopqrlmnopqrsmnopqrstnopqrstu",
			"cf5b16a778af8380036ce59e7b0492370b249b11e8f07a51afac45037afee9d1",
		},
		{"one million a", strings.Repeat("a", 1_000_000), "cdc76e5c9914fb9281a1c7e284d73e67f1809a48a497200e046d39ccc7112cd0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := Sum256([]byte(tt.input))
			assert.Equal(t, tt.expected, hex.EncodeToString(digest[:]))
		})
	}
}

func TestSum256NilInput(t *testing.T) {
	digest := Sum256(nil)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(digest[:]))
}

func TestSum256PaddingBoundaries(t *testing.T) {
	for _, size := range []int{0, 1, 55, 56, 57, 63, 64, 65, 119, 120, 127, 128, 129} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i*7 + 3)
		}

		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			expected := stdsha256.Sum256(data)
			assert.Equal(t, expected, Sum256(data), "length %d", size)
		})
	}
}

func TestSum256LargeInput(t *testing.T) {
	// 4MB plus a tail so the last block is partial
	data := make([]byte, 4*1024*1024+37)
	for i := range data {
		data[i] = byte(i ^ (i >> 8))
	}

	assert.Equal(t, stdsha256.Sum256(data), Sum256(data))
}

func TestSum256Deterministic(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	first := Sum256(data)
	second := Sum256(data)

	assert.Equal(t, first, second)
}

func TestSum256DoesNotModifyInput(t *testing.T) {
	data := []byte("abcdefghijklmnopqrstuvwxyz0123456789abcdefghijklmnopqrstuvwxyz")
	original := append([]byte(nil), data...)

	_ = Sum256(data)

	assert.Equal(t, original, data)
}

func TestSum256SingleBitFlip(t *testing.T) {
	data := make([]byte, 80)
	base := Sum256(data)

	for bit := 0; bit < len(data)*8; bit += 13 {
		flipped := append([]byte(nil), data...)
		flipped[bit/8] ^= 1 << (bit % 8)

		assert.NotEqual(t, base, Sum256(flipped), "bit %d", bit)
	}
}

func TestSum256Concurrent(t *testing.T) {
	inputs := make([][]byte, 32)
	for i := range inputs {
		inputs[i] = []byte(strings.Repeat(string(rune('a'+i%26)), i*17))
	}

	var wg sync.WaitGroup

	results := make([][Size]byte, len(inputs))

	for i := range inputs {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i] = Sum256(inputs[i])
		}(i)
	}

	wg.Wait()

	for i := range inputs {
		require.Equal(t, stdsha256.Sum256(inputs[i]), results[i])
	}
}

func TestPad(t *testing.T) {
	t.Run("one block", func(t *testing.T) {
		padded := pad([]byte("abc"), 3)
		require.Len(t, padded, BlockSize)

		assert.Equal(t, byte(0x80), padded[3])
		assert.Equal(t, make([]byte, 52), padded[4:56])
		// 24 bits, big endian
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0x18}, padded[56:])
	})

	t.Run("55 byte tail fits", func(t *testing.T) {
		padded := pad(make([]byte, 55), 55)
		require.Len(t, padded, BlockSize)
		assert.Equal(t, byte(0x80), padded[55])
	})

	t.Run("56 byte tail spills", func(t *testing.T) {
		padded := pad(make([]byte, 56), 56)
		require.Len(t, padded, 2*BlockSize)
		assert.Equal(t, byte(0x80), padded[56])
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x01, 0xc0}, padded[120:])
	})

	t.Run("length counts the whole message", func(t *testing.T) {
		padded := pad(nil, 64)
		require.Len(t, padded, BlockSize)
		assert.Equal(t, byte(0x80), padded[0])
		assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x02, 0x00}, padded[56:])
	})
}

func TestStateBytesBigEndian(t *testing.T) {
	s := state{0x01020304, 0, 0, 0, 0, 0, 0, 0xa0b0c0d0}
	out := s.bytes()

	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, out[:4])
	assert.Equal(t, []byte{0xa0, 0xb0, 0xc0, 0xd0}, out[28:])
}

func TestBlockWordParsingBigEndian(t *testing.T) {
	// a single compression over the padded empty message must reproduce the empty digest
	s := state(iv)
	s.blocks(pad(nil, 0))

	digest := s.bytes()
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", hex.EncodeToString(digest[:]))
}

func BenchmarkSum256(b *testing.B) {
	for _, size := range []int{32, 80, 1024, 8192} {
		data := make([]byte, size)

		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			b.SetBytes(int64(size))

			for i := 0; i < b.N; i++ {
				_ = Sum256(data)
			}
		})
	}
}
