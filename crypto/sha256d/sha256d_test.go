package sha256d

import (
	stdsha256 "crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"testing"

	"github.com/bsv-blockchain/sha256d/crypto/sha256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumEmpty(t *testing.T) {
	digest := Sum([]byte{})
	assert.Equal(t, "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456", hex.EncodeToString(digest[:]))

	digest = Sum(nil)
	assert.Equal(t, "5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456", hex.EncodeToString(digest[:]))
}

func TestSumKnownAnswers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"abc", "abc", "4f8b42c22dd3729b519ba6f68d2da7cc5b2d606d05daed5ad5128cc03e6c6358"},
		{"hello", "hello", "9595c9df90075148eb06860365df33584b75bff782a510c6cd4883a419833d50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest := Sum([]byte(tt.input))
			assert.Equal(t, tt.expected, hex.EncodeToString(digest[:]))
		})
	}
}

func TestSumComposition(t *testing.T) {
	for _, size := range []int{0, 1, 31, 32, 33, 55, 56, 63, 64, 65, 80, 1000} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(255 - i)
		}

		t.Run(fmt.Sprintf("%d bytes", size), func(t *testing.T) {
			first := sha256.Sum256(data)
			expected := sha256.Sum256(first[:])
			assert.Equal(t, expected, Sum(data))

			// independent reference
			refFirst := stdsha256.Sum256(data)
			assert.Equal(t, stdsha256.Sum256(refFirst[:]), Sum(data))
		})
	}
}

func TestSumIsNotSingleHash(t *testing.T) {
	data := []byte("abc")
	assert.NotEqual(t, sha256.Sum256(data), Sum(data))
}

func TestSumLargeInput(t *testing.T) {
	data := make([]byte, 3*1024*1024+5)
	for i := range data {
		data[i] = byte(i * 31)
	}

	refFirst := stdsha256.Sum256(data)
	assert.Equal(t, stdsha256.Sum256(refFirst[:]), Sum(data))
}

func TestSumSingleBitFlip(t *testing.T) {
	data := []byte("block header bytes go here, eighty of them in real life......")
	base := Sum(data)

	for i := range data {
		flipped := append([]byte(nil), data...)
		flipped[i] ^= 0x01

		assert.NotEqual(t, base, Sum(flipped), "byte %d", i)
	}
}

func TestSumB(t *testing.T) {
	data := []byte("abc")
	digest := Sum(data)

	b := SumB(data)
	require.Len(t, b, Size)
	assert.Equal(t, digest[:], b)

	// fresh slice every call
	b[0] ^= 0xff
	assert.Equal(t, digest[:], SumB(data))
}

func TestSumH(t *testing.T) {
	h := SumH([]byte("abc"))

	assert.Equal(t, "4f8b42c22dd3729b519ba6f68d2da7cc5b2d606d05daed5ad5128cc03e6c6358", hex.EncodeToString(h[:]))
	// display order is reversed
	assert.Equal(t, "58636c3ec08c12d55aedda056d602d5bcca72d8df6a69b519b72d32dc2428b4f", h.String())
}

func TestSumConcurrent(t *testing.T) {
	var wg sync.WaitGroup

	data := []byte("abc")
	expected := Sum(data)

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				assert.Equal(t, expected, Sum(data))
			}
		}()
	}

	wg.Wait()
}

func BenchmarkSum(b *testing.B) {
	header := make([]byte, 80)
	b.SetBytes(int64(len(header)))

	for i := 0; i < b.N; i++ {
		_ = Sum(header)
	}
}
