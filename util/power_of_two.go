package util

import "math/bits"

// CeilPowerOfTwo returns the smallest power of two that is greater than or equal to num.
func CeilPowerOfTwo(num int) int {
	if num <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(num-1))
}

func IsPowerOfTwo(num int) bool {
	if num <= 0 {
		return false
	}

	return (num & (num - 1)) == 0
}
