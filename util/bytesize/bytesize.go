// Package bytesize parses and prints memory sizes such as "64MB" used in settings and CLI flags.
package bytesize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bsv-blockchain/sha256d/errors"
)

// ByteSize represents a memory size in bytes
type ByteSize int64

const (
	B  ByteSize = 1
	KB          = B * 1024
	MB          = KB * 1024
	GB          = MB * 1024
	TB          = GB * 1024
)

var units = map[string]ByteSize{
	"B":   B,
	"K":   KB,
	"KB":  KB,
	"KIB": KB,
	"M":   MB,
	"MB":  MB,
	"MIB": MB,
	"G":   GB,
	"GB":  GB,
	"GIB": GB,
	"T":   TB,
	"TB":  TB,
	"TIB": TB,
}

// Parse reads a size with an optional unit suffix. Without a suffix the value is in bytes.
func Parse(s string) (ByteSize, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, errors.NewInvalidArgumentError("empty size")
	}

	i := strings.IndexFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})

	numStr, unit := s, "B"
	if i != -1 {
		numStr, unit = s[:i], strings.TrimSpace(s[i:])
	}

	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, errors.NewInvalidArgumentError("invalid number %q", numStr, err)
	}

	multiplier, ok := units[unit]
	if !ok {
		return 0, errors.NewInvalidArgumentError("invalid unit %v", unit)
	}

	return ByteSize(num * float64(multiplier)), nil
}

// String returns a human-readable string representation of the ByteSize
func (b ByteSize) String() string {
	abs := b
	if b < 0 {
		abs = -b
	}

	switch {
	case abs >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case abs >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case abs >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case abs >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func (b ByteSize) Int() int {
	return int(b)
}
