package errors

import "strconv"

// ERR is the code carried by every *Error.
type ERR int32

//nolint:revive,stylecheck // codes mirror the wire names used by the node's error protocol
const (
	ERR_UNKNOWN          ERR = 0
	ERR_INVALID_ARGUMENT ERR = 1
	ERR_PROCESSING       ERR = 4
	ERR_CONFIGURATION    ERR = 5
	ERR_ERROR            ERR = 9
	ERR_BLOCK_INVALID    ERR = 11
	ERR_HASH_MISMATCH    ERR = 12
)

// ERR_name maps codes to their names.
//
//nolint:revive,stylecheck
var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	9:  "ERROR",
	11: "BLOCK_INVALID",
	12: "HASH_MISMATCH",
}

// ERR_value maps names back to codes.
//
//nolint:revive,stylecheck
var ERR_value = map[string]int32{
	"UNKNOWN":          0,
	"INVALID_ARGUMENT": 1,
	"PROCESSING":       4,
	"CONFIGURATION":    5,
	"ERROR":            9,
	"BLOCK_INVALID":    11,
	"HASH_MISMATCH":    12,
}

func (x ERR) String() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}
