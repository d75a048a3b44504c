package encoder

import (
	"fmt"
)

// AppendUleb128 appends v in unsigned LEB128 form.
func AppendUleb128(b []byte, v uint64) []byte {
	for {
		c := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b = append(b, c)
		if v == 0 {
			return b
		}
	}
}

// AppendSleb128 appends v in signed LEB128 form.
func AppendSleb128(b []byte, v int64) []byte {
	for {
		c := byte(v & 0x7F)
		v >>= 7
		done := (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0)
		if !done {
			c |= 0x80
		}
		b = append(b, c)
		if done {
			return b
		}
	}
}

// ReadUleb128 decodes an unsigned LEB128 value from the start of b and
// returns it with the number of bytes read.
func ReadUleb128(b []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: value overflows 64 bits")
		}
		v |= uint64(c&0x7F) << shift
		if c&0x80 == 0 {
			return v, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("leb128: unexpected end of input")
}

// ReadSleb128 decodes a signed LEB128 value from the start of b and returns
// it with the number of bytes read.
func ReadSleb128(b []byte) (int64, int, error) {
	var v int64
	var shift uint
	for i, c := range b {
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: value overflows 64 bits")
		}
		v |= int64(c&0x7F) << shift
		shift += 7
		if c&0x80 == 0 {
			if shift < 64 && c&0x40 != 0 {
				v |= -1 << shift
			}
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("leb128: unexpected end of input")
}
