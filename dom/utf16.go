package dom

import (
	"unicode/utf16"
	"unicode/utf8"
)

// UTF16Length returns the length of s in UTF-16 code units, the unit
// character data offsets are expressed in.
func UTF16Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// utf16ByteOffset converts a UTF-16 code unit offset into a byte offset in
// s. An offset inside a surrogate pair snaps to the start of that rune.
// It returns -1 when offset is negative or past the end of s.
func utf16ByteOffset(s string, offset int) int {
	if offset < 0 {
		return -1
	}
	units := 0
	for i := 0; i < len(s); {
		if units >= offset {
			return i
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	if units >= offset {
		return len(s)
	}
	return -1
}

// UTF16Substring returns the part of s between the UTF-16 offsets start and
// end. Offsets past the end are clamped.
func UTF16Substring(s string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}
	startByte := utf16ByteOffset(s, start)
	if startByte < 0 {
		return ""
	}
	endByte := utf16ByteOffset(s, end)
	if endByte < 0 {
		endByte = len(s)
	}
	return s[startByte:endByte]
}
