package gpu

import (
	"encoding/binary"
)

const (
	spirvMagic        = 0x07230203
	spirvHeaderWords  = 5
	spirvOpEntryPoint = 15

	spirvModelVertex   = 0
	spirvModelFragment = 4
)

// spirvWords converts little endian SPIR-V bytes to words.
func spirvWords(spirv []byte) []uint32 {
	words := make([]uint32, len(spirv)/4)
	for idx := range words {
		words[idx] = binary.LittleEndian.Uint32(spirv[idx*4:])
	}

	return words
}

// hasEntryPoint reports whether the module declares an entry point called
// name for the given execution model.
func hasEntryPoint(spirv []byte, model uint32, name string) bool {
	words := spirvWords(spirv)
	if len(words) < spirvHeaderWords || words[0] != spirvMagic {
		return false
	}

	for pos := spirvHeaderWords; pos < len(words); {
		count := int(words[pos] >> 16)
		opcode := words[pos] & 0xffff

		if count == 0 || pos+count > len(words) {
			return false
		}

		// OpEntryPoint: model, function id, name, interface ids
		if opcode == spirvOpEntryPoint && count >= 4 && words[pos+1] == model {
			if spirvString(words[pos+3:pos+count]) == name {
				return true
			}
		}

		pos += count
	}

	return false
}

// spirvString decodes a nul terminated literal string.
func spirvString(words []uint32) string {
	var buf []byte

	for _, word := range words {
		for shift := 0; shift < 32; shift += 8 {
			c := byte(word >> shift)
			if c == 0 {
				return string(buf)
			}

			buf = append(buf, c)
		}
	}

	return string(buf)
}
