package spirv

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
)

// maxHexLineLen is the column limit for hex-word output lines.
const maxHexLineLen = 80

// Encoding selects the textual representation of a compiled binary in
// the rewritten script. It is chosen once per run, not per section.
type Encoding int

const (
	// EncodingBase64 renders the whole binary as a single standard
	// base64 line.
	EncodingBase64 Encoding = iota

	// EncodingHex renders the binary as 32-bit hex words wrapped at
	// 80 columns, in the byte order declared by the magic number.
	EncodingHex
)

// String returns the name of the encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingBase64:
		return "base64"
	case EncodingHex:
		return "hex"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Encode writes the textual form of data followed by one blank line,
// which terminates the binary section in the rewritten script.
func (e Encoding) Encode(w io.Writer, data []byte) error {
	switch e {
	case EncodingBase64:
		return encodeBase64(w, data)
	case EncodingHex:
		return encodeHex(w, data)
	default:
		return fmt.Errorf("unknown encoding %d", int(e))
	}
}

func encodeBase64(w io.Writer, data []byte) error {
	_, err := fmt.Fprintf(w, "%s\n\n", base64.StdEncoding.EncodeToString(data))
	return err
}

// encodeHex writes one token per SPIR-V word, lowercase with no leading
// zeros, space separated. A token that would push the current line past
// maxHexLineLen starts a new line instead; no emitted line is ever
// longer than maxHexLineLen.
func encodeHex(w io.Writer, data []byte) error {
	words, _, err := Words(data)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	lineLen := 0
	for _, word := range words {
		tok := strconv.FormatUint(uint64(word), 16)
		n := len(tok)
		if lineLen > 0 {
			n++ // separating space
		}
		if lineLen > 0 && lineLen+n > maxHexLineLen {
			bw.WriteByte('\n')
			lineLen = 0
			n = len(tok)
		}
		if lineLen > 0 {
			bw.WriteByte(' ')
		}
		bw.WriteString(tok)
		lineLen += n
	}
	if lineLen > 0 {
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}
