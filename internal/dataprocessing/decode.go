package dataprocessing

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	apperrors "github.com/mattcostello-mkhf/ScoreCalculator-SIUS/internal/errors"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	// zipMagic opens .xlsx/.ods workbooks, which are not delimited text.
	zipMagic = []byte("PK\x03\x04")
)

// DecodeText converts raw export bytes into UTF-8 text. A UTF-8 BOM is
// dropped, UTF-16 input is recognised by its BOM, and bytes that are not
// valid UTF-8 are read as Windows-1252, the code page older SIUS software
// writes on Windows. Spreadsheet workbooks are rejected as unsupported.
func DecodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return "", apperrors.NewUnsupportedFileError(
			"spreadsheet workbooks are not supported; export the results as delimited text", nil)

	case bytes.HasPrefix(data, bomUTF8):
		return string(data[len(bomUTF8):]), nil

	case bytes.HasPrefix(data, bomUTF16LE):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16le: %w", err)
		}
		return string(out), nil

	case bytes.HasPrefix(data, bomUTF16BE):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("decode utf-16be: %w", err)
		}
		return string(out), nil

	case utf8.Valid(data):
		return string(data), nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode windows-1252: %w", err)
	}
	return string(out), nil
}
