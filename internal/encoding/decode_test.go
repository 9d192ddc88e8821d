package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/wom/internal/encoding"
)

func decodeAll(t *testing.T, in []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.Decode(bytes.NewReader(in))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestDecode_UTF8Passthrough(t *testing.T) {
	input := "EAN;Qté;Titre\n9782070368228;3;L'Étranger\n"

	got, charset := decodeAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestDecode_UTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, "ISBN;Quantity;Description\n"...)

	got, charset := decodeAll(t, input)
	assert.Equal(t, "ISBN;Quantity;Description\n", got)
	assert.Equal(t, encoding.UTF8, charset)
}

func TestDecode_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte("EAN13;Quantite;Libelle\n"))
	require.NoError(t, err)

	got, charset := decodeAll(t, input)
	assert.Equal(t, "EAN13;Quantite;Libelle\n", got)
	assert.Equal(t, encoding.UTF16LE, charset)
}

func TestDecode_Latin1(t *testing.T) {
	input, err := charmap.Windows1252.NewEncoder().Bytes([]byte("EAN;Qté;Titre\n9782070368228;3;Réflexions sur la poésie\n"))
	require.NoError(t, err)

	got, _ := decodeAll(t, input)
	assert.Equal(t, "EAN;Qté;Titre\n9782070368228;3;Réflexions sur la poésie\n", got)
}

func TestDecode_RuneSplitBySniffWindow(t *testing.T) {
	// "é" is two bytes; place it across the 4096 byte boundary.
	input := strings.Repeat("a", 4095) + "é\n"

	got, charset := decodeAll(t, []byte(input))
	assert.Equal(t, input, got)
	assert.Equal(t, encoding.UTF8, charset)
}
