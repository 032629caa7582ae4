package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cajero/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	want := "Código;Descripción;Precio\nA1;Café;1.234,50\n"

	tests := []struct {
		name    string
		input   []byte
		charset encoding.Charset
	}{
		{
			name:    "UTF8",
			input:   []byte(want),
			charset: encoding.UTF8,
		},
		{
			name:    "UTF8BOM",
			input:   append([]byte{0xEF, 0xBB, 0xBF}, want...),
			charset: encoding.UTF8,
		},
		{
			name: "Windows1252",
			// ó = 0xF3, é = 0xE9
			input: []byte("C\xf3digo;Descripci\xf3n;Precio\nA1;Caf\xe9;1.234,50\n"),
			// chardet may call this ISO-8859-9; both decode these bytes alike.
		},
		{
			name:    "UTF16LE",
			input:   utf16le(want),
			charset: encoding.UTF16LE,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.charset != "" {
				assert.Equal(t, tt.charset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, want, string(got))
		})
	}
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	// Longer than the detection sample, with the accent after it.
	input := bytes.Repeat([]byte("a"), 5000)
	input = append(input, "\nÑandú\n"...)

	r, _, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(input), string(got))
}

func utf16le(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}

	return out
}
