package assets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo.png", "Foo.png"},
		{"  Logo Firma.jpg ", "Logo_Firma.jpg"},
		{"Logo\u200e Firma.jpg", "Logo_Firma.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestPathBucketsByNameHash(t *testing.T) {
	require.Equal(t, "f/f8/Foo.png", Path("Foo.png"))
	require.Equal(t, "8/83/Logo_Firma.jpg", Path("Logo_Firma.jpg"))
}

func TestPathCorruptsOnlyTheFinalSegment(t *testing.T) {
	// The bucket comes from the intact name; the stored file name is corrupted.
	require.Equal(t, "a/a8/Gr�n.png", Path("Grün.png"))
}

func TestPathIsDeterministic(t *testing.T) {
	first := Path("Ärger über Öl.gif")
	for range 5 {
		require.Equal(t, first, Path("Ärger über Öl.gif"))
	}
}

func TestCorruptName(t *testing.T) {
	require.Equal(t, "�rger �ber �l", CorruptName("Ärger über Öl"))
	require.Equal(t, "Café.png", CorruptName("Café.png"))
}

func TestMIMETypeFor(t *testing.T) {
	for name, want := range map[string]string{
		"a.png":  "image/png",
		"a.PNG":  "image/png",
		"a.jpg":  "image/jpeg",
		"a.jpeg": "image/jpeg",
		"a.gif":  "image/gif",
	} {
		got, err := MIMETypeFor(name)
		require.NoError(t, err)
		require.Equal(t, want, got, name)
	}

	for _, name := range []string{"a.svg", "a.pdf", "noext"} {
		_, err := MIMETypeFor(name)
		require.ErrorIs(t, err, ErrUnsupportedAssetType, name)
	}
}
