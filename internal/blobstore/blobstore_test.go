package blobstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"photo.png":              "photo.png",
		"my photo (1).png":       "my_photo__1_.png",
		"../../etc/passwd":       "passwd",
		`..\..\windows\boot.ini`: "boot.ini",
		"ñandú.jpg":              "and_.jpg",
		"UPPER-case_ok.JPEG":     "UPPER-case_ok.JPEG",
	}

	for in, want := range cases {
		require.Equal(t, want, SanitizeFilename(in), "input %q", in)
	}
}

func TestSanitizeFilenameRejectsUnusable(t *testing.T) {
	for _, in := range []string{"", ".", "..", "...", "___"} {
		require.Empty(t, SanitizeFilename(in), "input %q", in)
	}
}
