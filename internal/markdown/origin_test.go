package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseOrigin(t *testing.T) {
	o, err := ParseOrigin("https://OpenCitations.github.io/python-package-template")
	require.NoError(t, err)
	require.Equal(t, Origin{Scheme: "https", Host: "opencitations.github.io", Port: "443"}, o)

	o, err = ParseOrigin("http://localhost:4321")
	require.NoError(t, err)
	require.Equal(t, Origin{Scheme: "http", Host: "localhost", Port: "4321"}, o)
	require.Equal(t, "http://localhost:4321", o.String())

	for _, bad := range []string{"", "/docs", "mailto:a@b.c", "http://[::1"} {
		_, err := ParseOrigin(bad)
		require.Error(t, err, bad)
	}
}
