package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitHostPort(t *testing.T) {
	for _, tc := range []struct {
		addr, host, port string
	}{
		{"127.0.0.1:9000", "127.0.0.1", "9000"},
		{"127.0.0.1", "127.0.0.1", "8080"},
		{":9000", "", "9000"},
		{"", "", "8080"},
		{"[::1]:9000", "::1", "9000"},
	} {
		host, port, err := splitHostPort(tc.addr, 8080)
		require.NoError(t, err, tc.addr)
		require.Equal(t, tc.host, host, tc.addr)
		require.Equal(t, tc.port, port, tc.addr)
	}
}

func TestSplitHostPortInvalid(t *testing.T) {
	_, _, err := splitHostPort("a:b:c", 8080)
	require.Error(t, err)
}
