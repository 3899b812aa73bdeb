package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGuessIpAddress24(t *testing.T) {
	actual, err := guessIpAddress(net.IP{192, 168, 0, 1}, "42")
	require.NoError(t, err)
	require.True(t, actual.Equal(net.IP{192, 168, 0, 42}), actual)
}

func TestGuessIpAddress16(t *testing.T) {
	actual, err := guessIpAddress(net.IP{192, 168, 0, 1}, "15.42")
	require.NoError(t, err)
	require.True(t, actual.Equal(net.IP{192, 168, 15, 42}), actual)
}

func TestGuessIpAddress0(t *testing.T) {
	actual, err := guessIpAddress(net.IP{192, 168, 0, 1}, "10.100.15.42")
	require.NoError(t, err)
	require.True(t, actual.Equal(net.IP{10, 100, 15, 42}), actual)
}

func TestGuessIpAddress32(t *testing.T) {
	base := net.IP{192, 168, 0, 1}
	actual, err := guessIpAddress(base, "")
	require.NoError(t, err)
	require.True(t, actual.Equal(base), actual)
}

func TestGuessIpAddressInvalid(t *testing.T) {
	_, err := guessIpAddress(net.IP{192, 168, 0, 1}, "x.1")
	require.Error(t, err)
	_, err = guessIpAddress(net.IP{192, 168, 0, 1}, "1.2.3.4.5")
	require.Error(t, err)
}

func TestResolveIP(t *testing.T) {
	local, err := resolveIP("")
	require.NoError(t, err)
	require.NotNil(t, net.ParseIP(local).To4())

	full, err := resolveIP("127.0.0.1")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", full)

	_, err = resolveIP("nope")
	require.Error(t, err)
}

func TestSubnetOf(t *testing.T) {
	l, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.ParseIP("127.0.0.1")})
	require.NoError(t, err)
	defer l.Close()

	ipnet, err := subnetOf(l.Addr())
	require.NoError(t, err)
	require.True(t, ipnet.Contains(net.ParseIP("127.0.0.1")), ipnet.String())
}

func TestSubnetOfRejectsUnspecified(t *testing.T) {
	_, err := subnetOf(&net.TCPAddr{IP: net.IPv4zero})
	require.Error(t, err)
	_, err = subnetOf(&net.UDPAddr{IP: net.ParseIP("127.0.0.1")})
	require.Error(t, err)
}
