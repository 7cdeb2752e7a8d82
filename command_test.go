package clamd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  command
		want []byte
	}{
		{"ping", cmdPing, []byte("PING\n")},
		{"version", cmdVersion, []byte("VERSION\n")},
		{"reload", cmdReload, []byte("RELOAD\n")},
		{"stats", cmdStats, []byte("STATS\n")},
		{"shutdown", cmdShutdown, []byte("SHUTDOWN\n")},
		{"instream", cmdInstream, []byte("zINSTREAM\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.cmd.encode())
		})
	}
}

func TestPathCommandEncode(t *testing.T) {
	tests := []struct {
		keyword string
		path    string
		want    []byte
	}{
		{"SCAN", "/tmp/file.txt", []byte("SCAN /tmp/file.txt\n")},
		{"CONTSCAN", "/var/spool", []byte("CONTSCAN /var/spool\n")},
		{"MULTISCAN", "/srv/uploads", []byte("MULTISCAN /srv/uploads\n")},
		{"SCAN", "/tmp/with space.txt", []byte("SCAN /tmp/with space.txt\n")},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			cmd, err := newPathCommand(tt.keyword, tt.path)
			require.NoError(t, err)
			require.Equal(t, tt.want, cmd.encode())
		})
	}
}

func TestPathCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"empty path", ""},
		{"embedded NUL", "/tmp/bad\x00name"},
		{"embedded newline", "/tmp/bad\nname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newPathCommand("SCAN", tt.path)
			require.Error(t, err)
			require.True(t, IsValidationError(err))
		})
	}
}

func TestCommandTerminator(t *testing.T) {
	require.Equal(t, byte('\n'), cmdPing.terminator())
	require.Equal(t, byte(0), cmdInstream.terminator())

	cmd, err := newPathCommand("CONTSCAN", "/tmp")
	require.NoError(t, err)
	require.Equal(t, byte('\n'), cmd.terminator())
}
