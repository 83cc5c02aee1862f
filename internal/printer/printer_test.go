package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Out, color.NoColor
	Out, color.NoColor = &buf, true
	t.Cleanup(func() { Out, color.NoColor = prevOut, prevNoColor })
	return &buf
}

func TestStatusLines(t *testing.T) {
	t.Run("success has checkmark", func(t *testing.T) {
		buf := capture(t)
		Success("Wrote %d items to %s", 3, "snap.json")
		require.Equal(t, "✓ Wrote 3 items to snap.json\n", buf.String())
	})

	t.Run("warning has warning sign", func(t *testing.T) {
		buf := capture(t)
		Warning("could not load %s", ".env")
		require.Equal(t, "⚠️  could not load .env\n", buf.String())
	})

	t.Run("step has gear", func(t *testing.T) {
		buf := capture(t)
		Step("Loading %d repositories", 2)
		require.Equal(t, "⚙️  Loading 2 repositories\n", buf.String())
	})

	t.Run("trailing newline is not doubled", func(t *testing.T) {
		buf := capture(t)
		Failure("boom\n")
		require.Equal(t, "✗ boom\n", buf.String())
	})
}

func TestBanner(t *testing.T) {
	buf := capture(t)
	Banner("Current Configuration")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "  Current Configuration", lines[1])
	require.Equal(t, lines[0], lines[2])
}
