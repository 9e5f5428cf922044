package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeForMarkdown(t *testing.T) {
	require.Equal(
		t,
		"https://example\\.com/feed\\.xml?a\\=1",
		EscapeForMarkdown("https://example.com/feed.xml?a=1"),
	)
	require.Equal(t, "\\*жирный\\* \\_курсив\\_", EscapeForMarkdown("*жирный* _курсив_"))
	require.Equal(t, "без спецсимволов", EscapeForMarkdown("без спецсимволов"))
}
