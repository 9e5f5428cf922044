package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisabledTranslatorPassesTextThrough(t *testing.T) {
	// Без ключа переводчик выключен и не ходит в сеть
	translator := NewOpenAITranslator("", "русский")

	got, err := translator.Translate(context.Background(), "Breaking news")
	require.NoError(t, err)
	require.Equal(t, "Breaking news", got)
}

func TestEmptyTextSkipsTranslation(t *testing.T) {
	translator := NewOpenAITranslator("key", "русский")

	got, err := translator.Translate(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, "   ", got)
}
