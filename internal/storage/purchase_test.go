package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

func TestPurchaseLedger(t *testing.T) {
	var (
		ctx       = context.Background()
		purchases = NewPurchaseStorage(testDB(t))
	)

	_, err := purchases.Add(ctx, 1, model.ActionView, 5, 50)
	require.NoError(t, err)

	_, err = purchases.Add(ctx, 1, model.ActionCreate, 2, 40)
	require.NoError(t, err)

	_, err = purchases.Add(ctx, 2, model.ActionView, 10, 100)
	require.NoError(t, err)

	mine, err := purchases.ByUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	// Последняя покупка первой
	require.Equal(t, model.ActionCreate, mine[0].ActionKind)
	require.Equal(t, 2, mine[0].Amount)
	require.Equal(t, 40, mine[0].Cost)

	limited, err := purchases.ByUser(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
