package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	var (
		ctx  = context.Background()
		subs = NewSubscriptionStorage(testDB(t))
	)

	created, err := subs.Subscribe(ctx, 1, "tech")
	require.NoError(t, err)
	require.True(t, created)

	// Повторная подписка не создает дубликат
	created, err = subs.Subscribe(ctx, 1, "tech")
	require.NoError(t, err)
	require.False(t, created)

	subscribers, err := subs.Subscribers(ctx, "tech")
	require.NoError(t, err)
	require.Equal(t, []int64{1}, subscribers)
}

func TestUnsubscribe(t *testing.T) {
	var (
		ctx  = context.Background()
		subs = NewSubscriptionStorage(testDB(t))
	)

	_, err := subs.Subscribe(ctx, 1, "tech")
	require.NoError(t, err)

	require.NoError(t, subs.Unsubscribe(ctx, 1, "tech"))

	// Отписка несуществующей подписки не ошибка
	require.NoError(t, subs.Unsubscribe(ctx, 1, "tech"))

	subscribers, err := subs.Subscribers(ctx, "tech")
	require.NoError(t, err)
	require.Empty(t, subscribers)
}

func TestUserSubscriptionsSorted(t *testing.T) {
	var (
		ctx  = context.Background()
		subs = NewSubscriptionStorage(testDB(t))
	)

	for _, category := range []string{"tech", "art", "sports"} {
		_, err := subs.Subscribe(ctx, 1, category)
		require.NoError(t, err)
	}

	categories, err := subs.UserSubscriptions(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"art", "sports", "tech"}, categories)
}

func TestSubscribersPerCategory(t *testing.T) {
	var (
		ctx  = context.Background()
		subs = NewSubscriptionStorage(testDB(t))
	)

	_, err := subs.Subscribe(ctx, 1, "tech")
	require.NoError(t, err)
	_, err = subs.Subscribe(ctx, 2, "tech")
	require.NoError(t, err)
	_, err = subs.Subscribe(ctx, 3, "sports")
	require.NoError(t, err)

	subscribers, err := subs.Subscribers(ctx, "tech")
	require.NoError(t, err)
	require.ElementsMatch(t, []int64{1, 2}, subscribers)
}
