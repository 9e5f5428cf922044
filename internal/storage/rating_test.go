package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRatingUpsert(t *testing.T) {
	var (
		ctx     = context.Background()
		ratings = NewRatingStorage(testDB(t))
	)

	require.NoError(t, ratings.Set(ctx, 1, 100, 1))
	require.NoError(t, ratings.Set(ctx, 2, 100, 1))

	likes, dislikes, err := ratings.Counts(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, 2, likes)
	require.Equal(t, 0, dislikes)

	// Повторная оценка перезаписывает предыдущую, а не добавляет голос
	require.NoError(t, ratings.Set(ctx, 1, 100, -1))

	likes, dislikes, err = ratings.Counts(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, 1, likes)
	require.Equal(t, 1, dislikes)

	value, err := ratings.UserRating(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, -1, value)
}

func TestUserRatingDefaultsToZero(t *testing.T) {
	var (
		ctx     = context.Background()
		ratings = NewRatingStorage(testDB(t))
	)

	value, err := ratings.UserRating(ctx, 1, 100)
	require.NoError(t, err)
	require.Zero(t, value)
}

func TestCountsPerNews(t *testing.T) {
	var (
		ctx     = context.Background()
		ratings = NewRatingStorage(testDB(t))
	)

	require.NoError(t, ratings.Set(ctx, 1, 100, 1))
	require.NoError(t, ratings.Set(ctx, 1, 200, -1))

	// Оценки разных новостей не смешиваются
	likes, dislikes, err := ratings.Counts(ctx, 200)
	require.NoError(t, err)
	require.Equal(t, 0, likes)
	require.Equal(t, 1, dislikes)
}
