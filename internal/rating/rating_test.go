package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRatings struct {
	values map[[2]int64]int
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{values: map[[2]int64]int{}}
}

func (f *fakeRatings) Set(_ context.Context, userID, newsID int64, value int) error {
	f.values[[2]int64{userID, newsID}] = value
	return nil
}

func (f *fakeRatings) Counts(_ context.Context, newsID int64) (int, int, error) {
	var likes, dislikes int
	for key, value := range f.values {
		if key[1] != newsID {
			continue
		}
		if value == Like {
			likes++
		} else {
			dislikes++
		}
	}
	return likes, dislikes, nil
}

func (f *fakeRatings) UserRating(_ context.Context, userID, newsID int64) (int, error) {
	return f.values[[2]int64{userID, newsID}], nil
}

func TestSetValidatesValue(t *testing.T) {
	var (
		ctx     = context.Background()
		storage = newFakeRatings()
		service = NewService(storage)
	)

	require.NoError(t, service.Set(ctx, 1, 100, Like))
	require.NoError(t, service.Set(ctx, 2, 100, Dislike))

	// Любое значение кроме лайка и дизлайка отклоняется
	require.Error(t, service.Set(ctx, 3, 100, 0))
	require.Error(t, service.Set(ctx, 3, 100, 5))

	likes, dislikes, err := service.Counts(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, 1, likes)
	require.Equal(t, 1, dislikes)
}

func TestUserRating(t *testing.T) {
	var (
		ctx     = context.Background()
		storage = newFakeRatings()
		service = NewService(storage)
	)

	require.NoError(t, service.Set(ctx, 1, 100, Like))

	value, err := service.UserRating(ctx, 1, 100)
	require.NoError(t, err)
	require.Equal(t, Like, value)

	value, err = service.UserRating(ctx, 2, 100)
	require.NoError(t, err)
	require.Zero(t, value)
}
