package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

func TestInsertPendingRoundTrip(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	draft := model.Draft{
		Category:    "tech",
		Title:       "Заголовок",
		Description: "Описание",
		ImageURL:    "https://example.com/img.png",
		Source:      "example.com",
	}

	id, err := news.InsertPending(ctx, draft, 42)
	require.NoError(t, err)

	pending, err := news.PendingByID(ctx, id)
	require.NoError(t, err)

	require.Equal(t, id, pending.ID)
	require.Equal(t, int64(42), pending.AuthorID)
	require.Equal(t, draft.Category, pending.Category)
	require.Equal(t, draft.Title, pending.Title)
	require.Equal(t, draft.Description, pending.Description)
	require.Equal(t, draft.ImageURL, pending.ImageURL)
	require.Equal(t, draft.Source, pending.Source)
	require.WithinDuration(t, time.Now(), pending.CreatedAt, time.Minute)
}

func TestPendingOrder(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	for _, title := range []string{"first", "second", "third"} {
		_, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: title}, 1)
		require.NoError(t, err)
	}

	pending, err := news.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)

	// Очередь отдается в порядке поступления
	require.Equal(t, "first", pending[0].Title)
	require.Equal(t, "second", pending[1].Title)
	require.Equal(t, "third", pending[2].Title)
}

func TestApproveMovesArticleExactlyOnce(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	draft := model.Draft{Category: "tech", Title: "t", Description: "d", Source: "s"}

	pendingID, err := news.InsertPending(ctx, draft, 42)
	require.NoError(t, err)

	article, err := news.Approve(ctx, pendingID)
	require.NoError(t, err)

	require.Equal(t, draft.Title, article.Title)
	require.Equal(t, draft.Category, article.Category)
	require.Equal(t, int64(42), article.AuthorID)

	// Запись пропала из очереди и появилась в опубликованных
	_, err = news.PendingByID(ctx, pendingID)
	require.ErrorIs(t, err, ErrNotFound)

	got, err := news.NewsByID(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, article.Title, got.Title)

	// Повторное одобрение той же заявки не создает дубликат
	_, err = news.Approve(ctx, pendingID)
	require.ErrorIs(t, err, ErrNotFound)

	published, err := news.News(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, published, 1)
}

func TestReject(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	pendingID, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: "t"}, 42)
	require.NoError(t, err)

	authorID, err := news.Reject(ctx, pendingID)
	require.NoError(t, err)
	require.Equal(t, int64(42), authorID)

	_, err = news.PendingByID(ctx, pendingID)
	require.ErrorIs(t, err, ErrNotFound)

	// Отклоненная новость не публикуется
	published, err := news.News(ctx, "", 10)
	require.NoError(t, err)
	require.Empty(t, published)

	_, err = news.Reject(ctx, pendingID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewsFilterAndLimit(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	publish := func(category, title string) {
		t.Helper()
		pendingID, err := news.InsertPending(ctx, model.Draft{Category: category, Title: title}, 1)
		require.NoError(t, err)
		_, err = news.Approve(ctx, pendingID)
		require.NoError(t, err)
	}

	publish("tech", "tech-1")
	publish("sports", "sports-1")
	publish("tech", "tech-2")

	// Без категории отдаются все, свежие первыми
	all, err := news.News(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "tech-2", all[0].Title)

	tech, err := news.News(ctx, "tech", 10)
	require.NoError(t, err)
	require.Len(t, tech, 2)

	limited, err := news.News(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestNewsByAuthor(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	for author, title := range map[int64]string{1: "mine", 2: "other"} {
		pendingID, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: title}, author)
		require.NoError(t, err)
		_, err = news.Approve(ctx, pendingID)
		require.NoError(t, err)
	}

	mine, err := news.NewsByAuthor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "mine", mine[0].Title)
}

func TestUpdatePending(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	pendingID, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: "old"}, 1)
	require.NoError(t, err)

	require.NoError(t, news.UpdatePending(ctx, pendingID, model.Draft{Category: "sports", Title: "new", Description: "d"}))

	pending, err := news.PendingByID(ctx, pendingID)
	require.NoError(t, err)
	require.Equal(t, "new", pending.Title)
	require.Equal(t, "sports", pending.Category)

	// Автор при правке не меняется
	require.Equal(t, int64(1), pending.AuthorID)

	require.ErrorIs(t, news.UpdatePending(ctx, pendingID+100, model.Draft{}), ErrNotFound)
}

func TestUpdateAndDeleteNews(t *testing.T) {
	var (
		ctx  = context.Background()
		news = NewNewsStorage(testDB(t))
	)

	pendingID, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: "old"}, 1)
	require.NoError(t, err)

	article, err := news.Approve(ctx, pendingID)
	require.NoError(t, err)

	require.NoError(t, news.UpdateNews(ctx, article.ID, model.Draft{Category: "tech", Title: "edited"}))

	got, err := news.NewsByID(ctx, article.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Title)

	require.NoError(t, news.DeleteNews(ctx, article.ID))
	require.ErrorIs(t, news.DeleteNews(ctx, article.ID), ErrNotFound)

	_, err = news.NewsByID(ctx, article.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPruneOlderThan(t *testing.T) {
	var (
		ctx  = context.Background()
		db   = testDB(t)
		news = NewNewsStorage(db)
	)

	// Старая запись вставляется напрямую: Approve всегда ставит текущее время
	_, err := db.ExecContext(
		ctx,
		`INSERT INTO news (category, title, description, published_at) VALUES (?, ?, ?, ?)`,
		"tech",
		"stale",
		"",
		time.Now().UTC().Add(-48*time.Hour),
	)
	require.NoError(t, err)

	pendingID, err := news.InsertPending(ctx, model.Draft{Category: "tech", Title: "fresh"}, 1)
	require.NoError(t, err)
	_, err = news.Approve(ctx, pendingID)
	require.NoError(t, err)

	pruned, err := news.PruneOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	left, err := news.News(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "fresh", left[0].Title)
}
