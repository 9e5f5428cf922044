package source

import (
	"context"
	"strings"

	"github.com/SlyMarbo/rss"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// RSS клиент для одного источника
type RSSSource struct {
	// URL откуда мы забираем данные
	URL      string
	SourceID int64
	// Категория, в которую попадут все новости этого источника
	SourceCategory string
}

// Конструктор, который из модели источника создает клиент для RSS ленты
func NewRSSSourceFromModel(m model.Source) RSSSource {
	return RSSSource{
		URL:            m.URL,
		SourceID:       m.ID,
		SourceCategory: m.Category,
	}
}

// Fetch обрабатывает данные из ленты, возвращая слайс статей
func (s RSSSource) Fetch(ctx context.Context) ([]model.Item, error) {
	feed, err := s.loadFeed(ctx, s.URL)
	if err != nil {
		return nil, err
	}

	return lo.Map(feed.Items, func(item *rss.Item, _ int) model.Item {
		return model.Item{
			Title:      item.Title,
			Categories: item.Categories,
			Link:       item.Link,
			Date:       item.Date,
			Summary:    item.Summary,
			ImageURL:   extractImageURL(item),
			SourceName: s.URL,
		}
	}), nil
}

// Метод, который загружает данные из источника.
// Библиотека ходит в сеть без контекста, поэтому оборачиваем вызов
// в горутину и выбираем между результатом и отменой контекста
func (s RSSSource) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	var (
		feedCh = make(chan *rss.Feed)
		errCh  = make(chan error)
	)

	go func() {
		feed, err := rss.Fetch(url)
		if err != nil {
			errCh <- err
			return
		}

		feedCh <- feed
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, err
	case feed := <-feedCh:
		return feed, nil
	}
}

// Картинка новости - первый enclosure с типом image.
// Если таких нет, остаемся без картинки
func extractImageURL(item *rss.Item) string {
	for _, enclosure := range item.Enclosures {
		if strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	return ""
}

func (s RSSSource) ID() int64 {
	return s.SourceID
}

func (s RSSSource) Category() string {
	return s.SourceCategory
}
