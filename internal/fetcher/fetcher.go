package fetcher

import (
	"context"
	"log"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/tomakado/containers/set"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/source"
)

type SourceProvider interface {
	ActiveSources(ctx context.Context) ([]model.Source, error)
}

// Вход в пайплайн модерации. Воркер ходит тем же путем, что и писатели,
// поэтому очередь на проверку единая
type Moderator interface {
	Submit(ctx context.Context, draft model.Draft, authorID int64) (int64, error)
	Approve(ctx context.Context, pendingID, reviewerID int64) (model.Article, error)
}

// Перевод текста. Ошибка перевода не фатальна, остается исходный текст
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

type NewsPruner interface {
	PruneOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// Интерфейс источника. У RSS источника этот набор методов уже реализован
type Source interface {
	ID() int64
	Category() string
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Структура сборщика новостей из RSS лент
type Fetcher struct {
	sources    SourceProvider
	moderator  Moderator
	translator Translator
	pruner     NewsPruner

	// Как часто опрашивать источники
	fetchInterval time.Duration
	// Сколько статей забирать с одного источника за цикл,
	// чтобы один жирный фид не раздувал очередь
	perSourceLimit int
	// Фильтрация статей по ключевым словам
	filterKeywords []string
	// Публиковать новости из лент сразу, минуя менеджера
	autoApprove bool
	// Сколько хранить опубликованные новости, 0 - вечно
	retention time.Duration

	// Подменяется в тестах, по умолчанию RSS клиент
	newSource func(m model.Source) Source
}

func New(
	sourceProvider SourceProvider,
	moderator Moderator,
	translator Translator,
	pruner NewsPruner,
	fetchInterval time.Duration,
	perSourceLimit int,
	filterKeywords []string,
	autoApprove bool,
	retention time.Duration,
) *Fetcher {
	return &Fetcher{
		sources:        sourceProvider,
		moderator:      moderator,
		translator:     translator,
		pruner:         pruner,
		fetchInterval:  fetchInterval,
		perSourceLimit: perSourceLimit,
		filterKeywords: filterKeywords,
		autoApprove:    autoApprove,
		retention:      retention,
		newSource: func(m model.Source) Source {
			return source.NewRSSSourceFromModel(m)
		},
	}
}

// Start запускает воркер. Он работает в отдельной горутине и по fetchInterval
// опрашивает источники, пока не отменят контекст. Ошибки цикла не роняют воркер
func (f *Fetcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(f.fetchInterval)
	defer ticker.Stop()

	f.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			f.runCycle(ctx)
		}
	}
}

func (f *Fetcher) runCycle(ctx context.Context) {
	if err := f.Fetch(ctx); err != nil {
		log.Printf("[ERROR] fetch cycle: %v", err)
	}

	f.prune(ctx)
}

// Fetch опрашивает все активные источники параллельно.
// Один сломанный источник не мешает остальным: его ошибка логируется,
// а горутины других источников продолжают работать
func (f *Fetcher) Fetch(ctx context.Context) error {
	sources, err := f.sources.ActiveSources(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	for _, src := range sources {
		wg.Add(1)

		go func(source Source) {
			defer wg.Done()

			items, err := source.Fetch(ctx)
			if err != nil {
				log.Printf("[ERROR] fetching items from source %d: %v", source.ID(), err)
				return
			}

			f.processItems(ctx, source, items)
		}(f.newSource(src))
	}

	wg.Wait()

	return nil
}

// Обработка статей одного источника: фильтр, перевод, отправка в очередь.
// Ошибка по одной статье не прерывает обработку остальных
func (f *Fetcher) processItems(ctx context.Context, source Source, items []model.Item) {
	if len(items) > f.perSourceLimit {
		items = items[:f.perSourceLimit]
	}

	for _, item := range items {
		if f.itemShouldBeSkipped(item) {
			continue
		}

		draft := f.buildDraft(ctx, source, item)

		pendingID, err := f.moderator.Submit(ctx, draft, model.FeedAuthorID)
		if err != nil {
			log.Printf("[ERROR] submitting item %q from source %d: %v", item.Title, source.ID(), err)
			continue
		}

		if !f.autoApprove {
			continue
		}

		// Режим автопубликации: только что добавленная запись сразу одобряется
		// от имени нулевого reviewer
		if _, err := f.moderator.Approve(ctx, pendingID, model.FeedAuthorID); err != nil {
			log.Printf("[ERROR] auto-approving pending %d: %v", pendingID, err)
		}
	}
}

// Превращает статью из ленты в черновик новости.
// Перевод и вытаскивание описания со страницы - best effort
func (f *Fetcher) buildDraft(ctx context.Context, source Source, item model.Item) model.Draft {
	description := item.Summary
	if strings.TrimSpace(description) == "" {
		description = f.extractDescription(item.Link)
	}

	title := item.Title

	if translated, err := f.translator.Translate(ctx, title); err != nil {
		log.Printf("[WARN] translating title %q: %v", item.Title, err)
	} else {
		title = translated
	}

	if translated, err := f.translator.Translate(ctx, description); err != nil {
		log.Printf("[WARN] translating description of %q: %v", item.Title, err)
	} else {
		description = translated
	}

	return model.Draft{
		Category:    source.Category(),
		Title:       title,
		Description: description,
		ImageURL:    item.ImageURL,
		Source:      item.SourceName,
	}
}

// Если лента не прислала summary, идем по ссылке и достаем текст
// страницы через readability. Любая ошибка - просто пустое описание
func (f *Fetcher) extractDescription(link string) string {
	if link == "" {
		return ""
	}

	resp, err := http.Get(link)
	if err != nil {
		log.Printf("[WARN] fetching page %s: %v", link, err)
		return ""
	}
	defer resp.Body.Close()

	doc, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		log.Printf("[WARN] extracting text from %s: %v", link, err)
		return ""
	}

	return cleanText(doc.TextContent)
}

// Проходимся по списку категорий статьи и по ее заголовку.
// Если там есть ключевое слово из фильтра, статью пропускаем
func (f *Fetcher) itemShouldBeSkipped(item model.Item) bool {
	// Сет, а не слайс, чтобы быстро проверять
	// присутствует ли ключевое слово в наборе категорий
	categoriesSet := set.New(item.Categories...)

	for _, keyword := range f.filterKeywords {
		titleContainsKeyword := strings.Contains(strings.ToLower(item.Title), keyword)

		if categoriesSet.Contains(keyword) || titleContainsKeyword {
			return true
		}
	}

	return false
}

// Удаление опубликованных новостей старше retention
func (f *Fetcher) prune(ctx context.Context) {
	if f.retention <= 0 {
		return
	}

	pruned, err := f.pruner.PruneOlderThan(ctx, time.Now().Add(-f.retention))
	if err != nil {
		log.Printf("[ERROR] pruning old news: %v", err)
		return
	}

	if pruned > 0 {
		log.Printf("pruned %d old news", pruned)
	}
}

// readability оставляет в тексте много пустых строк.
// Схлопываем последовательности из 3 и более переводов строки в один
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n"))
}
