package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// ErrNoAccess возвращается, когда роль пользователя не дает права на действие
var ErrNoAccess = errors.New("moderation: no access")

// Хранилище новостей. Интерфейс объявлен на стороне потребителя,
// имплементация - NewsStorage
type NewsStorage interface {
	InsertPending(ctx context.Context, draft model.Draft, authorID int64) (int64, error)
	Pending(ctx context.Context) ([]model.PendingArticle, error)
	PendingByID(ctx context.Context, id int64) (model.PendingArticle, error)
	UpdatePending(ctx context.Context, id int64, draft model.Draft) error
	Approve(ctx context.Context, pendingID int64) (model.Article, error)
	Reject(ctx context.Context, pendingID int64) (int64, error)
	NewsByID(ctx context.Context, id int64) (model.Article, error)
	UpdateNews(ctx context.Context, id int64, draft model.Draft) error
}

type UserProvider interface {
	EnsureUser(ctx context.Context, id int64) (model.User, error)
}

type SubscriberProvider interface {
	Subscribers(ctx context.Context, category string) ([]int64, error)
}

// Отправка сообщений пользователям. Ошибки доставки для модерации не фатальны
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

type QuotaGate interface {
	Check(ctx context.Context, userID int64, kind model.ActionKind) error
	Spend(ctx context.Context, userID int64, kind model.ActionKind) error
}

// Service реализует жизненный цикл новости:
// отправка в очередь, проверка, публикация или отклонение.
// Сам сервис состояния не держит, каждая операция читает базу заново
type Service struct {
	news        NewsStorage
	users       UserProvider
	subscribers SubscriberProvider
	notifier    Notifier
	quota       QuotaGate
}

func NewService(
	news NewsStorage,
	users UserProvider,
	subscribers SubscriberProvider,
	notifier Notifier,
	quota QuotaGate,
) *Service {
	return &Service{
		news:        news,
		users:       users,
		subscribers: subscribers,
		notifier:    notifier,
		quota:       quota,
	}
}

// Submit отправляет черновик в очередь на проверку.
// Для живых писателей проверяются роль и лимит, воркер лент ходит
// этим же путем под нулевым автором, чтобы очередь была единой
func (s *Service) Submit(ctx context.Context, draft model.Draft, authorID int64) (int64, error) {
	spendQuota := false

	if authorID != model.FeedAuthorID {
		user, err := s.users.EnsureUser(ctx, authorID)
		if err != nil {
			return 0, err
		}

		if !user.Role.CanWrite() {
			return 0, ErrNoAccess
		}

		// Админы пишут без лимита
		if user.Role != model.RoleAdmin {
			if err := s.quota.Check(ctx, authorID, model.ActionCreate); err != nil {
				return 0, err
			}
			spendQuota = true
		}
	}

	pendingID, err := s.news.InsertPending(ctx, draft, authorID)
	if err != nil {
		return 0, err
	}

	// Списываем только после успешной вставки,
	// чтобы не считать неудачные попытки
	if spendQuota {
		if err := s.quota.Spend(ctx, authorID, model.ActionCreate); err != nil {
			log.Printf("[ERROR] failed to spend create quota for user %d: %v", authorID, err)
		}
	}

	return pendingID, nil
}

// Pending возвращает свежую очередь на проверку
func (s *Service) Pending(ctx context.Context) ([]model.PendingArticle, error) {
	return s.news.Pending(ctx)
}

// Approve публикует новость из очереди.
// Перенос между таблицами атомарный, уведомления идут уже после коммита:
// публикация не должна откатываться из-за недоставленного сообщения
func (s *Service) Approve(ctx context.Context, pendingID, reviewerID int64) (model.Article, error) {
	if err := s.requireModerator(ctx, reviewerID); err != nil {
		return model.Article{}, err
	}

	article, err := s.news.Approve(ctx, pendingID)
	if err != nil {
		return model.Article{}, err
	}

	if article.AuthorID != model.FeedAuthorID {
		text := fmt.Sprintf("✅ Ваша новость «%s» опубликована! ID: %d", article.Title, article.ID)
		if err := s.notifier.Notify(ctx, article.AuthorID, text); err != nil {
			log.Printf("[WARN] failed to notify author %d: %v", article.AuthorID, err)
		}
	}

	s.fanOut(ctx, article)

	return article, nil
}

// Reject отклоняет новость, удаляя ее из очереди.
// Автор уведомляется синхронно, ошибка доставки глотается
func (s *Service) Reject(ctx context.Context, pendingID, reviewerID int64) error {
	if err := s.requireModerator(ctx, reviewerID); err != nil {
		return err
	}

	authorID, err := s.news.Reject(ctx, pendingID)
	if err != nil {
		return err
	}

	if authorID != model.FeedAuthorID {
		text := "❌ Ваша новость отклонена модератором."
		if err := s.notifier.Notify(ctx, authorID, text); err != nil {
			log.Printf("[WARN] failed to notify author %d: %v", authorID, err)
		}
	}

	return nil
}

// EditPending правит новость в очереди. Доступно автору и админу
func (s *Service) EditPending(ctx context.Context, pendingID, editorID int64, draft model.Draft) error {
	pending, err := s.news.PendingByID(ctx, pendingID)
	if err != nil {
		return err
	}

	if err := s.requireAuthor(ctx, pending.AuthorID, editorID); err != nil {
		return err
	}

	return s.news.UpdatePending(ctx, pendingID, draft)
}

// EditPublished правит уже опубликованную новость на месте,
// без нового круга проверки
func (s *Service) EditPublished(ctx context.Context, newsID, editorID int64, draft model.Draft) error {
	article, err := s.news.NewsByID(ctx, newsID)
	if err != nil {
		return err
	}

	if err := s.requireAuthor(ctx, article.AuthorID, editorID); err != nil {
		return err
	}

	return s.news.UpdateNews(ctx, newsID, draft)
}

// Рассылка подписчикам категории. Неудачная доставка одному подписчику
// не мешает остальным
func (s *Service) fanOut(ctx context.Context, article model.Article) {
	subscribers, err := s.subscribers.Subscribers(ctx, article.Category)
	if err != nil {
		log.Printf("[ERROR] failed to get subscribers of %q: %v", article.Category, err)
		return
	}

	text := fmt.Sprintf(
		"📰 Новая новость в категории %s!\n\n%s\n%s",
		article.Category,
		article.Title,
		truncate(article.Description, 200),
	)

	for _, userID := range subscribers {
		if err := s.notifier.Notify(ctx, userID, text); err != nil {
			log.Printf("[WARN] failed to notify subscriber %d: %v", userID, err)
		}
	}
}

// Нулевой reviewer - это воркер лент в режиме автопубликации,
// роль для него не проверяется
func (s *Service) requireModerator(ctx context.Context, reviewerID int64) error {
	if reviewerID == model.FeedAuthorID {
		return nil
	}

	user, err := s.users.EnsureUser(ctx, reviewerID)
	if err != nil {
		return err
	}

	if !user.Role.CanModerate() {
		return ErrNoAccess
	}

	return nil
}

func (s *Service) requireAuthor(ctx context.Context, authorID, editorID int64) error {
	if authorID == editorID {
		return nil
	}

	user, err := s.users.EnsureUser(ctx, editorID)
	if err != nil {
		return err
	}

	if user.Role != model.RoleAdmin {
		return ErrNoAccess
	}

	return nil
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
