package limits

import (
	"context"
	"fmt"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Хранилище счетчиков. Интерфейс объявлен на стороне потребителя,
// имплементация - UserStorage
type UsageStorage interface {
	Usage(ctx context.Context, userID int64, kind model.ActionKind) (used, limit int, err error)
	IncrementUsage(ctx context.Context, userID int64, kind model.ActionKind) error
	GrantLimit(ctx context.Context, userID int64, kind model.ActionKind, amount int) error
}

// ExceededError возвращается, когда лимит действия исчерпан.
// Несет текущие счетчики, чтобы бот мог показать их и предложить докупить
type ExceededError struct {
	Kind  model.ActionKind
	Used  int
	Limit int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("limit exceeded for %s: %d/%d", e.Kind, e.Used, e.Limit)
}

// Limiter проверяет лимиты действий пользователей.
// Лимиты пожизненные: счетчик никогда не сбрасывается,
// потолок растет только через покупки
type Limiter struct {
	usage UsageStorage
}

func NewLimiter(usage UsageStorage) *Limiter {
	return &Limiter{usage: usage}
}

// Check проверяет, доступно ли действие. Без побочных эффектов:
// счетчик двигает только Spend, уже после выполнения действия
func (l *Limiter) Check(ctx context.Context, userID int64, kind model.ActionKind) error {
	used, limit, err := l.usage.Usage(ctx, userID, kind)
	if err != nil {
		return err
	}

	if used >= limit {
		return &ExceededError{Kind: kind, Used: used, Limit: limit}
	}

	return nil
}

// Spend списывает одно использование. Вызывается только после того,
// как действие реально выполнилось, чтобы не списывать за неудачные попытки
func (l *Limiter) Spend(ctx context.Context, userID int64, kind model.ActionKind) error {
	return l.usage.IncrementUsage(ctx, userID, kind)
}

// Grant поднимает лимит после подтвержденной оплаты
func (l *Limiter) Grant(ctx context.Context, userID int64, kind model.ActionKind, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	return l.usage.GrantLimit(ctx, userID, kind, amount)
}
