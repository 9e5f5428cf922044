package rating

import (
	"context"
	"fmt"
)

// Хранилище оценок. Интерфейс объявлен на стороне потребителя,
// имплементация - RatingStorage
type RatingStorage interface {
	Set(ctx context.Context, userID, newsID int64, value int) error
	Counts(ctx context.Context, newsID int64) (likes, dislikes int, err error)
	UserRating(ctx context.Context, userID, newsID int64) (int, error)
}

const (
	Like    = 1
	Dislike = -1
)

// Service считает лайки и дизлайки опубликованных новостей
type Service struct {
	ratings RatingStorage
}

func NewService(ratings RatingStorage) *Service {
	return &Service{ratings: ratings}
}

// Set ставит оценку новости. Повторная оценка перезаписывает предыдущую
func (s *Service) Set(ctx context.Context, userID, newsID int64, value int) error {
	if value != Like && value != Dislike {
		return fmt.Errorf("rating value must be %d or %d, got %d", Like, Dislike, value)
	}

	return s.ratings.Set(ctx, userID, newsID, value)
}

// Counts возвращает количество лайков и дизлайков новости
func (s *Service) Counts(ctx context.Context, newsID int64) (likes, dislikes int, err error) {
	return s.ratings.Counts(ctx, newsID)
}

// UserRating возвращает оценку пользователя, 0 если он еще не голосовал
func (s *Service) UserRating(ctx context.Context, userID, newsID int64) (int, error) {
	return s.ratings.UserRating(ctx, userID, newsID)
}
