package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Хранилище оценок новостей
type RatingStorage struct {
	db *sqlx.DB
}

func NewRatingStorage(db *sqlx.DB) *RatingStorage {
	return &RatingStorage{db: db}
}

// Set ставит оценку новости от пользователя.
// Upsert по паре (user_id, news_id): побеждает последняя оценка,
// никакого накопления голосов от одного пользователя нет
func (s *RatingStorage) Set(ctx context.Context, userID, newsID int64, value int) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(
		ctx,
		`INSERT INTO ratings (user_id, news_id, rating) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, news_id) DO UPDATE SET rating = excluded.rating`,
		userID,
		newsID,
		value,
	); err != nil {
		return err
	}

	return nil
}

// Counts возвращает количество лайков и дизлайков новости.
// Считаем по строкам, а не по отдельному счетчику:
// счетчику было бы куда разъезжаться с upsert-семантикой Set
func (s *RatingStorage) Counts(ctx context.Context, newsID int64) (likes, dislikes int, err error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer conn.Close()

	if err := conn.GetContext(
		ctx,
		&likes,
		`SELECT COUNT(*) FROM ratings WHERE news_id = ? AND rating = 1`,
		newsID,
	); err != nil {
		return 0, 0, err
	}

	if err := conn.GetContext(
		ctx,
		&dislikes,
		`SELECT COUNT(*) FROM ratings WHERE news_id = ? AND rating = -1`,
		newsID,
	); err != nil {
		return 0, 0, err
	}

	return likes, dislikes, nil
}

// UserRating возвращает оценку пользователя для новости.
// 0 означает, что пользователь еще не голосовал
func (s *RatingStorage) UserRating(ctx context.Context, userID, newsID int64) (int, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	var value int
	if err := conn.GetContext(
		ctx,
		&value,
		`SELECT rating FROM ratings WHERE user_id = ? AND news_id = ?`,
		userID,
		newsID,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return value, nil
}
