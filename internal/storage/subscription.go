package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Хранилище подписок пользователей на категории
type SubscriptionStorage struct {
	db *sqlx.DB
}

func NewSubscriptionStorage(db *sqlx.DB) *SubscriptionStorage {
	return &SubscriptionStorage{db: db}
}

// Subscribe подписывает пользователя на категорию.
// Возвращает false, если подписка уже была: пара (user_id, category) -
// первичный ключ, повторная вставка просто игнорируется
func (s *SubscriptionStorage) Subscribe(ctx context.Context, userID int64, category string) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`INSERT INTO subscriptions (user_id, category) VALUES (?, ?)
		 ON CONFLICT (user_id, category) DO NOTHING`,
		userID,
		category,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// Unsubscribe отписывает пользователя от категории
func (s *SubscriptionStorage) Unsubscribe(ctx context.Context, userID int64, category string) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(
		ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND category = ?`,
		userID,
		category,
	); err != nil {
		return err
	}

	return nil
}

// UserSubscriptions возвращает категории, на которые подписан пользователь
func (s *SubscriptionStorage) UserSubscriptions(ctx context.Context, userID int64) ([]string, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var categories []string
	if err := conn.SelectContext(
		ctx,
		&categories,
		`SELECT category FROM subscriptions WHERE user_id = ? ORDER BY category`,
		userID,
	); err != nil {
		return nil, err
	}

	return categories, nil
}

// Subscribers возвращает id всех подписчиков категории.
// Используется для рассылки уведомлений при публикации новости
func (s *SubscriptionStorage) Subscribers(ctx context.Context, category string) ([]int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var ids []int64
	if err := conn.SelectContext(
		ctx,
		&ids,
		`SELECT user_id FROM subscriptions WHERE category = ?`,
		category,
	); err != nil {
		return nil, err
	}

	return ids, nil
}
