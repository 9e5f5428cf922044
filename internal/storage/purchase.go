package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Журнал покупок лимитов. Таблица только дописывается
type PurchaseStorage struct {
	db *sqlx.DB
}

func NewPurchaseStorage(db *sqlx.DB) *PurchaseStorage {
	return &PurchaseStorage{db: db}
}

// Add записывает покупку в журнал
func (s *PurchaseStorage) Add(ctx context.Context, userID int64, kind model.ActionKind, amount, cost int) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`INSERT INTO purchases (user_id, action_type, amount, cost, purchase_date) VALUES (?, ?, ?, ?, ?)`,
		userID,
		kind,
		amount,
		cost,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// ByUser возвращает последние покупки пользователя
func (s *PurchaseStorage) ByUser(ctx context.Context, userID int64, limit int) ([]model.Purchase, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var purchases []dbPurchase
	if err := conn.SelectContext(
		ctx,
		&purchases,
		`SELECT * FROM purchases WHERE user_id = ? ORDER BY purchase_id DESC LIMIT ?`,
		userID,
		limit,
	); err != nil {
		return nil, err
	}

	return lo.Map(purchases, func(p dbPurchase, _ int) model.Purchase {
		return model.Purchase(p)
	}), nil
}

// Внутренняя модель для работы с БД, чтобы правильно мапить колонки таблицы
type dbPurchase struct {
	ID         int64            `db:"purchase_id"`
	UserID     int64            `db:"user_id"`
	ActionKind model.ActionKind `db:"action_type"`
	Amount     int              `db:"amount"`
	Cost       int              `db:"cost"`
	CreatedAt  time.Time        `db:"purchase_date"`
}
