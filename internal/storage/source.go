package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Хранилище RSS источников
type SourceStorage struct {
	db *sqlx.DB
}

func NewSourceStorage(db *sqlx.DB) *SourceStorage {
	return &SourceStorage{db: db}
}

// Sources возвращает все источники, включая выключенные
func (s *SourceStorage) Sources(ctx context.Context) ([]model.Source, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var sources []dbSource
	if err := conn.SelectContext(ctx, &sources, `SELECT * FROM sources ORDER BY source_id`); err != nil {
		return nil, err
	}

	return lo.Map(sources, func(source dbSource, _ int) model.Source {
		return model.Source(source)
	}), nil
}

// ActiveSources возвращает только источники, которые сейчас опрашивает воркер
func (s *SourceStorage) ActiveSources(ctx context.Context) ([]model.Source, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var sources []dbSource
	if err := conn.SelectContext(ctx, &sources, `SELECT * FROM sources WHERE is_active = 1 ORDER BY source_id`); err != nil {
		return nil, err
	}

	return lo.Map(sources, func(source dbSource, _ int) model.Source {
		return model.Source(source)
	}), nil
}

// SourceByID возвращает источник по его id
func (s *SourceStorage) SourceByID(ctx context.Context, id int64) (model.Source, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.Source{}, err
	}
	defer conn.Close()

	var source dbSource
	if err := conn.GetContext(ctx, &source, `SELECT * FROM sources WHERE source_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Source{}, ErrNotFound
		}
		return model.Source{}, err
	}

	return model.Source(source), nil
}

// Add добавляет источник
func (s *SourceStorage) Add(ctx context.Context, source model.Source) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`INSERT INTO sources (category, url, is_active) VALUES (?, ?, ?)`,
		source.Category,
		source.URL,
		source.IsActive,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// SetActive включает или выключает источник.
// Источники не удаляются, чтобы их можно было вернуть без повторной настройки
func (s *SourceStorage) SetActive(ctx context.Context, id int64, active bool) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `UPDATE sources SET is_active = ? WHERE source_id = ?`, active, id)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

// Внутренняя модель для работы с БД, чтобы правильно мапить колонки таблицы
type dbSource struct {
	ID       int64  `db:"source_id"`
	Category string `db:"category"`
	URL      string `db:"url"`
	IsActive bool   `db:"is_active"`
}
