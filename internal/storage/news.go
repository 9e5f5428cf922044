package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Хранилище новостей. Владеет обеими таблицами - pending_news и news,
// потому что одобрение должно переносить запись между ними одной транзакцией
type NewsStorage struct {
	db *sqlx.DB
}

func NewNewsStorage(db *sqlx.DB) *NewsStorage {
	return &NewsStorage{db: db}
}

// InsertPending добавляет новость в очередь на проверку
func (s *NewsStorage) InsertPending(ctx context.Context, draft model.Draft, authorID int64) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`INSERT INTO pending_news (author_id, category, title, description, image_url, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		authorID,
		draft.Category,
		draft.Title,
		draft.Description,
		draft.ImageURL,
		draft.Source,
		time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

// Pending возвращает очередь новостей в порядке поступления.
// Каждый вызов читает базу заново: пока менеджер листает очередь,
// воркер лент может добавлять в нее новые записи
func (s *NewsStorage) Pending(ctx context.Context) ([]model.PendingArticle, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var pending []dbPendingArticle
	if err := conn.SelectContext(ctx, &pending, `SELECT * FROM pending_news ORDER BY pending_id`); err != nil {
		return nil, err
	}

	return lo.Map(pending, func(p dbPendingArticle, _ int) model.PendingArticle {
		return model.PendingArticle(p)
	}), nil
}

// PendingByID возвращает одну новость из очереди
func (s *NewsStorage) PendingByID(ctx context.Context, id int64) (model.PendingArticle, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.PendingArticle{}, err
	}
	defer conn.Close()

	var pending dbPendingArticle
	if err := conn.GetContext(ctx, &pending, `SELECT * FROM pending_news WHERE pending_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PendingArticle{}, ErrNotFound
		}
		return model.PendingArticle{}, err
	}

	return model.PendingArticle(pending), nil
}

// PendingByAuthor возвращает очередь конкретного писателя
func (s *NewsStorage) PendingByAuthor(ctx context.Context, authorID int64) ([]model.PendingArticle, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var pending []dbPendingArticle
	if err := conn.SelectContext(
		ctx,
		&pending,
		`SELECT * FROM pending_news WHERE author_id = ? ORDER BY pending_id`,
		authorID,
	); err != nil {
		return nil, err
	}

	return lo.Map(pending, func(p dbPendingArticle, _ int) model.PendingArticle {
		return model.PendingArticle(p)
	}), nil
}

// UpdatePending правит поля новости в очереди на месте
func (s *NewsStorage) UpdatePending(ctx context.Context, id int64, draft model.Draft) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`UPDATE pending_news SET category = ?, title = ?, description = ?, image_url = ? WHERE pending_id = ?`,
		draft.Category,
		draft.Title,
		draft.Description,
		draft.ImageURL,
		id,
	)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

// Approve переносит новость из очереди в опубликованные.
// Вставка и удаление происходят в одной транзакции: после сбоя посередине
// новость не может оказаться ни в двух таблицах сразу, ни пропасть совсем
func (s *NewsStorage) Approve(ctx context.Context, pendingID int64) (model.Article, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.Article{}, err
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return model.Article{}, err
	}
	defer tx.Rollback()

	var pending dbPendingArticle
	if err := tx.GetContext(ctx, &pending, `SELECT * FROM pending_news WHERE pending_id = ?`, pendingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, err
	}

	publishedAt := time.Now().UTC()

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO news (category, title, description, image_url, source, author_id, published_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		pending.Category,
		pending.Title,
		pending.Description,
		pending.ImageURL,
		pending.Source,
		pending.AuthorID,
		publishedAt,
	)
	if err != nil {
		return model.Article{}, err
	}

	newsID, err := res.LastInsertId()
	if err != nil {
		return model.Article{}, err
	}

	del, err := tx.ExecContext(ctx, `DELETE FROM pending_news WHERE pending_id = ?`, pendingID)
	if err != nil {
		return model.Article{}, err
	}

	// Если запись успели удалить параллельно, транзакция откатывается целиком,
	// иначе мы опубликовали бы новость, которую другой менеджер уже отклонил
	if err := requireAffected(del); err != nil {
		return model.Article{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Article{}, err
	}

	return model.Article{
		ID:          newsID,
		Category:    pending.Category,
		Title:       pending.Title,
		Description: pending.Description,
		ImageURL:    pending.ImageURL,
		Source:      pending.Source,
		AuthorID:    pending.AuthorID,
		PublishedAt: publishedAt,
	}, nil
}

// Reject удаляет новость из очереди. Возвращает id автора для уведомления
func (s *NewsStorage) Reject(ctx context.Context, pendingID int64) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var authorID int64
	if err := tx.GetContext(ctx, &authorID, `SELECT author_id FROM pending_news WHERE pending_id = ?`, pendingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM pending_news WHERE pending_id = ?`, pendingID)
	if err != nil {
		return 0, err
	}

	if err := requireAffected(res); err != nil {
		return 0, err
	}

	return authorID, tx.Commit()
}

// News возвращает опубликованные новости, при необходимости по категории
func (s *NewsStorage) News(ctx context.Context, category string, limit int) ([]model.Article, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var (
		articles []dbArticle
		query    = `SELECT * FROM news ORDER BY news_id DESC LIMIT ?`
		args     = []interface{}{limit}
	)
	if category != "" {
		query = `SELECT * FROM news WHERE category = ? ORDER BY news_id DESC LIMIT ?`
		args = []interface{}{category, limit}
	}

	if err := conn.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, err
	}

	return lo.Map(articles, func(a dbArticle, _ int) model.Article {
		return model.Article(a)
	}), nil
}

// NewsByID возвращает одну опубликованную новость
func (s *NewsStorage) NewsByID(ctx context.Context, id int64) (model.Article, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.Article{}, err
	}
	defer conn.Close()

	var article dbArticle
	if err := conn.GetContext(ctx, &article, `SELECT * FROM news WHERE news_id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, ErrNotFound
		}
		return model.Article{}, err
	}

	return model.Article(article), nil
}

// NewsByAuthor возвращает опубликованные новости писателя
func (s *NewsStorage) NewsByAuthor(ctx context.Context, authorID int64) ([]model.Article, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var articles []dbArticle
	if err := conn.SelectContext(
		ctx,
		&articles,
		`SELECT * FROM news WHERE author_id = ? ORDER BY news_id`,
		authorID,
	); err != nil {
		return nil, err
	}

	return lo.Map(articles, func(a dbArticle, _ int) model.Article {
		return model.Article(a)
	}), nil
}

// UpdateNews правит поля уже опубликованной новости на месте,
// без нового круга проверки
func (s *NewsStorage) UpdateNews(ctx context.Context, id int64, draft model.Draft) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`UPDATE news SET category = ?, title = ?, description = ?, image_url = ? WHERE news_id = ?`,
		draft.Category,
		draft.Title,
		draft.Description,
		draft.ImageURL,
		id,
	)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

// DeleteNews удаляет опубликованную новость
func (s *NewsStorage) DeleteNews(ctx context.Context, id int64) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `DELETE FROM news WHERE news_id = ?`, id)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

// PruneOlderThan удаляет опубликованные новости старше указанного момента.
// Возвращает количество удаленных записей
func (s *NewsStorage) PruneOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `DELETE FROM news WHERE published_at < ?`, olderThan.UTC())
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

// requireAffected превращает "изменено ноль строк" в ErrNotFound
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Внутренние модели для работы с БД, чтобы правильно мапить колонки таблиц
type dbPendingArticle struct {
	ID          int64     `db:"pending_id"`
	AuthorID    int64     `db:"author_id"`
	Category    string    `db:"category"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	Source      string    `db:"source"`
	CreatedAt   time.Time `db:"created_at"`
}

type dbArticle struct {
	ID          int64     `db:"news_id"`
	Category    string    `db:"category"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	ImageURL    string    `db:"image_url"`
	Source      string    `db:"source"`
	AuthorID    int64     `db:"author_id"`
	PublishedAt time.Time `db:"published_at"`
}
