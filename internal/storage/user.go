package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Хранилище пользователей. Роли и лимиты живут только в базе,
// чтобы они переживали рестарт и были одинаковыми для всех конкурентных хендлеров
type UserStorage struct {
	db *sqlx.DB
	// Лимиты, которые получает новый пользователь
	viewLimit   int
	createLimit int
}

func NewUserStorage(db *sqlx.DB, viewLimit, createLimit int) *UserStorage {
	return &UserStorage{
		db:          db,
		viewLimit:   viewLimit,
		createLimit: createLimit,
	}
}

// EnsureUser возвращает пользователя, создавая его при первом обращении
// с ролью reader и дефолтными лимитами
func (s *UserStorage) EnsureUser(ctx context.Context, id int64) (model.User, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer conn.Close()

	// ON CONFLICT DO NOTHING, потому что два хендлера одного пользователя
	// могут прийти одновременно и оба попытаются его создать
	if _, err := conn.ExecContext(
		ctx,
		`INSERT INTO users (user_id, role, view_limit, create_limit) VALUES (?, ?, ?, ?)
		 ON CONFLICT (user_id) DO NOTHING`,
		id,
		model.RoleReader,
		s.viewLimit,
		s.createLimit,
	); err != nil {
		return model.User{}, err
	}

	var user dbUser
	if err := conn.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = ?`, id); err != nil {
		return model.User{}, err
	}

	return model.User(user), nil
}

// SetRole назначает пользователю роль, создавая его при необходимости
func (s *UserStorage) SetRole(ctx context.Context, id int64, role model.Role) error {
	if _, err := s.EnsureUser(ctx, id); err != nil {
		return err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `UPDATE users SET role = ? WHERE user_id = ?`, role, id); err != nil {
		return err
	}

	return nil
}

// DemoteRole снимает с пользователя указанную роль, возвращая его к reader.
// Возвращает false, если у пользователя сейчас другая роль
func (s *UserStorage) DemoteRole(ctx context.Context, id int64, role model.Role) (bool, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(
		ctx,
		`UPDATE users SET role = ? WHERE user_id = ? AND role = ?`,
		model.RoleReader,
		id,
		role,
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

// UsersByRole возвращает id всех пользователей с указанной ролью
func (s *UserStorage) UsersByRole(ctx context.Context, role model.Role) ([]int64, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var ids []int64
	if err := conn.SelectContext(ctx, &ids, `SELECT user_id FROM users WHERE role = ?`, role); err != nil {
		return nil, err
	}

	return ids, nil
}

// Usage возвращает текущий счетчик и лимит действия.
// Чтения без побочных эффектов, кроме ленивого создания пользователя
func (s *UserStorage) Usage(ctx context.Context, id int64, kind model.ActionKind) (used, limit int, err error) {
	user, err := s.EnsureUser(ctx, id)
	if err != nil {
		return 0, 0, err
	}

	switch kind {
	case model.ActionView:
		return user.ViewCount, user.ViewLimit, nil
	case model.ActionCreate:
		return user.CreateCount, user.CreateLimit, nil
	default:
		return 0, 0, fmt.Errorf("unknown action kind %q", kind)
	}
}

// IncrementUsage увеличивает счетчик действия на единицу.
// Вызывается только после того, как само действие выполнилось
func (s *UserStorage) IncrementUsage(ctx context.Context, id int64, kind model.ActionKind) error {
	countColumn, _, err := limitColumns(kind)
	if err != nil {
		return err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Инкремент одним UPDATE, конкурентные вызовы сериализует сама база
	query := fmt.Sprintf(`UPDATE users SET %s = %s + 1 WHERE user_id = ?`, countColumn, countColumn)
	if _, err := conn.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// GrantLimit поднимает лимит действия. Счетчик использований не трогается
func (s *UserStorage) GrantLimit(ctx context.Context, id int64, kind model.ActionKind, amount int) error {
	_, limitColumn, err := limitColumns(kind)
	if err != nil {
		return err
	}

	if _, err := s.EnsureUser(ctx, id); err != nil {
		return err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	query := fmt.Sprintf(`UPDATE users SET %s = %s + ? WHERE user_id = ?`, limitColumn, limitColumn)
	if _, err := conn.ExecContext(ctx, query, amount, id); err != nil {
		return err
	}

	return nil
}

// Stats собирает статистику пользователя для панели профиля
func (s *UserStorage) Stats(ctx context.Context, id int64) (model.UserStats, error) {
	user, err := s.EnsureUser(ctx, id)
	if err != nil {
		return model.UserStats{}, err
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return model.UserStats{}, err
	}
	defer conn.Close()

	stats := model.UserStats{
		Role:        user.Role,
		ViewCount:   user.ViewCount,
		ViewLimit:   user.ViewLimit,
		CreateCount: user.CreateCount,
		CreateLimit: user.CreateLimit,
	}

	if err := conn.GetContext(
		ctx,
		&stats.Likes,
		`SELECT COUNT(*) FROM ratings WHERE user_id = ? AND rating = 1`,
		id,
	); err != nil {
		return model.UserStats{}, err
	}

	if err := conn.GetContext(
		ctx,
		&stats.Dislikes,
		`SELECT COUNT(*) FROM ratings WHERE user_id = ? AND rating = -1`,
		id,
	); err != nil {
		return model.UserStats{}, err
	}

	// Счетчики новостей имеют смысл только для писателей
	if user.Role == model.RoleWriter {
		if err := conn.GetContext(
			ctx,
			&stats.PublishedNews,
			`SELECT COUNT(*) FROM news WHERE author_id = ?`,
			id,
		); err != nil {
			return model.UserStats{}, err
		}

		if err := conn.GetContext(
			ctx,
			&stats.PendingNews,
			`SELECT COUNT(*) FROM pending_news WHERE author_id = ?`,
			id,
		); err != nil {
			return model.UserStats{}, err
		}
	}

	return stats, nil
}

// Маппинг вида действия на колонки таблицы users.
// Закрытый switch, чтобы имя колонки никогда не приходило снаружи
func limitColumns(kind model.ActionKind) (countColumn, limitColumn string, err error) {
	switch kind {
	case model.ActionView:
		return "view_count", "view_limit", nil
	case model.ActionCreate:
		return "create_count", "create_limit", nil
	default:
		return "", "", fmt.Errorf("unknown action kind %q", kind)
	}
}

// Внутренняя модель для работы с БД, чтобы правильно мапить колонки таблицы
type dbUser struct {
	ID          int64      `db:"user_id"`
	Role        model.Role `db:"role"`
	ViewCount   int        `db:"view_count"`
	ViewLimit   int        `db:"view_limit"`
	CreateCount int        `db:"create_count"`
	CreateLimit int        `db:"create_limit"`
}
