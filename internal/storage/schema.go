package storage

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

// DDL всех таблиц. Создаем идемпотентно при каждом старте,
// чтобы бот поднимался на пустой базе без отдельного шага миграции
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		role TEXT NOT NULL DEFAULT 'reader',
		view_count INTEGER NOT NULL DEFAULT 0,
		view_limit INTEGER NOT NULL DEFAULT 10,
		create_count INTEGER NOT NULL DEFAULT 0,
		create_limit INTEGER NOT NULL DEFAULT 5
	)`,
	`CREATE TABLE IF NOT EXISTS pending_news (
		pending_id INTEGER PRIMARY KEY AUTOINCREMENT,
		author_id INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS news (
		news_id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		author_id INTEGER NOT NULL DEFAULT 0,
		published_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id INTEGER NOT NULL,
		news_id INTEGER NOT NULL,
		rating INTEGER NOT NULL,
		PRIMARY KEY (user_id, news_id)
	)`,
	`CREATE TABLE IF NOT EXISTS sources (
		source_id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		url TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS subscriptions (
		user_id INTEGER NOT NULL,
		category TEXT NOT NULL,
		PRIMARY KEY (user_id, category)
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		purchase_id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		action_type TEXT NOT NULL,
		amount INTEGER NOT NULL,
		cost INTEGER NOT NULL,
		purchase_date TIMESTAMP NOT NULL
	)`,
}

// Колонки, которых может не быть в базах, созданных старыми версиями бота.
// Их добавляем отдельными ALTER TABLE, потому что CREATE TABLE IF NOT EXISTS
// существующую таблицу не трогает
var missingColumns = []struct {
	table      string
	column     string
	definition string
}{
	{"users", "view_count", "INTEGER NOT NULL DEFAULT 0"},
	{"users", "view_limit", "INTEGER NOT NULL DEFAULT 10"},
	{"users", "create_count", "INTEGER NOT NULL DEFAULT 0"},
	{"users", "create_limit", "INTEGER NOT NULL DEFAULT 5"},
	{"news", "author_id", "INTEGER NOT NULL DEFAULT 0"},
}

// InitSchema создает таблицы и дотягивает схему старых баз до текущей
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	conn, err := db.Connx(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, ddl := range schema {
		if _, err := conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	for _, mc := range missingColumns {
		has, err := hasColumn(ctx, conn, mc.table, mc.column)
		if err != nil {
			return err
		}
		if has {
			continue
		}

		log.Printf("adding %s column to %s table", mc.column, mc.table)
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", mc.table, mc.column, mc.definition)
		if _, err := conn.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("migrate %s.%s: %w", mc.table, mc.column, err)
		}
	}

	return nil
}

// Строка из PRAGMA table_info
type dbColumnInfo struct {
	CID          int     `db:"cid"`
	Name         string  `db:"name"`
	Type         string  `db:"type"`
	NotNull      int     `db:"notnull"`
	DefaultValue *string `db:"dflt_value"`
	PrimaryKey   int     `db:"pk"`
}

func hasColumn(ctx context.Context, conn *sqlx.Conn, table, column string) (bool, error) {
	var columns []dbColumnInfo
	if err := conn.SelectContext(ctx, &columns, fmt.Sprintf("PRAGMA table_info(%s)", table)); err != nil {
		return false, err
	}

	return lo.ContainsBy(columns, func(c dbColumnInfo) bool {
		return c.Name == column
	}), nil
}
