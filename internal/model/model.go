package model

import "time"

// Роль пользователя. Закрытый набор значений вместо произвольных строк,
// чтобы опечатка в названии роли не превращалась в баг с правами.
type Role string

const (
	RoleReader  Role = "reader"
	RoleWriter  Role = "writer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Может ли роль проверять очередь новостей
func (r Role) CanModerate() bool {
	return r == RoleManager || r == RoleAdmin
}

// Может ли роль отправлять новости на проверку
func (r Role) CanWrite() bool {
	return r == RoleWriter || r == RoleAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleReader, RoleWriter, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Тип действия, которое ограничено лимитом
type ActionKind string

const (
	ActionView   ActionKind = "view"
	ActionCreate ActionKind = "create"
)

// FeedAuthorID - синтетический автор для новостей, пришедших из RSS лент.
// У таких новостей нет живого писателя, поэтому используем нулевой id.
const FeedAuthorID int64 = 0

// Пользователь бота. Одна запись на telegram id,
// создается лениво при первом обращении с ролью reader и дефолтными лимитами.
type User struct {
	ID          int64
	Role        Role
	ViewCount   int
	ViewLimit   int
	CreateCount int
	CreateLimit int
}

// Новость, ожидающая проверки менеджером.
// Живет в отдельной таблице и при одобрении переезжает в опубликованные.
type PendingArticle struct {
	ID          int64
	AuthorID    int64
	Category    string
	Title       string
	Description string
	ImageURL    string
	Source      string
	CreatedAt   time.Time
}

// Опубликованная новость. Появляется только через одобрение pending записи.
type Article struct {
	ID          int64
	Category    string
	Title       string
	Description string
	ImageURL    string
	Source      string
	AuthorID    int64
	PublishedAt time.Time
}

// Черновик новости - то, что приходит от писателя или из RSS ленты
// до того как запись попала в базу.
type Draft struct {
	Category    string
	Title       string
	Description string
	ImageURL    string
	Source      string
}

// Оценка новости пользователем. Не более одной записи на пару (user, news),
// повторная оценка перезаписывает предыдущую.
type Rating struct {
	UserID int64
	NewsID int64
	Value  int
}

// Источник RSS ленты. Выключается флагом, а не удалением.
type Source struct {
	ID       int64
	Category string
	URL      string
	IsActive bool
}

// Подписка пользователя на категорию
type Subscription struct {
	UserID   int64
	Category string
}

// Покупка дополнительных лимитов. Таблица только дописывается.
type Purchase struct {
	ID         int64
	UserID     int64
	ActionKind ActionKind
	Amount     int
	Cost       int
	CreatedAt  time.Time
}

// Статья как элемент RSS ленты, до преобразования в черновик
type Item struct {
	Title      string
	Categories []string
	Link       string
	Date       time.Time
	Summary    string
	ImageURL   string
	SourceName string
}

// Статистика пользователя для панели профиля
type UserStats struct {
	Role          Role
	ViewCount     int
	ViewLimit     int
	CreateCount   int
	CreateLimit   int
	Likes         int
	Dislikes      int
	PublishedNews int
	PendingNews   int
}
