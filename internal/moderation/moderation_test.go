package moderation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
	"github.com/kovalyov-valentin/news-portal-bot/internal/storage"
)

// Хранилище новостей в памяти с той же семантикой, что у NewsStorage:
// одобрение переносит запись из очереди в опубликованные
type fakeNews struct {
	nextID    int64
	pending   map[int64]model.PendingArticle
	published map[int64]model.Article
}

func newFakeNews() *fakeNews {
	return &fakeNews{
		pending:   map[int64]model.PendingArticle{},
		published: map[int64]model.Article{},
	}
}

func (f *fakeNews) InsertPending(_ context.Context, draft model.Draft, authorID int64) (int64, error) {
	f.nextID++
	f.pending[f.nextID] = model.PendingArticle{
		ID:          f.nextID,
		AuthorID:    authorID,
		Category:    draft.Category,
		Title:       draft.Title,
		Description: draft.Description,
		ImageURL:    draft.ImageURL,
		Source:      draft.Source,
	}
	return f.nextID, nil
}

func (f *fakeNews) Pending(_ context.Context) ([]model.PendingArticle, error) {
	var pending []model.PendingArticle
	for _, p := range f.pending {
		pending = append(pending, p)
	}
	return pending, nil
}

func (f *fakeNews) PendingByID(_ context.Context, id int64) (model.PendingArticle, error) {
	p, ok := f.pending[id]
	if !ok {
		return model.PendingArticle{}, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeNews) UpdatePending(_ context.Context, id int64, draft model.Draft) error {
	p, ok := f.pending[id]
	if !ok {
		return storage.ErrNotFound
	}
	p.Category, p.Title, p.Description, p.ImageURL = draft.Category, draft.Title, draft.Description, draft.ImageURL
	f.pending[id] = p
	return nil
}

func (f *fakeNews) Approve(_ context.Context, pendingID int64) (model.Article, error) {
	p, ok := f.pending[pendingID]
	if !ok {
		return model.Article{}, storage.ErrNotFound
	}
	delete(f.pending, pendingID)

	f.nextID++
	article := model.Article{
		ID:          f.nextID,
		Category:    p.Category,
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Source:      p.Source,
		AuthorID:    p.AuthorID,
	}
	f.published[article.ID] = article
	return article, nil
}

func (f *fakeNews) Reject(_ context.Context, pendingID int64) (int64, error) {
	p, ok := f.pending[pendingID]
	if !ok {
		return 0, storage.ErrNotFound
	}
	delete(f.pending, pendingID)
	return p.AuthorID, nil
}

func (f *fakeNews) NewsByID(_ context.Context, id int64) (model.Article, error) {
	a, ok := f.published[id]
	if !ok {
		return model.Article{}, storage.ErrNotFound
	}
	return a, nil
}

func (f *fakeNews) UpdateNews(_ context.Context, id int64, draft model.Draft) error {
	a, ok := f.published[id]
	if !ok {
		return storage.ErrNotFound
	}
	a.Category, a.Title, a.Description, a.ImageURL = draft.Category, draft.Title, draft.Description, draft.ImageURL
	f.published[id] = a
	return nil
}

type fakeUsers struct {
	roles map[int64]model.Role
}

func (f *fakeUsers) EnsureUser(_ context.Context, id int64) (model.User, error) {
	role, ok := f.roles[id]
	if !ok {
		role = model.RoleReader
	}
	return model.User{ID: id, Role: role}, nil
}

type fakeSubscribers struct {
	byCategory map[string][]int64
}

func (f *fakeSubscribers) Subscribers(_ context.Context, category string) ([]int64, error) {
	return f.byCategory[category], nil
}

// Записывает отправленные уведомления, по желанию ломает доставку
type fakeNotifier struct {
	sent   map[int64][]string
	broken map[int64]bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: map[int64][]string{}, broken: map[int64]bool{}}
}

func (f *fakeNotifier) Notify(_ context.Context, userID int64, text string) error {
	if f.broken[userID] {
		return errors.New("delivery failed")
	}
	f.sent[userID] = append(f.sent[userID], text)
	return nil
}

type fakeQuota struct {
	checkErr error
	spent    int
}

func (f *fakeQuota) Check(_ context.Context, _ int64, _ model.ActionKind) error {
	return f.checkErr
}

func (f *fakeQuota) Spend(_ context.Context, _ int64, _ model.ActionKind) error {
	f.spent++
	return nil
}

type fixture struct {
	news     *fakeNews
	users    *fakeUsers
	subs     *fakeSubscribers
	notifier *fakeNotifier
	quota    *fakeQuota
	service  *Service
}

func newFixture(roles map[int64]model.Role) *fixture {
	f := &fixture{
		news:     newFakeNews(),
		users:    &fakeUsers{roles: roles},
		subs:     &fakeSubscribers{byCategory: map[string][]int64{}},
		notifier: newFakeNotifier(),
		quota:    &fakeQuota{},
	}
	f.service = NewService(f.news, f.users, f.subs, f.notifier, f.quota)
	return f
}

func TestSubmitRequiresWriterRole(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleReader,
		2: model.RoleManager,
	})

	_, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.ErrorIs(t, err, ErrNoAccess)

	// Менеджер проверяет чужие новости, но сам не пишет
	_, err = f.service.Submit(context.Background(), model.Draft{Title: "t"}, 2)
	require.ErrorIs(t, err, ErrNoAccess)

	require.Empty(t, f.news.pending)
}

func TestSubmitSpendsWriterQuota(t *testing.T) {
	f := newFixture(map[int64]model.Role{1: model.RoleWriter})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.NoError(t, err)
	require.Equal(t, 1, f.quota.spent)

	pending, err := f.news.PendingByID(context.Background(), pendingID)
	require.NoError(t, err)
	require.Equal(t, int64(1), pending.AuthorID)
}

func TestSubmitBlockedByQuota(t *testing.T) {
	f := newFixture(map[int64]model.Role{1: model.RoleWriter})
	f.quota.checkErr = errors.New("limit exceeded")

	_, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.Error(t, err)

	// Новость не попала в очередь, списания не было
	require.Empty(t, f.news.pending)
	require.Zero(t, f.quota.spent)
}

func TestSubmitAdminBypassesQuota(t *testing.T) {
	f := newFixture(map[int64]model.Role{1: model.RoleAdmin})
	f.quota.checkErr = errors.New("limit exceeded")

	_, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.NoError(t, err)
	require.Zero(t, f.quota.spent)
}

func TestSubmitFromFeedSkipsChecks(t *testing.T) {
	// У нулевого автора нет ни роли, ни лимитов
	f := newFixture(nil)

	_, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, model.FeedAuthorID)
	require.NoError(t, err)
	require.Zero(t, f.quota.spent)
}

func TestApproveRequiresModerator(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleReader,
	})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), pendingID, 2)
	require.ErrorIs(t, err, ErrNoAccess)

	// Писатель не может одобрить даже свою новость
	_, err = f.service.Approve(context.Background(), pendingID, 1)
	require.ErrorIs(t, err, ErrNoAccess)

	require.Len(t, f.news.pending, 1)
}

func TestApproveNotifiesAuthorAndSubscribers(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleManager,
	})
	f.subs.byCategory["tech"] = []int64{10, 11, 12}
	f.notifier.broken[11] = true

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Category: "tech", Title: "t"}, 1)
	require.NoError(t, err)

	article, err := f.service.Approve(context.Background(), pendingID, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), article.AuthorID)

	// Автор получил уведомление о публикации
	require.Len(t, f.notifier.sent[1], 1)

	// Сломанная доставка одному подписчику не мешает остальным
	require.Len(t, f.notifier.sent[10], 1)
	require.Empty(t, f.notifier.sent[11])
	require.Len(t, f.notifier.sent[12], 1)
}

func TestApproveFeedArticleSkipsAuthorNotification(t *testing.T) {
	f := newFixture(map[int64]model.Role{2: model.RoleManager})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Category: "tech", Title: "t"}, model.FeedAuthorID)
	require.NoError(t, err)

	_, err = f.service.Approve(context.Background(), pendingID, 2)
	require.NoError(t, err)

	require.Empty(t, f.notifier.sent[model.FeedAuthorID])
}

func TestApproveMissingPending(t *testing.T) {
	f := newFixture(map[int64]model.Role{2: model.RoleManager})

	_, err := f.service.Approve(context.Background(), 100, 2)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRejectNotifiesAuthor(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleManager,
	})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.NoError(t, err)

	require.NoError(t, f.service.Reject(context.Background(), pendingID, 2))
	require.Len(t, f.notifier.sent[1], 1)
	require.Empty(t, f.news.pending)
}

func TestRejectSwallowsDeliveryFailure(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleManager,
	})
	f.notifier.broken[1] = true

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Title: "t"}, 1)
	require.NoError(t, err)

	// Ошибка доставки не мешает отклонению
	require.NoError(t, f.service.Reject(context.Background(), pendingID, 2))
	require.Empty(t, f.news.pending)
}

func TestEditPendingAccess(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleWriter,
		3: model.RoleAdmin,
	})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Title: "old"}, 1)
	require.NoError(t, err)

	// Чужую новость может править только админ
	err = f.service.EditPending(context.Background(), pendingID, 2, model.Draft{Title: "hijacked"})
	require.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, f.service.EditPending(context.Background(), pendingID, 1, model.Draft{Title: "by author"}))
	require.NoError(t, f.service.EditPending(context.Background(), pendingID, 3, model.Draft{Title: "by admin"}))

	pending, err := f.news.PendingByID(context.Background(), pendingID)
	require.NoError(t, err)
	require.Equal(t, "by admin", pending.Title)
}

func TestEditPublishedAccess(t *testing.T) {
	f := newFixture(map[int64]model.Role{
		1: model.RoleWriter,
		2: model.RoleManager,
		4: model.RoleReader,
	})

	pendingID, err := f.service.Submit(context.Background(), model.Draft{Category: "tech", Title: "old"}, 1)
	require.NoError(t, err)

	article, err := f.service.Approve(context.Background(), pendingID, 2)
	require.NoError(t, err)

	err = f.service.EditPublished(context.Background(), article.ID, 4, model.Draft{Title: "hijacked"})
	require.ErrorIs(t, err, ErrNoAccess)

	require.NoError(t, f.service.EditPublished(context.Background(), article.ID, 1, model.Draft{Category: "tech", Title: "edited"}))

	got, err := f.news.NewsByID(context.Background(), article.ID)
	require.NoError(t, err)
	require.Equal(t, "edited", got.Title)
}
