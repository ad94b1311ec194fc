package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinghub-backend/internal/domains/book/model"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/auth"
)

type fakeBookRepo struct {
	books  map[uuid.UUID]model.Book
	genres map[uuid.UUID][]uuid.UUID
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:  make(map[uuid.UUID]model.Book),
		genres: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *fakeBookRepo) Insert(_ context.Context, b *model.Book) error {
	r.books[b.ID] = *b
	return nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, nil
	}
	b.Genres = nil
	for _, gid := range r.genres[id] {
		b.Genres = append(b.Genres, model.GenreRef{ID: gid})
	}
	return &b, nil
}

func (r *fakeBookRepo) Save(_ context.Context, b *model.Book) error {
	if _, ok := r.books[b.ID]; !ok {
		return errors.New("save of unknown book")
	}
	stored := *b
	stored.Genres = nil
	r.books[b.ID] = stored
	return nil
}

func (r *fakeBookRepo) Remove(_ context.Context, id uuid.UUID) error {
	delete(r.books, id)
	delete(r.genres, id)
	return nil
}

func (r *fakeBookRepo) List(_ context.Context, _ model.BookSearch, _, _ int) ([]*model.Book, error) {
	var out []*model.Book
	for id := range r.books {
		b, _ := r.FindByID(context.Background(), id)
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBookRepo) Count(_ context.Context, _ model.BookSearch) (int64, error) {
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) ExistsByTitleAndAuthor(_ context.Context, title string, authorID, excludeID uuid.UUID) (bool, error) {
	want := model.NormalizedTitle(title)
	for id, b := range r.books {
		if id == excludeID {
			continue
		}
		if b.AuthorID == authorID && model.NormalizedTitle(b.Title) == want {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookRepo) ReplaceGenres(_ context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error {
	r.genres[bookID] = append([]uuid.UUID(nil), genreIDs...)
	return nil
}

// fakeUnitOfWork restores the repo when the unit fails, mirroring rollback.
type fakeUnitOfWork struct {
	repo *fakeBookRepo
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	books := make(map[uuid.UUID]model.Book, len(u.repo.books))
	for k, v := range u.repo.books {
		books[k] = v
	}
	genres := make(map[uuid.UUID][]uuid.UUID, len(u.repo.genres))
	for k, v := range u.repo.genres {
		genres[k] = append([]uuid.UUID(nil), v...)
	}

	if err := fn(ctx); err != nil {
		u.repo.books = books
		u.repo.genres = genres
		return err
	}
	return nil
}

type fakePublisher struct {
	events []model.BookAcceptedEvent
	err    error
}

func (p *fakePublisher) BookAccepted(_ context.Context, event model.BookAcceptedEvent) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func newTestService(t *testing.T) (*bookService, *fakeBookRepo, *fakePublisher) {
	t.Helper()
	repo := newFakeBookRepo()
	pub := &fakePublisher{}
	svc := NewService(repo, &fakeUnitOfWork{repo: repo}, pub).(*bookService)
	svc.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, repo, pub
}

var (
	member    = auth.Context{UserID: uuid.New(), Role: auth.RoleMember}
	moderator = auth.Context{UserID: uuid.New(), Role: auth.RoleModerator}
)

func createReq(title string, authorID uuid.UUID) model.CreateBookRequest {
	return model.CreateBookRequest{
		Title:    title,
		AuthorID: authorID,
		GenreIDs: []uuid.UUID{uuid.New()},
	}
}

func updateReqFrom(resp *model.BookResponse) model.UpdateBookRequest {
	ids := make([]uuid.UUID, len(resp.Genres))
	for i, g := range resp.Genres {
		ids[i] = g.ID
	}
	return model.UpdateBookRequest{
		Title:    resp.Title,
		AuthorID: resp.AuthorID,
		GenreIDs: ids,
	}
}

func TestCreateStartsSubmittedForMembers(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "submitted", resp.BookState)
	assert.Equal(t, member.UserID, resp.CreatedBy)
}

func TestCreateStartsAcceptedForModerators(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), moderator, createReq("The Castle", uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.BookState)
}

func TestCreateRequiresAtLeastOneGenre(t *testing.T) {
	svc, repo, _ := newTestService(t)

	req := createReq("Amerika", uuid.New())
	req.GenreIDs = nil

	_, err := svc.Create(context.Background(), member, req)
	require.ErrorIs(t, err, model.ErrNoGenres)
	assert.Empty(t, repo.books, "failed create must persist nothing")
}

func TestUpdateRequiresAtLeastOneGenre(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)
	before := append([]uuid.UUID(nil), repo.genres[resp.ID]...)

	upd := updateReqFrom(resp)
	upd.GenreIDs = nil

	_, err = svc.Update(context.Background(), resp.ID, upd)
	require.ErrorIs(t, err, model.ErrNoGenres)
	assert.Equal(t, before, repo.genres[resp.ID], "aborted update must leave associations intact")
	assert.Equal(t, "The Trial", repo.books[resp.ID].Title)
}

func TestListCarriesGenreAssociations(t *testing.T) {
	svc, _, _ := newTestService(t)

	genreID := uuid.New()
	req := createReq("The Trial", uuid.New())
	req.GenreIDs = []uuid.UUID{genreID}
	_, err := svc.Create(context.Background(), member, req)
	require.NoError(t, err)

	result, err := svc.Get(context.Background(), model.BookSearch{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Len(t, result.Items[0].Genres, 1)
	assert.Equal(t, genreID, result.Items[0].Genres[0].ID)
}

func TestCreateRejectsDuplicateNaturalKey(t *testing.T) {
	svc, _, _ := newTestService(t)
	authorID := uuid.New()

	_, err := svc.Create(context.Background(), member, createReq("  The Trial ", authorID))
	require.NoError(t, err)

	// Same title up to case and whitespace, same author.
	_, err = svc.Create(context.Background(), member, createReq("the trial", authorID))
	assert.ErrorIs(t, err, model.ErrDuplicateBook)

	// Same title for a different author is fine.
	_, err = svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	assert.NoError(t, err)
}

func TestDeclinedRowStillBlocksResubmission(t *testing.T) {
	svc, _, _ := newTestService(t)
	authorID := uuid.New()

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", authorID))
	require.NoError(t, err)

	_, err = svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)

	// A declined book keeps occupying its natural key.
	_, err = svc.Create(context.Background(), member, createReq("The Trial", authorID))
	assert.ErrorIs(t, err, model.ErrDuplicateBook)
}

func TestModerationLifecycle(t *testing.T) {
	svc, _, pub := newTestService(t)

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)
	require.Equal(t, "submitted", resp.BookState)

	accepted, err := svc.Accept(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.BookState)
	require.Len(t, pub.events, 1)
	assert.Equal(t, resp.ID, pub.events[0].BookID)

	// Accepted entries stay editable.
	upd := updateReqFrom(accepted)
	upd.Title = "The Trial (Revised)"
	updated, err := svc.Update(context.Background(), resp.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "The Trial (Revised)", updated.Title)

	declined, err := svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "declined", declined.BookState)

	// Declined entries are locked against edits.
	_, err = svc.Update(context.Background(), resp.ID, upd)
	var declinedErr *moderation.DeclinedUpdateError
	require.ErrorAs(t, err, &declinedErr)

	// Declining twice is not a legal transition.
	_, err = svc.Decline(context.Background(), resp.ID)
	var notAllowed *moderation.NotAllowedError
	require.ErrorAs(t, err, &notAllowed)

	// Acceptance reopens a declined entry.
	reopened, err := svc.Accept(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", reopened.BookState)
}

func TestUpdateDuplicateCheckRunsBeforeStateGate(t *testing.T) {
	svc, _, _ := newTestService(t)
	authorID := uuid.New()

	existing, err := svc.Create(context.Background(), member, createReq("The Castle", authorID))
	require.NoError(t, err)
	_ = existing

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", authorID))
	require.NoError(t, err)

	_, err = svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)

	// Both violations are present; the duplicate wins.
	upd := updateReqFrom(resp)
	upd.Title = "the castle"
	_, err = svc.Update(context.Background(), resp.ID, upd)
	assert.ErrorIs(t, err, model.ErrDuplicateBook)
}

func TestUpdateIgnoresCreatedByField(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)

	other := uuid.New()
	upd := updateReqFrom(resp)
	upd.CreatedBy = &other

	updated, err := svc.Update(context.Background(), resp.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, member.UserID, updated.CreatedBy)
	assert.Equal(t, member.UserID, repo.books[resp.ID].CreatedBy)
}

func TestUpdateMissingIDReturnsNil(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Update(context.Background(), uuid.New(), model.UpdateBookRequest{
		Title:    "x",
		AuthorID: uuid.New(),
		GenreIDs: []uuid.UUID{uuid.New()},
	})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestAcceptMissingIDPublishesNothing(t *testing.T) {
	svc, _, pub := newTestService(t)

	resp, err := svc.Accept(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, pub.events)
}

func TestAcceptSurvivesPublishFailure(t *testing.T) {
	svc, repo, pub := newTestService(t)
	pub.err = errors.New("broker down")

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), resp.ID)
	require.NoError(t, err, "publish failure must not surface")
	assert.Equal(t, "accepted", accepted.BookState)
	assert.Equal(t, moderation.StateAccepted, repo.books[resp.ID].State)
}

func TestUpdateReplacesGenreAssociationsWholesale(t *testing.T) {
	svc, repo, _ := newTestService(t)

	resp, err := svc.Create(context.Background(), member, createReq("The Trial", uuid.New()))
	require.NoError(t, err)

	newGenres := []uuid.UUID{uuid.New(), uuid.New()}
	upd := updateReqFrom(resp)
	upd.GenreIDs = newGenres

	updated, err := svc.Update(context.Background(), resp.ID, upd)
	require.NoError(t, err)
	require.Len(t, updated.Genres, 2)
	assert.ElementsMatch(t, newGenres, repo.genres[resp.ID])
}
