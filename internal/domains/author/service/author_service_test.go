package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinghub-backend/internal/domains/author/model"
	"readinghub-backend/internal/domains/moderation"
	"readinghub-backend/internal/shared/auth"
)

type fakeAuthorRepo struct {
	authors map[uuid.UUID]model.Author
}

func newFakeAuthorRepo() *fakeAuthorRepo {
	return &fakeAuthorRepo{authors: make(map[uuid.UUID]model.Author)}
}

func (r *fakeAuthorRepo) Insert(_ context.Context, a *model.Author) error {
	r.authors[a.ID] = *a
	return nil
}

func (r *fakeAuthorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Author, error) {
	a, ok := r.authors[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *fakeAuthorRepo) Save(_ context.Context, a *model.Author) error {
	r.authors[a.ID] = *a
	return nil
}

func (r *fakeAuthorRepo) Remove(_ context.Context, id uuid.UUID) error {
	delete(r.authors, id)
	return nil
}

func (r *fakeAuthorRepo) List(_ context.Context, _ model.AuthorSearch, _, _ int) ([]*model.Author, error) {
	var out []*model.Author
	for _, a := range r.authors {
		a := a
		out = append(out, &a)
	}
	return out, nil
}

func (r *fakeAuthorRepo) Count(_ context.Context, _ model.AuthorSearch) (int64, error) {
	return int64(len(r.authors)), nil
}

func (r *fakeAuthorRepo) ExistsByNameAndBirthDate(_ context.Context, name string, dateOfBirth time.Time, excludeID uuid.UUID) (bool, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for id, a := range r.authors {
		if id == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(a.Name)) == want && a.DateOfBirth.Equal(dateOfBirth) {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuthorUnitOfWork struct {
	repo *fakeAuthorRepo
}

func (u *fakeAuthorUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]model.Author, len(u.repo.authors))
	for k, v := range u.repo.authors {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		u.repo.authors = snapshot
		return err
	}
	return nil
}

func newTestAuthorService(t *testing.T) (*authorService, *fakeAuthorRepo, *time.Time) {
	t.Helper()
	repo := newFakeAuthorRepo()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	svc := NewService(repo, &fakeAuthorUnitOfWork{repo: repo}).(*authorService)
	svc.now = func() time.Time { return *clock }
	return svc, repo, clock
}

var member = auth.Context{UserID: uuid.New(), Role: auth.RoleMember}

func createAuthorReq(name, dob string) model.CreateAuthorRequest {
	return model.CreateAuthorRequest{Name: name, DateOfBirth: dob}
}

func TestCreateRejectsDuplicateNameAndBirthDate(t *testing.T) {
	svc, _, _ := newTestAuthorService(t)

	_, err := svc.Create(context.Background(), member, createAuthorReq("  Franz Kafka ", "1883-07-03"))
	require.NoError(t, err)

	// Same name up to case and whitespace, same date of birth.
	_, err = svc.Create(context.Background(), member, createAuthorReq("franz kafka", "1883-07-03"))
	assert.ErrorIs(t, err, model.ErrDuplicateAuthor)

	// Same name with a different date of birth is a different person.
	_, err = svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "1900-01-01"))
	assert.NoError(t, err)
}

func TestCreateRejectsInvalidDate(t *testing.T) {
	svc, repo, _ := newTestAuthorService(t)

	_, err := svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "03-07-1883"))
	require.Error(t, err)
	assert.Empty(t, repo.authors)
}

func TestAcceptReopensDeclinedAuthor(t *testing.T) {
	svc, repo, clock := newTestAuthorService(t)

	resp, err := svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "1883-07-03"))
	require.NoError(t, err)
	createdAt := resp.CreatedAt

	_, err = svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)

	// Declined authors cannot be edited.
	upd := model.UpdateAuthorRequest{Name: "F. Kafka", DateOfBirth: "1883-07-03"}
	_, err = svc.Update(context.Background(), resp.ID, upd)
	var declinedErr *moderation.DeclinedUpdateError
	require.ErrorAs(t, err, &declinedErr)

	// Acceptance reopens the entry and advances updatedAt only.
	*clock = clock.Add(time.Hour)
	reopened, err := svc.Accept(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", reopened.AuthorState)
	assert.Equal(t, createdAt, reopened.CreatedAt)
	assert.True(t, reopened.UpdatedAt.After(createdAt))

	// Editable again after reopening.
	updated, err := svc.Update(context.Background(), resp.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "F. Kafka", updated.Name)
	assert.Equal(t, "F. Kafka", repo.authors[resp.ID].Name)
}

func TestUpdateDuplicateCheckRunsBeforeStateGate(t *testing.T) {
	svc, _, _ := newTestAuthorService(t)

	_, err := svc.Create(context.Background(), member, createAuthorReq("Max Brod", "1884-05-27"))
	require.NoError(t, err)

	resp, err := svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "1883-07-03"))
	require.NoError(t, err)

	_, err = svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)

	// Both violations present; the duplicate wins.
	upd := model.UpdateAuthorRequest{Name: " max brod ", DateOfBirth: "1884-05-27"}
	_, err = svc.Update(context.Background(), resp.ID, upd)
	assert.ErrorIs(t, err, model.ErrDuplicateAuthor)
}

func TestUpdateIgnoresCreatedByField(t *testing.T) {
	svc, repo, _ := newTestAuthorService(t)

	resp, err := svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "1883-07-03"))
	require.NoError(t, err)

	other := uuid.New()
	upd := model.UpdateAuthorRequest{
		Name:        "Franz Kafka",
		DateOfBirth: "1883-07-03",
		CreatedBy:   &other,
	}
	updated, err := svc.Update(context.Background(), resp.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, member.UserID, updated.CreatedBy)
	assert.Equal(t, member.UserID, repo.authors[resp.ID].CreatedBy)
}

func TestDeleteHasNoStateConstraint(t *testing.T) {
	svc, repo, _ := newTestAuthorService(t)

	resp, err := svc.Create(context.Background(), member, createAuthorReq("Franz Kafka", "1883-07-03"))
	require.NoError(t, err)

	_, err = svc.Decline(context.Background(), resp.ID)
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Empty(t, repo.authors)
}
