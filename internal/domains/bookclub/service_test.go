package bookclub

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readinghub-backend/internal/shared/auth"
)

type fakeClubRepo struct {
	clubs map[uuid.UUID]BookClub
}

func newFakeClubRepo() *fakeClubRepo {
	return &fakeClubRepo{clubs: make(map[uuid.UUID]BookClub)}
}

func (r *fakeClubRepo) Insert(_ context.Context, b *BookClub) error {
	r.clubs[b.ID] = *b
	return nil
}

func (r *fakeClubRepo) FindByID(_ context.Context, id uuid.UUID) (*BookClub, error) {
	b, ok := r.clubs[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeClubRepo) Save(_ context.Context, b *BookClub) error {
	r.clubs[b.ID] = *b
	return nil
}

func (r *fakeClubRepo) Remove(_ context.Context, id uuid.UUID) error {
	delete(r.clubs, id)
	return nil
}

func (r *fakeClubRepo) List(_ context.Context, _ BookClubSearch, _, _ int) ([]*BookClub, error) {
	var out []*BookClub
	for _, b := range r.clubs {
		b := b
		out = append(out, &b)
	}
	return out, nil
}

func (r *fakeClubRepo) Count(_ context.Context, _ BookClubSearch) (int64, error) {
	return int64(len(r.clubs)), nil
}

type fakeClubUnitOfWork struct {
	repo *fakeClubRepo
}

func (u *fakeClubUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]BookClub, len(u.repo.clubs))
	for k, v := range u.repo.clubs {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		u.repo.clubs = snapshot
		return err
	}
	return nil
}

func newTestClubService(t *testing.T) (Service, *fakeClubRepo) {
	t.Helper()
	repo := newFakeClubRepo()
	return NewService(repo, &fakeClubUnitOfWork{repo: repo}), repo
}

var (
	creator  = auth.Context{UserID: uuid.New(), Role: auth.RoleMember}
	stranger = auth.Context{UserID: uuid.New(), Role: auth.RoleMember}
	admin    = auth.Context{UserID: uuid.New(), Role: auth.RoleAdmin}
)

func TestCreateRecordsTheActingUserAsCreator(t *testing.T) {
	svc, _ := newTestClubService(t)

	resp, err := svc.Create(context.Background(), creator, CreateBookClubRequest{Name: "Kafka Circle"})
	require.NoError(t, err)
	assert.Equal(t, creator.UserID, resp.CreatedBy)
}

func TestOnlyCreatorOrAdminMayUpdate(t *testing.T) {
	svc, repo := newTestClubService(t)

	resp, err := svc.Create(context.Background(), creator, CreateBookClubRequest{Name: "Kafka Circle"})
	require.NoError(t, err)

	upd := UpdateBookClubRequest{Name: "Prague Circle"}

	_, err = svc.Update(context.Background(), stranger, resp.ID, upd)
	require.ErrorIs(t, err, ErrNotClubOwner)
	assert.Equal(t, "Kafka Circle", repo.clubs[resp.ID].Name)

	updated, err := svc.Update(context.Background(), creator, resp.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Prague Circle", updated.Name)

	updated, err = svc.Update(context.Background(), admin, resp.ID, UpdateBookClubRequest{Name: "Admin Circle"})
	require.NoError(t, err)
	assert.Equal(t, "Admin Circle", updated.Name)
}

func TestOnlyCreatorOrAdminMayDelete(t *testing.T) {
	svc, repo := newTestClubService(t)

	resp, err := svc.Create(context.Background(), creator, CreateBookClubRequest{Name: "Kafka Circle"})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), stranger, resp.ID)
	require.ErrorIs(t, err, ErrNotClubOwner)
	assert.Contains(t, repo.clubs, resp.ID)

	deleted, err := svc.Delete(context.Background(), admin, resp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUpdateMissingClubReturnsNil(t *testing.T) {
	svc, _ := newTestClubService(t)

	resp, err := svc.Update(context.Background(), creator, uuid.New(), UpdateBookClubRequest{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, resp)
}
