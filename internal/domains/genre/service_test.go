package genre

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenreRepo struct {
	genres map[uuid.UUID]Genre
	inUse  map[uuid.UUID]bool
}

func newFakeGenreRepo() *fakeGenreRepo {
	return &fakeGenreRepo{
		genres: make(map[uuid.UUID]Genre),
		inUse:  make(map[uuid.UUID]bool),
	}
}

func (r *fakeGenreRepo) Insert(_ context.Context, g *Genre) error {
	r.genres[g.ID] = *g
	return nil
}

func (r *fakeGenreRepo) FindByID(_ context.Context, id uuid.UUID) (*Genre, error) {
	g, ok := r.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r *fakeGenreRepo) Save(_ context.Context, g *Genre) error {
	r.genres[g.ID] = *g
	return nil
}

func (r *fakeGenreRepo) Remove(_ context.Context, id uuid.UUID) error {
	delete(r.genres, id)
	return nil
}

func (r *fakeGenreRepo) List(_ context.Context, _ GenreSearch, _, _ int) ([]*Genre, error) {
	var out []*Genre
	for _, g := range r.genres {
		g := g
		out = append(out, &g)
	}
	return out, nil
}

func (r *fakeGenreRepo) Count(_ context.Context, _ GenreSearch) (int64, error) {
	return int64(len(r.genres)), nil
}

func (r *fakeGenreRepo) ExistsByName(_ context.Context, name string, excludeID uuid.UUID) (bool, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	for id, g := range r.genres {
		if id == excludeID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(g.Name)) == want {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeGenreRepo) InUse(_ context.Context, id uuid.UUID) (bool, error) {
	return r.inUse[id], nil
}

type fakeGenreUnitOfWork struct {
	repo *fakeGenreRepo
}

func (u *fakeGenreUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]Genre, len(u.repo.genres))
	for k, v := range u.repo.genres {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		u.repo.genres = snapshot
		return err
	}
	return nil
}

func newTestGenreService(t *testing.T) (Service, *fakeGenreRepo) {
	t.Helper()
	repo := newFakeGenreRepo()
	return NewService(repo, &fakeGenreUnitOfWork{repo: repo}), repo
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, repo := newTestGenreService(t)

	_, err := svc.Create(context.Background(), CreateGenreRequest{Name: " Fantasy "})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateGenreRequest{Name: "fantasy"})
	require.ErrorIs(t, err, ErrDuplicateGenre)
	assert.Len(t, repo.genres, 1, "rejected create must not persist")
}

func TestUpdateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestGenreService(t)

	_, err := svc.Create(context.Background(), CreateGenreRequest{Name: "Fantasy"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), CreateGenreRequest{Name: "Horror"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), second.ID, UpdateGenreRequest{Name: "FANTASY"})
	assert.ErrorIs(t, err, ErrDuplicateGenre)

	// Renaming to itself is allowed.
	renamed, err := svc.Update(context.Background(), second.ID, UpdateGenreRequest{Name: "Horror"})
	require.NoError(t, err)
	assert.Equal(t, "Horror", renamed.Name)
}

func TestDeleteRefusedWhileReferenced(t *testing.T) {
	svc, repo := newTestGenreService(t)

	created, err := svc.Create(context.Background(), CreateGenreRequest{Name: "Fantasy"})
	require.NoError(t, err)
	repo.inUse[created.ID] = true

	deleted, err := svc.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, ErrGenreInUse)
	assert.False(t, deleted)
	assert.Contains(t, repo.genres, created.ID)

	repo.inUse[created.ID] = false
	deleted, err = svc.Delete(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}
