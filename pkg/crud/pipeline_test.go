package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   uuid.UUID
	Name string
}

type widgetSearch struct {
	SearchOptions
	NamePrefix string
}

type createWidget struct{ Name string }
type updateWidget struct{ Name string }

// fakeRepo keeps widgets in insertion order so paging is deterministic.
type fakeRepo struct {
	items map[uuid.UUID]widget
	order []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]widget)}
}

func (r *fakeRepo) Insert(_ context.Context, w *widget) error {
	r.items[w.ID] = *w
	r.order = append(r.order, w.ID)
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*widget, error) {
	w, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *fakeRepo) Save(_ context.Context, w *widget) error {
	if _, ok := r.items[w.ID]; !ok {
		return errors.New("save of unknown widget")
	}
	r.items[w.ID] = *w
	return nil
}

func (r *fakeRepo) Remove(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) matching(search widgetSearch) []*widget {
	var out []*widget
	for _, id := range r.order {
		w := r.items[id]
		if search.NamePrefix != "" && !strings.HasPrefix(w.Name, search.NamePrefix) {
			continue
		}
		out = append(out, &w)
	}
	return out
}

func (r *fakeRepo) List(_ context.Context, search widgetSearch, limit, offset int) ([]*widget, error) {
	all := r.matching(search)
	if limit < 0 {
		return all, nil
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeRepo) Count(_ context.Context, search widgetSearch) (int64, error) {
	return int64(len(r.matching(search))), nil
}

// fakeUnitOfWork snapshots the repo before fn and restores it when fn
// fails, mirroring transaction rollback.
type fakeUnitOfWork struct {
	repo *fakeRepo
}

func (u *fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]widget, len(u.repo.items))
	for k, v := range u.repo.items {
		snapshot[k] = v
	}
	order := append([]uuid.UUID(nil), u.repo.order...)

	if err := fn(ctx); err != nil {
		u.repo.items = snapshot
		u.repo.order = order
		return err
	}
	return nil
}

type widgetPipeline = Pipeline[widget, widget, widgetSearch, createWidget, updateWidget]

func newWidgetPipeline(repo *fakeRepo, hooks Hooks[widget, createWidget, updateWidget]) *widgetPipeline {
	return New(
		repo,
		&fakeUnitOfWork{repo: repo},
		func(req createWidget) (*widget, error) {
			return &widget{ID: uuid.New(), Name: req.Name}, nil
		},
		func(w *widget, req updateWidget) { w.Name = req.Name },
		func(w *widget) widget { return *w },
		hooks,
	)
}

func TestNewPanicsWithoutResponseMapper(t *testing.T) {
	repo := newFakeRepo()
	assert.Panics(t, func() {
		New[widget, widget, widgetSearch, createWidget, updateWidget](
			repo, &fakeUnitOfWork{repo: repo}, nil, nil, nil,
			Hooks[widget, createWidget, updateWidget]{},
		)
	})
}

func TestCreateRunsBeforeInsertAfterEntityIsRegistered(t *testing.T) {
	repo := newFakeRepo()
	var sawInRepo bool
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{
		BeforeInsert: func(ctx context.Context, w *widget, _ createWidget) error {
			stored, err := repo.FindByID(ctx, w.ID)
			require.NoError(t, err)
			sawInRepo = stored != nil
			return nil
		},
	})

	got, err := p.Create(context.Background(), createWidget{Name: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
	assert.True(t, sawInRepo, "hook should observe the registered entity")
}

func TestCreateHookErrorAbortsTheWholeUnit(t *testing.T) {
	repo := newFakeRepo()
	hookErr := errors.New("name taken")
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{
		BeforeInsert: func(context.Context, *widget, createWidget) error {
			return hookErr
		},
	})

	_, err := p.Create(context.Background(), createWidget{Name: "alpha"})
	require.ErrorIs(t, err, hookErr)
	assert.Empty(t, repo.items, "aborted unit must persist nothing")
}

func TestUpdateMissingIDReturnsNilNil(t *testing.T) {
	p := newWidgetPipeline(newFakeRepo(), Hooks[widget, createWidget, updateWidget]{})

	got, err := p.Update(context.Background(), uuid.New(), updateWidget{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateHookRunsBeforeApply(t *testing.T) {
	repo := newFakeRepo()
	var nameAtHookTime string
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{
		BeforeUpdate: func(_ context.Context, w *widget, _ updateWidget) error {
			nameAtHookTime = w.Name
			return nil
		},
	})

	created, err := p.Create(context.Background(), createWidget{Name: "before"})
	require.NoError(t, err)

	got, err := p.Update(context.Background(), created.ID, updateWidget{Name: "after"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "before", nameAtHookTime)
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, "after", repo.items[created.ID].Name)
}

func TestUpdateHookErrorLeavesEntityUntouched(t *testing.T) {
	repo := newFakeRepo()
	hookErr := errors.New("not allowed")
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{
		BeforeUpdate: func(context.Context, *widget, updateWidget) error {
			return hookErr
		},
	})

	created, err := p.Create(context.Background(), createWidget{Name: "stable"})
	require.NoError(t, err)

	_, err = p.Update(context.Background(), created.ID, updateWidget{Name: "changed"})
	require.ErrorIs(t, err, hookErr)
	assert.Equal(t, "stable", repo.items[created.ID].Name)
}

func TestDeleteMissingIDReturnsFalse(t *testing.T) {
	p := newWidgetPipeline(newFakeRepo(), Hooks[widget, createWidget, updateWidget]{})

	deleted, err := p.Delete(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteHookErrorKeepsTheRow(t *testing.T) {
	repo := newFakeRepo()
	hookErr := errors.New("still referenced")
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{
		BeforeDelete: func(context.Context, *widget) error {
			return hookErr
		},
	})

	created, err := p.Create(context.Background(), createWidget{Name: "keeper"})
	require.NoError(t, err)

	deleted, err := p.Delete(context.Background(), created.ID)
	require.ErrorIs(t, err, hookErr)
	assert.False(t, deleted)
	assert.Contains(t, repo.items, created.ID)
}

func TestGetPagesAndCountsIndependently(t *testing.T) {
	repo := newFakeRepo()
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{})

	for i := 0; i < 25; i++ {
		_, err := p.Create(context.Background(), createWidget{Name: fmt.Sprintf("w%02d", i)})
		require.NoError(t, err)
	}

	res, err := p.Get(context.Background(), widgetSearch{
		SearchOptions: SearchOptions{Page: 1, PageSize: 10, IncludeTotalCount: true},
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 10)
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, int64(25), *res.TotalCount)
	// Zero-based paging: page 1 starts at the 11th row.
	assert.Equal(t, "w10", res.Items[0].Name)

	all, err := p.Get(context.Background(), widgetSearch{
		SearchOptions: SearchOptions{RetrieveAll: true},
	})
	require.NoError(t, err)
	assert.Len(t, all.Items, 25)
	assert.Nil(t, all.TotalCount)
}

func TestGetAppliesFilterToCountAndList(t *testing.T) {
	repo := newFakeRepo()
	p := newWidgetPipeline(repo, Hooks[widget, createWidget, updateWidget]{})

	for _, name := range []string{"ax", "ay", "bz"} {
		_, err := p.Create(context.Background(), createWidget{Name: name})
		require.NoError(t, err)
	}

	res, err := p.Get(context.Background(), widgetSearch{
		SearchOptions: SearchOptions{IncludeTotalCount: true},
		NamePrefix:    "a",
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	require.NotNil(t, res.TotalCount)
	assert.Equal(t, int64(2), *res.TotalCount)
}

func TestGetByIDMissingReturnsNilNil(t *testing.T) {
	p := newWidgetPipeline(newFakeRepo(), Hooks[widget, createWidget, updateWidget]{})

	got, err := p.GetByID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}
