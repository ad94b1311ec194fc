// Package crud provides the generic create/read/update/delete pipeline the
// domain services are built on. A concrete service supplies the entity,
// response, search and request types plus mapping functions, and overrides
// behavior through the Hooks extension points. Services with richer
// semantics (the moderated catalog entries) replace Create/Update wholesale
// and reuse only the Delete/Get/GetByID defaults.
package crud

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"readinghub-backend/pkg/database"
)

// Repository is the store contract the pipeline drives. FindByID returns
// (nil, nil) when no row exists: resource absence is a sentinel for the
// caller to interpret, never an error. Filter translation lives in each
// repository's query builder; List and Count receive the search object
// untouched.
type Repository[E any, S Searcher] interface {
	Insert(ctx context.Context, entity *E) error
	FindByID(ctx context.Context, id uuid.UUID) (*E, error)
	Save(ctx context.Context, entity *E) error
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search S, limit, offset int) ([]*E, error)
	Count(ctx context.Context, search S) (int64, error)
}

// Hooks are the named extension points. Any hook may return a domain error,
// which aborts the surrounding unit of work so nothing is persisted.
type Hooks[E, C, U any] struct {
	// BeforeInsert runs after the entity is registered for insertion but
	// before the commit, so hook-side mutations land in the same save.
	BeforeInsert func(ctx context.Context, entity *E, req C) error
	// BeforeUpdate runs before request fields are applied to the entity.
	BeforeUpdate func(ctx context.Context, entity *E, req U) error
	// BeforeDelete runs before removal, e.g. "still referenced" checks.
	BeforeDelete func(ctx context.Context, entity *E) error
}

// Pipeline implements the default Create/Update/Delete/Get/GetByID
// operations for one entity family.
type Pipeline[E any, R any, S Searcher, C any, U any] struct {
	repo       Repository[E, S]
	uow        database.UnitOfWork
	build      func(req C) (*E, error)
	apply      func(entity *E, req U)
	toResponse func(entity *E) R
	hooks      Hooks[E, C, U]
}

// New assembles a pipeline. build and apply may be nil for services that
// replace Create/Update entirely; toResponse is always required.
func New[E any, R any, S Searcher, C any, U any](
	repo Repository[E, S],
	uow database.UnitOfWork,
	build func(req C) (*E, error),
	apply func(entity *E, req U),
	toResponse func(entity *E) R,
	hooks Hooks[E, C, U],
) *Pipeline[E, R, S, C, U] {
	if toResponse == nil {
		panic("crud: toResponse mapper is required")
	}
	return &Pipeline[E, R, S, C, U]{
		repo:       repo,
		uow:        uow,
		build:      build,
		apply:      apply,
		toResponse: toResponse,
		hooks:      hooks,
	}
}

// Create instantiates the entity from the request, registers it with the
// store, runs BeforeInsert and commits. Never returns a not-found sentinel.
func (p *Pipeline[E, R, S, C, U]) Create(ctx context.Context, req C) (R, error) {
	var resp R
	if p.build == nil {
		return resp, fmt.Errorf("crud: create is not supported for this service")
	}

	err := p.uow.Do(ctx, func(ctx context.Context) error {
		entity, err := p.build(req)
		if err != nil {
			return err
		}
		if err := p.repo.Insert(ctx, entity); err != nil {
			return err
		}
		if p.hooks.BeforeInsert != nil {
			if err := p.hooks.BeforeInsert(ctx, entity, req); err != nil {
				return err
			}
		}
		resp = p.toResponse(entity)
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return resp, nil
}

// Update applies the request onto the stored entity. A missing id yields
// (nil, nil): the caller decides how to report absence.
func (p *Pipeline[E, R, S, C, U]) Update(ctx context.Context, id uuid.UUID, req U) (*R, error) {
	if p.apply == nil {
		return nil, fmt.Errorf("crud: update is not supported for this service")
	}

	var resp *R
	err := p.uow.Do(ctx, func(ctx context.Context) error {
		entity, err := p.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entity == nil {
			return nil
		}
		if p.hooks.BeforeUpdate != nil {
			if err := p.hooks.BeforeUpdate(ctx, entity, req); err != nil {
				return err
			}
		}
		p.apply(entity, req)
		if err := p.repo.Save(ctx, entity); err != nil {
			return err
		}
		r := p.toResponse(entity)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Delete removes the entity. Returns false when the id does not exist.
func (p *Pipeline[E, R, S, C, U]) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := p.uow.Do(ctx, func(ctx context.Context) error {
		entity, err := p.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if entity == nil {
			return nil
		}
		if p.hooks.BeforeDelete != nil {
			if err := p.hooks.BeforeDelete(ctx, entity); err != nil {
				return err
			}
		}
		if err := p.repo.Remove(ctx, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Get runs the filtered, paginated query and maps every row. The total count,
// when requested, is computed against the filtered but unpaginated query.
func (p *Pipeline[E, R, S, C, U]) Get(ctx context.Context, search S) (Result[R], error) {
	var res Result[R]
	opts := search.Options()

	if opts.IncludeTotalCount {
		total, err := p.repo.Count(ctx, search)
		if err != nil {
			return res, err
		}
		res.TotalCount = &total
	}

	limit, offset := opts.Limits()
	entities, err := p.repo.List(ctx, search, limit, offset)
	if err != nil {
		return res, err
	}

	res.Items = make([]R, len(entities))
	for i, e := range entities {
		res.Items[i] = p.toResponse(e)
	}
	return res, nil
}

// GetByID looks the entity up and maps it, or returns (nil, nil) when absent.
func (p *Pipeline[E, R, S, C, U]) GetByID(ctx context.Context, id uuid.UUID) (*R, error) {
	entity, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, nil
	}
	r := p.toResponse(entity)
	return &r, nil
}
