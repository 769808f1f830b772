package repository

import (
	"context"
	"errors"

	"salesnexus/internal/apperror"
	"salesnexus/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the generic create/read/update/delete surface shared by all entities.
type Repository[T model.Entity] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindAll(ctx context.Context) ([]T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// store implements Repository for any entity. Associations are never written implicitly.
type store[T model.Entity] struct {
	db    *gorm.DB
	name  string
	scope func(*gorm.DB) *gorm.DB // preloads applied to reads
	order string
	// columns owned by dedicated statements; Update leaves them untouched
	readOnly []string
}

func newStore[T model.Entity](db *gorm.DB, name string, scope func(*gorm.DB) *gorm.DB) store[T] {
	if scope == nil {
		scope = func(db *gorm.DB) *gorm.DB { return db }
	}
	return store[T]{db: db, name: name, scope: scope, order: "created_at DESC"}
}

func (s store[T]) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s store[T]) withDB(db *gorm.DB) store[T] {
	s.db = db
	return s
}

func (s store[T]) Create(ctx context.Context, entity *T) error {
	return apperror.Wrap(s.conn(ctx).Omit(clause.Associations).Create(entity).Error)
}

func (s store[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	if err := s.scope(s.conn(ctx)).First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("%s with ID %s not found", s.name, id)
		}
		return nil, apperror.Persistence(err)
	}
	return &entity, nil
}

func (s store[T]) FindAll(ctx context.Context) ([]T, error) {
	entities := []T{}
	if err := s.scope(s.conn(ctx)).Order(s.order).Find(&entities).Error; err != nil {
		return nil, apperror.Persistence(err)
	}
	return entities, nil
}

// Update writes every column except associations and readOnly ones, so a
// stale copy of the entity cannot roll those back.
func (s store[T]) Update(ctx context.Context, entity *T) error {
	omit := append([]string{clause.Associations}, s.readOnly...)
	return apperror.Wrap(s.conn(ctx).Omit(omit...).Save(entity).Error)
}

func (s store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.conn(ctx).Delete(new(T), "id = ?", id)
	if result.Error != nil {
		return apperror.Persistence(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("%s with ID %s not found", s.name, id)
	}
	return nil
}

func (s store[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(new(T)).Count(&count).Error
	return count, apperror.Wrap(err)
}

// exists reports whether any row of model matches the condition
func exists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Limit(1).Count(&count).Error; err != nil {
		return false, apperror.Persistence(err)
	}
	return count > 0, nil
}
