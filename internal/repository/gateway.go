package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/todo-list-api/internal/fault"
	"github.com/yukikurage/todo-list-api/internal/models"
	"github.com/yukikurage/todo-list-api/internal/validation"
	"gorm.io/gorm"
)

// Gateway implements create/read/update/delete/list for one entity type. Entity
// repositories embed a Gateway and add their own lookups.
type Gateway[T models.Entity] struct {
	db       *gorm.DB
	notFound *fault.Error
}

// NewGateway creates a Gateway that reports missing rows with notFound.
func NewGateway[T models.Entity](db *gorm.DB, notFound *fault.Error) *Gateway[T] {
	return &Gateway[T]{db: db, notFound: notFound}
}

// WithTx returns the same gateway bound to tx.
func (g *Gateway[T]) WithTx(tx *gorm.DB) *Gateway[T] {
	return &Gateway[T]{db: tx, notFound: g.notFound}
}

// Create validates entity, checks its unique constraints and inserts it.
func (g *Gateway[T]) Create(ctx context.Context, entity *T) error {
	if err := validation.Struct(entity); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := g.checkUnique(db, *entity); err != nil {
		return err
	}

	if err := db.Create(entity).Error; err != nil {
		return g.translate(*entity, err)
	}
	return nil
}

// FindByID returns the entity or the gateway's not found error.
func (g *Gateway[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	var entity T
	if err := g.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, g.notFound
		}
		return nil, err
	}
	return &entity, nil
}

// Update validates entity and writes every column except the primary key and
// creation time. Callers load the entity before updating it.
func (g *Gateway[T]) Update(ctx context.Context, entity *T) error {
	if err := validation.Struct(entity); err != nil {
		return err
	}

	db := g.db.WithContext(ctx)
	if err := g.checkUnique(db, *entity); err != nil {
		return err
	}

	if err := db.Model(entity).Select("*").Omit("ID", "CreatedAt").Updates(entity).Error; err != nil {
		return g.translate(*entity, err)
	}
	return nil
}

// Delete removes the row and returns it as it was before deletion.
func (g *Gateway[T]) Delete(ctx context.Context, id uint64) (*T, error) {
	entity, err := g.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := g.db.WithContext(ctx).Delete(new(T), id).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

// List returns all rows matching scopes in insertion order.
func (g *Gateway[T]) List(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	entities := []T{}
	if err := g.db.WithContext(ctx).Scopes(scopes...).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

func (g *Gateway[T]) checkUnique(db *gorm.DB, entity T) error {
	for _, c := range entity.UniqueConstraints() {
		query := db.Model(new(T)).Where(c.Columns)
		if id := entity.PrimaryKey(); id != 0 {
			query = query.Where("id <> ?", id)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if count > 0 {
			return fault.Conflict(c.Message)
		}
	}
	return nil
}

// translate maps driver level constraint errors raced past checkUnique.
func (g *Gateway[T]) translate(entity T, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		if constraints := entity.UniqueConstraints(); len(constraints) > 0 {
			return fault.Conflict(constraints[0].Message)
		}
		return fault.Conflict("Resource already exists")
	}
	return err
}
