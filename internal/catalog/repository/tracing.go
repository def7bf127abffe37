package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/stockware/stockroom/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// GormPartRepositoryWithTracing wraps GormPartRepository with tracing
type GormPartRepositoryWithTracing struct {
	*GormPartRepository
}

// NewGormPartRepositoryWithTracing creates a new repository with tracing
func NewGormPartRepositoryWithTracing(db *gorm.DB) *GormPartRepositoryWithTracing {
	return &GormPartRepositoryWithTracing{
		GormPartRepository: NewGormPartRepository(db),
	}
}

// FindByID with tracing
func (r *GormPartRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id uint) (*domain.Part, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.Int("part.id", int(id)),
		),
	)
	defer span.End()

	part, err := r.GormPartRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("part.name", part.Name),
		attribute.String("part.sku", part.SKU),
		attribute.Int("part.qty", part.Qty),
	)
	return part, nil
}

// FindAll with tracing
func (r *GormPartRepositoryWithTracing) FindAllWithContext(ctx context.Context, limit, offset int, search string) ([]domain.Part, int64, error) {
	_, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
			attribute.String("query.search", search),
		),
	)
	defer span.End()

	parts, total, err := r.GormPartRepository.FindAll(limit, offset, search)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int("result.count", len(parts)))
	return parts, total, nil
}

// LowStock with tracing
func (r *GormPartRepositoryWithTracing) LowStockWithContext(ctx context.Context) ([]domain.Part, error) {
	_, span := tracer.Start(ctx, "repository.LowStock")
	defer span.End()

	parts, err := r.GormPartRepository.LowStock()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(parts)))
	return parts, nil
}

// AdjustQty with tracing
func (r *GormPartRepositoryWithTracing) AdjustQtyWithContext(ctx context.Context, partID uint, delta int) error {
	_, span := tracer.Start(ctx, "repository.AdjustQty",
		trace.WithAttributes(
			attribute.Int("part.id", int(partID)),
			attribute.Int("qty.delta", delta),
		),
	)
	defer span.End()

	err := r.GormPartRepository.AdjustQty(partID, delta)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
