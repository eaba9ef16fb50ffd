package service

import (
	"context"
	"fmt"

	otelx "github.com/turnolink/turnolink/internal/adapter/otel"
	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/media"
	"github.com/turnolink/turnolink/internal/domain/product"
	"github.com/turnolink/turnolink/internal/port/database"
	"github.com/turnolink/turnolink/internal/port/messagequeue"
)

// ProductService manages a tenant's product catalog.
type ProductService struct {
	store database.Store
	mx    mutator
}

// NewProductService creates a new ProductService.
func NewProductService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *ProductService {
	return &ProductService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

func (s *ProductService) List(ctx context.Context, tenantID string) ([]product.Product, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListProducts(ctx, tenantID)
}

func (s *ProductService) Get(ctx context.Context, tenantID, id string) (*product.Product, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetProduct(ctx, tenantID, id)
}

func (s *ProductService) Create(ctx context.Context, tenantID string, req *product.CreateRequest) (*product.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntityProduct, tenantID,
		func(ctx context.Context) (*product.Product, error) {
			return s.store.CreateProduct(ctx, tenantID, req)
		},
		func(p *product.Product) string { return p.ID },
	)
}

func (s *ProductService) Update(ctx context.Context, tenantID, id string, req *product.UpdateRequest) (*product.Product, error) {
	return mutateOwned(ctx, &s.mx, ownedMutation[product.Product]{
		entity:   messagequeue.EntityProduct,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*product.Product, error) {
			return s.store.LockProduct(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, p *product.Product) error {
			if err := req.Apply(p); err != nil {
				return err
			}
			return s.store.UpdateProduct(ctx, p)
		},
	})
}

// Delete removes product id unless a booking still references it.
func (s *ProductService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[product.Product]{
		entity:   messagequeue.EntityProduct,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*product.Product, error) {
			return s.store.LockProduct(ctx, tenantID, id)
		},
		check: func(ctx context.Context, p *product.Product) error {
			n, err := s.store.CountProductBookings(ctx, tenantID, p.ID)
			if err != nil {
				return fmt.Errorf("count bookings: %w", err)
			}
			if n > 0 {
				return domain.BusinessRule("cannot delete product referenced by bookings")
			}
			return nil
		},
		apply: func(ctx context.Context, p *product.Product) error {
			return s.store.DeleteProduct(ctx, tenantID, p.ID)
		},
	})
	return err
}

// MediaService manages upload metadata of a tenant. The files themselves
// live in external storage.
type MediaService struct {
	store database.Store
	mx    mutator
}

// NewMediaService creates a new MediaService.
func NewMediaService(store database.Store, events *EventPublisher, metrics *otelx.Metrics) *MediaService {
	return &MediaService{store: store, mx: mutator{uow: store, events: events, metrics: metrics}}
}

func (s *MediaService) List(ctx context.Context, tenantID string) ([]media.Asset, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.ListMedia(ctx, tenantID)
}

func (s *MediaService) Get(ctx context.Context, tenantID, id string) (*media.Asset, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.GetMedia(ctx, tenantID, id)
}

func (s *MediaService) Create(ctx context.Context, tenantID string, req *media.CreateRequest) (*media.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return createOwned(ctx, &s.mx, messagequeue.EntityMedia, tenantID,
		func(ctx context.Context) (*media.Asset, error) {
			return s.store.CreateMedia(ctx, tenantID, req)
		},
		func(a *media.Asset) string { return a.ID },
	)
}

func (s *MediaService) Update(ctx context.Context, tenantID, id string, req *media.UpdateRequest) (*media.Asset, error) {
	return mutateOwned(ctx, &s.mx, ownedMutation[media.Asset]{
		entity:   messagequeue.EntityMedia,
		op:       messagequeue.OpUpdated,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*media.Asset, error) {
			return s.store.LockMedia(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, a *media.Asset) error {
			if err := req.Apply(a); err != nil {
				return err
			}
			return s.store.UpdateMedia(ctx, a)
		},
	})
}

func (s *MediaService) Delete(ctx context.Context, tenantID, id string) error {
	_, err := mutateOwned(ctx, &s.mx, ownedMutation[media.Asset]{
		entity:   messagequeue.EntityMedia,
		op:       messagequeue.OpDeleted,
		tenantID: tenantID,
		id:       id,
		lock: func(ctx context.Context) (*media.Asset, error) {
			return s.store.LockMedia(ctx, tenantID, id)
		},
		apply: func(ctx context.Context, a *media.Asset) error {
			return s.store.DeleteMedia(ctx, tenantID, a.ID)
		},
	})
	return err
}
