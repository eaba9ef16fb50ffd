// Package database defines the database store port (interface).
package database

import (
	"context"

	"github.com/turnolink/turnolink/internal/domain/blockeddate"
	"github.com/turnolink/turnolink/internal/domain/booking"
	"github.com/turnolink/turnolink/internal/domain/customer"
	"github.com/turnolink/turnolink/internal/domain/media"
	"github.com/turnolink/turnolink/internal/domain/product"
	"github.com/turnolink/turnolink/internal/domain/schedule"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/domain/user"
)

// UnitOfWork runs fn inside a single storage transaction. The transaction
// commits only when fn returns nil; any error or panic rolls it back before
// InTx returns. Store calls made with the context passed to fn join the
// transaction. tenantID scopes the transaction for row-level security and
// may be empty for platform-wide work.
type UnitOfWork interface {
	InTx(ctx context.Context, tenantID string, fn func(ctx context.Context) error) error
}

// Store is the port interface for database operations.
//
// Every method that takes a tenantID filters on it; an entity owned by a
// different tenant is reported as domain.ErrNotFound. Lock* methods take a
// row lock and must be called inside InTx.
type Store interface {
	UnitOfWork

	// Tenants (platform scope)
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	LockTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	CreateTenant(ctx context.Context, req *tenant.CreateRequest) (*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, t *tenant.Tenant) error
	DeleteTenant(ctx context.Context, id string) error

	// Users
	CreateUser(ctx context.Context, u *user.User) error
	GetUser(ctx context.Context, id string) (*user.User, error)
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
	ListUsers(ctx context.Context, tenantID string) ([]user.User, error)

	// Customers
	ListCustomers(ctx context.Context, tenantID string) ([]customer.Customer, error)
	GetCustomer(ctx context.Context, tenantID, id string) (*customer.Customer, error)
	LockCustomer(ctx context.Context, tenantID, id string) (*customer.Customer, error)
	CreateCustomer(ctx context.Context, tenantID string, req *customer.CreateRequest) (*customer.Customer, error)
	UpdateCustomer(ctx context.Context, c *customer.Customer) error
	DeleteCustomer(ctx context.Context, tenantID, id string) error
	CountCustomerBookings(ctx context.Context, tenantID, customerID string) (int, error)

	// Bookings
	ListBookings(ctx context.Context, tenantID string) ([]booking.Booking, error)
	GetBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error)
	LockBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error)
	CreateBooking(ctx context.Context, tenantID string, req *booking.CreateRequest) (*booking.Booking, error)
	UpdateBooking(ctx context.Context, b *booking.Booking) error
	DeleteBooking(ctx context.Context, tenantID, id string) error

	// Schedules
	ListSchedules(ctx context.Context, tenantID string) ([]schedule.Schedule, error)
	GetSchedule(ctx context.Context, tenantID, id string) (*schedule.Schedule, error)
	LockSchedule(ctx context.Context, tenantID, id string) (*schedule.Schedule, error)
	CreateSchedule(ctx context.Context, tenantID string, req *schedule.CreateRequest) (*schedule.Schedule, error)
	UpdateSchedule(ctx context.Context, s *schedule.Schedule) error
	DeleteSchedule(ctx context.Context, tenantID, id string) error

	// Blocked dates
	ListBlockedDates(ctx context.Context, tenantID string) ([]blockeddate.BlockedDate, error)
	GetBlockedDate(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error)
	LockBlockedDate(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error)
	CreateBlockedDate(ctx context.Context, tenantID string, req *blockeddate.CreateRequest) (*blockeddate.BlockedDate, error)
	UpdateBlockedDate(ctx context.Context, b *blockeddate.BlockedDate) error
	DeleteBlockedDate(ctx context.Context, tenantID, id string) error

	// Media assets
	ListMedia(ctx context.Context, tenantID string) ([]media.Asset, error)
	GetMedia(ctx context.Context, tenantID, id string) (*media.Asset, error)
	LockMedia(ctx context.Context, tenantID, id string) (*media.Asset, error)
	CreateMedia(ctx context.Context, tenantID string, req *media.CreateRequest) (*media.Asset, error)
	UpdateMedia(ctx context.Context, a *media.Asset) error
	DeleteMedia(ctx context.Context, tenantID, id string) error

	// Products
	ListProducts(ctx context.Context, tenantID string) ([]product.Product, error)
	GetProduct(ctx context.Context, tenantID, id string) (*product.Product, error)
	LockProduct(ctx context.Context, tenantID, id string) (*product.Product, error)
	CreateProduct(ctx context.Context, tenantID string, req *product.CreateRequest) (*product.Product, error)
	UpdateProduct(ctx context.Context, p *product.Product) error
	DeleteProduct(ctx context.Context, tenantID, id string) error
	CountProductBookings(ctx context.Context, tenantID, productID string) (int, error)
}
