package service

import (
	"context"
	"errors"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/turnolink/turnolink/internal/domain"
	"github.com/turnolink/turnolink/internal/domain/blockeddate"
	"github.com/turnolink/turnolink/internal/domain/booking"
	"github.com/turnolink/turnolink/internal/domain/customer"
	"github.com/turnolink/turnolink/internal/domain/media"
	"github.com/turnolink/turnolink/internal/domain/product"
	"github.com/turnolink/turnolink/internal/domain/schedule"
	"github.com/turnolink/turnolink/internal/domain/tenant"
	"github.com/turnolink/turnolink/internal/domain/user"
	"github.com/turnolink/turnolink/internal/port/database"
)

var _ database.Store = (*mockStore)(nil)

var errLockOutsideTx = errors.New("row lock requires a transaction")

type mockTxKey struct{}

// mockStore is an in-memory database.Store. InTx snapshots every table and
// restores the snapshot when the closure fails or panics, so tests observe
// the same all-or-nothing behaviour as the Postgres store.
type mockStore struct {
	txMu sync.Mutex // serializes transactions, standing in for row locks
	mu   sync.Mutex

	tenants   map[string]tenant.Tenant
	users     map[string]user.User
	customers map[string]customer.Customer
	bookings  map[string]booking.Booking
	schedules map[string]schedule.Schedule
	blocked   map[string]blockeddate.BlockedDate
	media     map[string]media.Asset
	products  map[string]product.Product

	txCount        int
	rollbacks      int
	getTenantCalls int

	// Error hooks, set these to inject failures.
	getTenantErr      error
	updateCustomerErr error
	deleteCustomerErr error
}

func newMockStore() *mockStore {
	return &mockStore{
		tenants:   map[string]tenant.Tenant{},
		users:     map[string]user.User{},
		customers: map[string]customer.Customer{},
		bookings:  map[string]booking.Booking{},
		schedules: map[string]schedule.Schedule{},
		blocked:   map[string]blockeddate.BlockedDate{},
		media:     map[string]media.Asset{},
		products:  map[string]product.Product{},
	}
}

type mockSnapshot struct {
	tenants   map[string]tenant.Tenant
	users     map[string]user.User
	customers map[string]customer.Customer
	bookings  map[string]booking.Booking
	schedules map[string]schedule.Schedule
	blocked   map[string]blockeddate.BlockedDate
	media     map[string]media.Asset
	products  map[string]product.Product
}

func (m *mockStore) snapshot() mockSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return mockSnapshot{
		tenants:   maps.Clone(m.tenants),
		users:     maps.Clone(m.users),
		customers: maps.Clone(m.customers),
		bookings:  maps.Clone(m.bookings),
		schedules: maps.Clone(m.schedules),
		blocked:   maps.Clone(m.blocked),
		media:     maps.Clone(m.media),
		products:  maps.Clone(m.products),
	}
}

func (m *mockStore) restore(s mockSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants, m.users = s.tenants, s.users
	m.customers, m.bookings = s.customers, s.bookings
	m.schedules, m.blocked = s.schedules, s.blocked
	m.media, m.products = s.media, s.products
	m.rollbacks++
}

func inMockTx(ctx context.Context) bool {
	return ctx.Value(mockTxKey{}) != nil
}

func (m *mockStore) InTx(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	if inMockTx(ctx) {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	m.txCount++
	m.mu.Unlock()

	snap := m.snapshot()
	defer func() {
		if p := recover(); p != nil {
			m.restore(snap)
			panic(p)
		}
	}()
	if err := fn(context.WithValue(ctx, mockTxKey{}, true)); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// --- generic table helpers ---

func tableGet[T any](mu *sync.Mutex, tbl map[string]T, tenantOf func(*T) string, tenantID, id string) (*T, error) {
	mu.Lock()
	defer mu.Unlock()
	v, ok := tbl[id]
	if !ok || tenantOf(&v) != tenantID {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func tableList[T any](mu *sync.Mutex, tbl map[string]T, tenantOf func(*T) string, tenantID string) []T {
	mu.Lock()
	defer mu.Unlock()
	out := []T{}
	for _, v := range tbl {
		if tenantOf(&v) == tenantID {
			out = append(out, v)
		}
	}
	return out
}

func tablePut[T any](mu *sync.Mutex, tbl map[string]T, tenantOf func(*T) string, v *T, id string) error {
	mu.Lock()
	defer mu.Unlock()
	cur, ok := tbl[id]
	if !ok || tenantOf(&cur) != tenantOf(v) {
		return domain.ErrNotFound
	}
	tbl[id] = *v
	return nil
}

func tableDelete[T any](mu *sync.Mutex, tbl map[string]T, tenantOf func(*T) string, tenantID, id string) error {
	mu.Lock()
	defer mu.Unlock()
	v, ok := tbl[id]
	if !ok || tenantOf(&v) != tenantID {
		return domain.ErrNotFound
	}
	delete(tbl, id)
	return nil
}

func (m *mockStore) requireTenantRow(tenantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[tenantID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func customerTenant(c *customer.Customer) string      { return c.TenantID }
func bookingTenant(b *booking.Booking) string         { return b.TenantID }
func scheduleTenant(s *schedule.Schedule) string      { return s.TenantID }
func blockedTenant(b *blockeddate.BlockedDate) string { return b.TenantID }
func mediaTenant(a *media.Asset) string               { return a.TenantID }
func productTenant(p *product.Product) string         { return p.TenantID }

// --- tenants ---

func (m *mockStore) ListTenants(_ context.Context) ([]tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slicesOf(m.tenants), nil
}

func (m *mockStore) GetTenant(_ context.Context, id string) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getTenantCalls++
	if m.getTenantErr != nil {
		return nil, m.getTenantErr
	}
	t, ok := m.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *mockStore) LockTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetTenant(ctx, id)
}

func (m *mockStore) CreateTenant(_ context.Context, req *tenant.CreateRequest) (*tenant.Tenant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tenants {
		if t.Slug == req.Slug {
			return nil, domain.ErrConflict
		}
	}
	now := time.Now()
	t := tenant.Tenant{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Slug:      req.Slug,
		Status:    tenant.StatusActive,
		Settings:  req.Settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tenants[t.ID] = t
	return &t, nil
}

func (m *mockStore) UpdateTenant(_ context.Context, t *tenant.Tenant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[t.ID]; !ok {
		return domain.ErrNotFound
	}
	t.UpdatedAt = time.Now()
	m.tenants[t.ID] = *t
	return nil
}

// DeleteTenant cascades to owned rows and detaches users, like the schema.
func (m *mockStore) DeleteTenant(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenants[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tenants, id)
	for k, u := range m.users {
		if u.TenantID == id {
			u.TenantID = ""
			m.users[k] = u
		}
	}
	maps.DeleteFunc(m.customers, func(_ string, v customer.Customer) bool { return v.TenantID == id })
	maps.DeleteFunc(m.bookings, func(_ string, v booking.Booking) bool { return v.TenantID == id })
	maps.DeleteFunc(m.schedules, func(_ string, v schedule.Schedule) bool { return v.TenantID == id })
	maps.DeleteFunc(m.blocked, func(_ string, v blockeddate.BlockedDate) bool { return v.TenantID == id })
	maps.DeleteFunc(m.media, func(_ string, v media.Asset) bool { return v.TenantID == id })
	maps.DeleteFunc(m.products, func(_ string, v product.Product) bool { return v.TenantID == id })
	return nil
}

func slicesOf[T any](tbl map[string]T) []T {
	out := make([]T, 0, len(tbl))
	for _, v := range tbl {
		out = append(out, v)
	}
	return out
}

// --- users ---

func (m *mockStore) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == strings.ToLower(u.Email) {
			return domain.ErrConflict
		}
	}
	if u.TenantID != "" {
		if _, ok := m.tenants[u.TenantID]; !ok {
			return domain.ErrNotFound
		}
	}
	u.ID = uuid.NewString()
	u.Email = strings.ToLower(u.Email)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = *u
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStore) ListUsers(_ context.Context, tenantID string) ([]user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []user.User{}
	for _, u := range m.users {
		if u.TenantID == tenantID {
			out = append(out, u)
		}
	}
	return out, nil
}

// --- customers ---

func (m *mockStore) ListCustomers(_ context.Context, tenantID string) ([]customer.Customer, error) {
	return tableList(&m.mu, m.customers, customerTenant, tenantID), nil
}

func (m *mockStore) GetCustomer(_ context.Context, tenantID, id string) (*customer.Customer, error) {
	return tableGet(&m.mu, m.customers, customerTenant, tenantID, id)
}

func (m *mockStore) LockCustomer(ctx context.Context, tenantID, id string) (*customer.Customer, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetCustomer(ctx, tenantID, id)
}

func (m *mockStore) CreateCustomer(_ context.Context, tenantID string, req *customer.CreateRequest) (*customer.Customer, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	now := time.Now()
	c := customer.Customer{
		ID: uuid.NewString(), TenantID: tenantID,
		Name: req.Name, Phone: req.Phone, Email: req.Email, Notes: req.Notes,
		CreatedAt: now, UpdatedAt: now,
	}
	m.mu.Lock()
	m.customers[c.ID] = c
	m.mu.Unlock()
	return &c, nil
}

func (m *mockStore) UpdateCustomer(_ context.Context, c *customer.Customer) error {
	if m.updateCustomerErr != nil {
		return m.updateCustomerErr
	}
	c.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.customers, customerTenant, c, c.ID)
}

func (m *mockStore) DeleteCustomer(_ context.Context, tenantID, id string) error {
	if m.deleteCustomerErr != nil {
		return m.deleteCustomerErr
	}
	return tableDelete(&m.mu, m.customers, customerTenant, tenantID, id)
}

func (m *mockStore) CountCustomerBookings(_ context.Context, tenantID, customerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.TenantID == tenantID && b.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

// --- bookings ---

func (m *mockStore) ListBookings(_ context.Context, tenantID string) ([]booking.Booking, error) {
	return tableList(&m.mu, m.bookings, bookingTenant, tenantID), nil
}

func (m *mockStore) GetBooking(_ context.Context, tenantID, id string) (*booking.Booking, error) {
	return tableGet(&m.mu, m.bookings, bookingTenant, tenantID, id)
}

func (m *mockStore) LockBooking(ctx context.Context, tenantID, id string) (*booking.Booking, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetBooking(ctx, tenantID, id)
}

func (m *mockStore) CreateBooking(_ context.Context, tenantID string, req *booking.CreateRequest) (*booking.Booking, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	now := time.Now()
	b := booking.Booking{
		ID: uuid.NewString(), TenantID: tenantID,
		CustomerID: req.CustomerID, ProductID: req.ProductID, ServiceName: req.ServiceName,
		StartsAt: req.StartsAt, EndsAt: req.EndsAt, Status: booking.StatusPending, Notes: req.Notes,
		CreatedAt: now, UpdatedAt: now,
	}
	m.mu.Lock()
	m.bookings[b.ID] = b
	m.mu.Unlock()
	return &b, nil
}

func (m *mockStore) UpdateBooking(_ context.Context, b *booking.Booking) error {
	b.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.bookings, bookingTenant, b, b.ID)
}

func (m *mockStore) DeleteBooking(_ context.Context, tenantID, id string) error {
	return tableDelete(&m.mu, m.bookings, bookingTenant, tenantID, id)
}

// --- schedules ---

func (m *mockStore) ListSchedules(_ context.Context, tenantID string) ([]schedule.Schedule, error) {
	return tableList(&m.mu, m.schedules, scheduleTenant, tenantID), nil
}

func (m *mockStore) GetSchedule(_ context.Context, tenantID, id string) (*schedule.Schedule, error) {
	return tableGet(&m.mu, m.schedules, scheduleTenant, tenantID, id)
}

func (m *mockStore) LockSchedule(ctx context.Context, tenantID, id string) (*schedule.Schedule, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetSchedule(ctx, tenantID, id)
}

func (m *mockStore) CreateSchedule(_ context.Context, tenantID string, req *schedule.CreateRequest) (*schedule.Schedule, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	now := time.Now()
	s := schedule.Schedule{
		ID: uuid.NewString(), TenantID: tenantID,
		DayOfWeek: req.DayOfWeek, OpenTime: req.OpenTime, CloseTime: req.CloseTime, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	m.mu.Lock()
	m.schedules[s.ID] = s
	m.mu.Unlock()
	return &s, nil
}

func (m *mockStore) UpdateSchedule(_ context.Context, s *schedule.Schedule) error {
	s.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.schedules, scheduleTenant, s, s.ID)
}

func (m *mockStore) DeleteSchedule(_ context.Context, tenantID, id string) error {
	return tableDelete(&m.mu, m.schedules, scheduleTenant, tenantID, id)
}

// --- blocked dates ---

func (m *mockStore) ListBlockedDates(_ context.Context, tenantID string) ([]blockeddate.BlockedDate, error) {
	return tableList(&m.mu, m.blocked, blockedTenant, tenantID), nil
}

func (m *mockStore) GetBlockedDate(_ context.Context, tenantID, id string) (*blockeddate.BlockedDate, error) {
	return tableGet(&m.mu, m.blocked, blockedTenant, tenantID, id)
}

func (m *mockStore) LockBlockedDate(ctx context.Context, tenantID, id string) (*blockeddate.BlockedDate, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetBlockedDate(ctx, tenantID, id)
}

func (m *mockStore) CreateBlockedDate(_ context.Context, tenantID string, req *blockeddate.CreateRequest) (*blockeddate.BlockedDate, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blocked {
		if b.TenantID == tenantID && b.Date == req.Date {
			return nil, domain.ErrConflict
		}
	}
	now := time.Now()
	b := blockeddate.BlockedDate{
		ID: uuid.NewString(), TenantID: tenantID, Date: req.Date, Reason: req.Reason,
		CreatedAt: now, UpdatedAt: now,
	}
	m.blocked[b.ID] = b
	return &b, nil
}

func (m *mockStore) UpdateBlockedDate(_ context.Context, b *blockeddate.BlockedDate) error {
	b.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.blocked, blockedTenant, b, b.ID)
}

func (m *mockStore) DeleteBlockedDate(_ context.Context, tenantID, id string) error {
	return tableDelete(&m.mu, m.blocked, blockedTenant, tenantID, id)
}

// --- media ---

func (m *mockStore) ListMedia(_ context.Context, tenantID string) ([]media.Asset, error) {
	return tableList(&m.mu, m.media, mediaTenant, tenantID), nil
}

func (m *mockStore) GetMedia(_ context.Context, tenantID, id string) (*media.Asset, error) {
	return tableGet(&m.mu, m.media, mediaTenant, tenantID, id)
}

func (m *mockStore) LockMedia(ctx context.Context, tenantID, id string) (*media.Asset, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetMedia(ctx, tenantID, id)
}

func (m *mockStore) CreateMedia(_ context.Context, tenantID string, req *media.CreateRequest) (*media.Asset, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	now := time.Now()
	a := media.Asset{
		ID: uuid.NewString(), TenantID: tenantID,
		URL: req.URL, Filename: req.Filename, ContentType: req.ContentType, SizeBytes: req.SizeBytes, Alt: req.Alt,
		CreatedAt: now, UpdatedAt: now,
	}
	m.mu.Lock()
	m.media[a.ID] = a
	m.mu.Unlock()
	return &a, nil
}

func (m *mockStore) UpdateMedia(_ context.Context, a *media.Asset) error {
	a.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.media, mediaTenant, a, a.ID)
}

func (m *mockStore) DeleteMedia(_ context.Context, tenantID, id string) error {
	return tableDelete(&m.mu, m.media, mediaTenant, tenantID, id)
}

// --- products ---

func (m *mockStore) ListProducts(_ context.Context, tenantID string) ([]product.Product, error) {
	return tableList(&m.mu, m.products, productTenant, tenantID), nil
}

func (m *mockStore) GetProduct(_ context.Context, tenantID, id string) (*product.Product, error) {
	return tableGet(&m.mu, m.products, productTenant, tenantID, id)
}

func (m *mockStore) LockProduct(ctx context.Context, tenantID, id string) (*product.Product, error) {
	if !inMockTx(ctx) {
		return nil, errLockOutsideTx
	}
	return m.GetProduct(ctx, tenantID, id)
}

func (m *mockStore) CreateProduct(_ context.Context, tenantID string, req *product.CreateRequest) (*product.Product, error) {
	if err := m.requireTenantRow(tenantID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := product.Product{
		ID: uuid.NewString(), TenantID: tenantID,
		Name: req.Name, Description: req.Description, PriceCents: req.PriceCents, Stock: req.Stock, Active: true,
		CreatedAt: now, UpdatedAt: now,
	}
	m.mu.Lock()
	m.products[p.ID] = p
	m.mu.Unlock()
	return &p, nil
}

func (m *mockStore) UpdateProduct(_ context.Context, p *product.Product) error {
	p.UpdatedAt = time.Now()
	return tablePut(&m.mu, m.products, productTenant, p, p.ID)
}

func (m *mockStore) DeleteProduct(_ context.Context, tenantID, id string) error {
	return tableDelete(&m.mu, m.products, productTenant, tenantID, id)
}

func (m *mockStore) CountProductBookings(_ context.Context, tenantID, productID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.TenantID == tenantID && b.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// --- fixtures ---

func (m *mockStore) seedTenant(name, slug string, status tenant.Status) *tenant.Tenant {
	t, err := m.CreateTenant(context.Background(), &tenant.CreateRequest{Name: name, Slug: slug})
	if err != nil {
		panic(err)
	}
	if status != tenant.StatusActive {
		t.Status = status
		m.mu.Lock()
		m.tenants[t.ID] = *t
		m.mu.Unlock()
	}
	return t
}

func (m *mockStore) seedCustomer(tenantID, name string) *customer.Customer {
	c, err := m.CreateCustomer(context.Background(), tenantID, &customer.CreateRequest{Name: name, Phone: "555-0100"})
	if err != nil {
		panic(err)
	}
	return c
}

func (m *mockStore) seedBooking(tenantID, customerID, productID string) *booking.Booking {
	start := time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC)
	b, err := m.CreateBooking(context.Background(), tenantID, &booking.CreateRequest{
		CustomerID:  customerID,
		ProductID:   productID,
		ServiceName: "Haircut",
		StartsAt:    start,
		EndsAt:      start.Add(30 * time.Minute),
	})
	if err != nil {
		panic(err)
	}
	return b
}

func (m *mockStore) customerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.customers)
}
