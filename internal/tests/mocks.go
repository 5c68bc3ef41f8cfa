package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"taxiye/internal/domain"
	"taxiye/internal/geocode"
	"taxiye/internal/repository"
	"taxiye/internal/ws"
)

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Phone == user.Phone {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Phone == phone {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.ReferralCode == code {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

// GetUser returns a user for test assertions.
func (m *MockUserRepository) GetUser(id string) *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.users[id]
}

// ──────────────────────────────────────────────
// MOCK ADDRESS REPOSITORY
// ──────────────────────────────────────────────

// MockAddressRepository is a mock implementation of AddressRepository.
type MockAddressRepository struct {
	mu        sync.RWMutex
	addresses map[string]*domain.SavedAddress

	CreateCallCount int32

	CreateError error
}

// NewMockAddressRepository creates a new mock address repository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{
		addresses: make(map[string]*domain.SavedAddress),
	}
}

func (m *MockAddressRepository) Create(ctx context.Context, addr *domain.SavedAddress) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *addr
	m.addresses[addr.ID] = &copy
	return nil
}

func (m *MockAddressRepository) GetByID(ctx context.Context, id string) (*domain.SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	addr, ok := m.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *addr
	return &copy, nil
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID string) ([]*domain.SavedAddress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.SavedAddress, 0)
	for _, a := range m.addresses {
		if a.UserID == userID {
			copy := *a
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockAddressRepository) Delete(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	addr, ok := m.addresses[id]
	if !ok || addr.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK TRIP REPOSITORY
// ──────────────────────────────────────────────

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips []*domain.Trip

	CreateCallCount int32

	CreateError error
}

// NewMockTripRepository creates a new mock trip repository.
func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{}
}

func (m *MockTripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *trip
	// Newest first, matching the postgres ORDER BY.
	m.trips = append([]*domain.Trip{&copy}, m.trips...)
	return nil
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.trips {
		if t.ID == id {
			copy := *t
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockTripRepository) ListByRider(ctx context.Context, riderID string, limit int) ([]*domain.Trip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, 0)
	for _, t := range m.trips {
		if t.RiderID != riderID {
			continue
		}
		copy := *t
		result = append(result, &copy)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Trips returns the recorded trips for test assertions.
func (m *MockTripRepository) Trips() []*domain.Trip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Trip, len(m.trips))
	copy(result, m.trips)
	return result
}

// ──────────────────────────────────────────────
// MOCK WALLET REPOSITORY
// ──────────────────────────────────────────────

// MockWalletRepository is a mock implementation of WalletRepository.
type MockWalletRepository struct {
	mu           sync.RWMutex
	balances     map[string]float64
	transactions []*domain.Transaction

	CreditCallCount int32
	DebitCallCount  int32

	CreditError error
	DebitError  error
}

// NewMockWalletRepository creates a new mock wallet repository.
func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		balances: make(map[string]float64),
	}
}

// SetBalance seeds a wallet balance.
func (m *MockWalletRepository) SetBalance(userID string, balance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] = balance
}

func (m *MockWalletRepository) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[userID]
	if !ok {
		m.balances[userID] = 0
	}
	return &domain.Wallet{UserID: userID, Balance: balance, UpdatedAt: time.Now()}, nil
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID string, amount float64) error {
	atomic.AddInt32(&m.CreditCallCount, 1)
	if m.CreditError != nil {
		return m.CreditError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return nil
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID string, amount float64) error {
	atomic.AddInt32(&m.DebitCallCount, 1)
	if m.DebitError != nil {
		return m.DebitError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return repository.ErrInsufficientFunds
	}
	m.balances[userID] -= amount
	return nil
}

func (m *MockWalletRepository) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *tx
	m.transactions = append([]*domain.Transaction{&copy}, m.transactions...)
	return nil
}

func (m *MockWalletRepository) UpdateTransactionStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range m.transactions {
		if tx.ID == id {
			tx.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *MockWalletRepository) GetTransactionByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, tx := range m.transactions {
		if tx.IdempotencyKey == key {
			copy := *tx
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockWalletRepository) ListTransactions(ctx context.Context, userID string, limit int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, 0)
	for _, tx := range m.transactions {
		if tx.UserID != userID {
			continue
		}
		copy := *tx
		result = append(result, &copy)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Balance returns the current balance for test assertions.
func (m *MockWalletRepository) Balance(userID string) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[userID]
}

// Transactions returns the ledger for test assertions, newest first.
func (m *MockWalletRepository) Transactions() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Transaction, len(m.transactions))
	copy(result, m.transactions)
	return result
}

// ──────────────────────────────────────────────
// MOCK COUPON REPOSITORY
// ──────────────────────────────────────────────

// MockCouponRepository is a mock implementation of CouponRepository.
type MockCouponRepository struct {
	mu      sync.RWMutex
	coupons map[string]*domain.Coupon

	IncrementUsesCallCount int32

	IncrementUsesError error
}

// NewMockCouponRepository creates a new mock coupon repository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[string]*domain.Coupon),
	}
}

// AddCoupon adds a coupon to the mock repository.
func (m *MockCouponRepository) AddCoupon(coupon *domain.Coupon) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.coupons[coupon.Code] = coupon
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.coupons[coupon.Code]; ok {
		return repository.ErrDuplicate
	}
	copy := *coupon
	m.coupons[coupon.Code] = &copy
	return nil
}

func (m *MockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coupon, ok := m.coupons[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *coupon
	return &copy, nil
}

func (m *MockCouponRepository) IncrementUses(ctx context.Context, code string) error {
	atomic.AddInt32(&m.IncrementUsesCallCount, 1)
	if m.IncrementUsesError != nil {
		return m.IncrementUsesError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	coupon, ok := m.coupons[code]
	if !ok {
		return repository.ErrNotFound
	}
	if coupon.MaxUses > 0 && coupon.Uses >= coupon.MaxUses {
		return repository.ErrNotFound
	}
	coupon.Uses++
	return nil
}

// ──────────────────────────────────────────────
// MOCK RATE LIMITER
// ──────────────────────────────────────────────

// MockRateLimiter is an in-memory fixed-window limiter for tests.
type MockRateLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	limit  int

	AllowError error
}

// NewMockRateLimiter creates a limiter allowing limit calls per key.
func NewMockRateLimiter(limit int) *MockRateLimiter {
	return &MockRateLimiter{counts: make(map[string]int), limit: limit}
}

func (m *MockRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if m.AllowError != nil {
		return false, m.AllowError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key] <= m.limit, nil
}

func (m *MockRateLimiter) Reset(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.counts, key)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PSP
// ──────────────────────────────────────────────

// MockPSP is a payment provider with call counting and error injection.
type MockPSP struct {
	ChargeCallCount int32

	ChargeError error
}

// NewMockPSP creates a new mock payment provider.
func NewMockPSP() *MockPSP {
	return &MockPSP{}
}

func (m *MockPSP) Charge(ctx context.Context, amountBirr float64, customerID string) (string, error) {
	n := atomic.AddInt32(&m.ChargeCallCount, 1)
	if m.ChargeError != nil {
		return "", m.ChargeError
	}
	return fmt.Sprintf("test-charge-%d", n), nil
}

// ──────────────────────────────────────────────
// MOCK GEOCODER
// ──────────────────────────────────────────────

// MockGeocoder resolves queries from a fixed table.
type MockGeocoder struct {
	mu      sync.Mutex
	results map[string]*geocode.Result

	SearchCallCount int32

	SearchError error
}

// NewMockGeocoder creates a new mock geocoder.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{results: make(map[string]*geocode.Result)}
}

// AddResult registers a result for a query.
func (m *MockGeocoder) AddResult(query string, result *geocode.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = result
}

func (m *MockGeocoder) Search(ctx context.Context, query string) (*geocode.Result, error) {
	atomic.AddInt32(&m.SearchCallCount, 1)
	if m.SearchError != nil {
		return nil, m.SearchError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[query]
	if !ok {
		return nil, geocode.ErrUnavailable
	}
	copy := *result
	return &copy, nil
}

// ──────────────────────────────────────────────
// CAPTURE PUBLISHER
// ──────────────────────────────────────────────

// CapturePublisher records progress frames instead of pushing them over a
// socket.
type CapturePublisher struct {
	mu       sync.Mutex
	messages []ws.ProgressMessage
}

// NewCapturePublisher creates a new capture publisher.
func NewCapturePublisher() *CapturePublisher {
	return &CapturePublisher{}
}

func (p *CapturePublisher) Publish(riderID string, msg ws.ProgressMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

// Messages returns the captured frames for test assertions.
func (p *CapturePublisher) Messages() []ws.ProgressMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]ws.ProgressMessage, len(p.messages))
	copy(result, p.messages)
	return result
}
