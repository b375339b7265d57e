package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lumbung/internal/models"

	"gorm.io/gorm"
)

// MemoryStore is a thread-safe in-memory Store. Units of work are
// serialized on a single mutex and rolled back from a snapshot on error.
type MemoryStore struct {
	mu   *sync.RWMutex
	data *memoryData
	inTx bool
	now  func() time.Time
}

type memoryData struct {
	users        map[uint]models.User
	wastes       map[uint]models.Waste
	transactions map[uint]models.Transaction
	emailIndex   map[string]uint
	nextUser     uint
	nextWaste    uint
	nextTx       uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.RWMutex{},
		data: &memoryData{
			users:        make(map[uint]models.User),
			wastes:       make(map[uint]models.Waste),
			transactions: make(map[uint]models.Transaction),
			emailIndex:   make(map[string]uint),
		},
		now: time.Now,
	}
}

func (d *memoryData) clone() *memoryData {
	c := &memoryData{
		users:        make(map[uint]models.User, len(d.users)),
		wastes:       make(map[uint]models.Waste, len(d.wastes)),
		transactions: make(map[uint]models.Transaction, len(d.transactions)),
		emailIndex:   make(map[string]uint, len(d.emailIndex)),
		nextUser:     d.nextUser,
		nextWaste:    d.nextWaste,
		nextTx:       d.nextTx,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.wastes {
		c.wastes[k] = v
	}
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	for k, v := range d.emailIndex {
		c.emailIndex[k] = v
	}
	return c
}

func (s *MemoryStore) read(fn func(d *memoryData)) {
	if !s.inTx {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn(s.data)
}

func (s *MemoryStore) write(fn func(d *memoryData) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.data)
}

func (s *MemoryStore) Users() UserRepository               { return memoryUsers{s} }
func (s *MemoryStore) Wastes() WasteRepository             { return memoryWastes{s} }
func (s *MemoryStore) Transactions() TransactionRepository { return memoryTransactions{s} }

func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }
func (s *MemoryStore) Close() error                   { return nil }

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	return r.s.write(func(d *memoryData) error {
		key := strings.ToLower(user.Email)
		if _, exists := d.emailIndex[key]; exists {
			return ErrEmailTaken
		}
		d.nextUser++
		now := r.s.now()
		user.ID = d.nextUser
		user.CreatedAt, user.UpdatedAt = now, now
		if user.TokenVersion == 0 {
			user.TokenVersion = 1
		}
		d.users[user.ID] = *user
		d.emailIndex[key] = user.ID
		return nil
	})
}

func (r memoryUsers) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var (
		user models.User
		ok   bool
	)
	r.s.read(func(d *memoryData) { user, ok = d.users[id] })
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var (
		user models.User
		ok   bool
	)
	r.s.read(func(d *memoryData) {
		if id, found := d.emailIndex[strings.ToLower(email)]; found {
			user, ok = d.users[id]
		}
	})
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r memoryUsers) UpdateBankDetails(ctx context.Context, id uint, bank models.BankDetails) error {
	return r.s.write(func(d *memoryData) error {
		user, ok := d.users[id]
		if !ok {
			return ErrUserNotFound
		}
		user.BankName = bank.BankName
		user.BankAccount = bank.BankAccount
		user.AccountHolder = bank.AccountHolder
		user.UpdatedAt = r.s.now()
		d.users[id] = user
		return nil
	})
}

func (r memoryUsers) IncrementTokenVersion(ctx context.Context, id uint) error {
	return r.s.write(func(d *memoryData) error {
		user, ok := d.users[id]
		if !ok {
			return ErrUserNotFound
		}
		user.TokenVersion++
		d.users[id] = user
		return nil
	})
}

type memoryWastes struct{ s *MemoryStore }

// live returns a listing that has not been soft-deleted.
func live(d *memoryData, id uint) (models.Waste, bool) {
	w, ok := d.wastes[id]
	if !ok || w.DeletedAt.Valid {
		return models.Waste{}, false
	}
	return w, true
}

func (r memoryWastes) Create(ctx context.Context, waste *models.Waste) error {
	return r.s.write(func(d *memoryData) error {
		d.nextWaste++
		now := r.s.now()
		waste.ID = d.nextWaste
		waste.CreatedAt, waste.UpdatedAt = now, now
		stored := *waste
		stored.Producer = nil
		d.wastes[waste.ID] = stored
		return nil
	})
}

func (r memoryWastes) GetByID(ctx context.Context, id uint) (*models.Waste, error) {
	var (
		waste models.Waste
		ok    bool
	)
	r.s.read(func(d *memoryData) { waste, ok = live(d, id) })
	if !ok {
		return nil, ErrWasteNotFound
	}
	return &waste, nil
}

func (r memoryWastes) list(match func(w models.Waste) bool) []models.Waste {
	var out []models.Waste
	r.s.read(func(d *memoryData) {
		for _, w := range d.wastes {
			if !w.DeletedAt.Valid && match(w) {
				out = append(out, w)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memoryWastes) ListAvailable(ctx context.Context, filter models.WasteFilter) ([]models.Waste, error) {
	q := strings.ToLower(filter.Query)
	return r.list(func(w models.Waste) bool {
		if w.Status != models.WasteStatusAvailable {
			return false
		}
		if filter.Category != "" && w.Category != filter.Category {
			return false
		}
		return q == "" || strings.Contains(strings.ToLower(w.Title), q)
	}), nil
}

func (r memoryWastes) ListByProducer(ctx context.Context, producerID uint) ([]models.Waste, error) {
	return r.list(func(w models.Waste) bool { return w.ProducerID == producerID }), nil
}

func (r memoryWastes) Update(ctx context.Context, waste *models.Waste) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := live(d, waste.ID)
		if !ok || stored.Status != models.WasteStatusAvailable {
			return ErrConflict
		}
		stored.Title = waste.Title
		stored.Category = waste.Category
		stored.Weight = waste.Weight
		stored.Price = waste.Price
		stored.Description = waste.Description
		stored.ImageURL = waste.ImageURL
		stored.Latitude = waste.Latitude
		stored.Longitude = waste.Longitude
		stored.Address = waste.Address
		stored.UpdatedAt = r.s.now()
		d.wastes[waste.ID] = stored
		return nil
	})
}

func (r memoryWastes) Delete(ctx context.Context, id uint) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := live(d, id)
		if !ok || stored.Status != models.WasteStatusAvailable {
			return ErrConflict
		}
		stored.DeletedAt = gorm.DeletedAt{Time: r.s.now(), Valid: true}
		d.wastes[id] = stored
		return nil
	})
}

func (r memoryWastes) TransitionStatus(ctx context.Context, id uint, from, to models.WasteStatus) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := live(d, id)
		if !ok || stored.Status != from {
			return ErrConflict
		}
		stored.Status = to
		stored.UpdatedAt = r.s.now()
		d.wastes[id] = stored
		return nil
	})
}

func (r memoryWastes) Shrink(ctx context.Context, id uint, expectedWeight, weight, price float64) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := live(d, id)
		if !ok || stored.Status != models.WasteStatusAvailable || stored.Weight != expectedWeight {
			return ErrConflict
		}
		stored.Weight = weight
		stored.Price = price
		stored.UpdatedAt = r.s.now()
		d.wastes[id] = stored
		return nil
	})
}

func (r memoryWastes) CountByStatus(ctx context.Context, producerID uint) (map[models.WasteStatus]int64, error) {
	counts := make(map[models.WasteStatus]int64)
	for _, w := range r.list(func(w models.Waste) bool { return w.ProducerID == producerID }) {
		counts[w.Status]++
	}
	return counts, nil
}

func (r memoryWastes) CompletedWeight(ctx context.Context, producerID uint) (float64, error) {
	var total float64
	for _, w := range r.list(func(w models.Waste) bool {
		return w.ProducerID == producerID && w.Status == models.WasteStatusCompleted
	}) {
		total += w.Weight
	}
	return total, nil
}

type memoryTransactions struct{ s *MemoryStore }

func (r memoryTransactions) Create(ctx context.Context, tx *models.Transaction) error {
	return r.s.write(func(d *memoryData) error {
		d.nextTx++
		now := r.s.now()
		tx.ID = d.nextTx
		tx.CreatedAt, tx.UpdatedAt = now, now
		stored := *tx
		stored.Waste, stored.Recycler = nil, nil
		d.transactions[tx.ID] = stored
		return nil
	})
}

// attach fills the relations the gorm repository would preload, including
// soft-deleted listings.
func attach(d *memoryData, tx models.Transaction) models.Transaction {
	if w, ok := d.wastes[tx.WasteID]; ok {
		tx.Waste = &w
	}
	if u, ok := d.users[tx.RecyclerID]; ok {
		tx.Recycler = &u
	}
	return tx
}

func (r memoryTransactions) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var (
		tx models.Transaction
		ok bool
	)
	r.s.read(func(d *memoryData) {
		tx, ok = d.transactions[id]
		if ok {
			tx = attach(d, tx)
		}
	})
	if !ok {
		return nil, ErrTransactionNotFound
	}
	return &tx, nil
}

func (r memoryTransactions) Update(ctx context.Context, tx *models.Transaction, guard TransactionGuard) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := d.transactions[tx.ID]
		if !ok {
			return ErrConflict
		}
		if guard.Status != "" && stored.Status != guard.Status {
			return ErrConflict
		}
		if guard.PaymentStatus != "" && stored.PaymentStatus != guard.PaymentStatus {
			return ErrConflict
		}
		updated := *tx
		updated.WasteID = stored.WasteID
		updated.RecyclerID = stored.RecyclerID
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = r.s.now()
		updated.Waste, updated.Recycler = nil, nil
		d.transactions[tx.ID] = updated
		return nil
	})
}

func (r memoryTransactions) list(match func(d *memoryData, tx models.Transaction) bool) []models.Transaction {
	var out []models.Transaction
	r.s.read(func(d *memoryData) {
		for _, tx := range d.transactions {
			if match(d, tx) {
				out = append(out, attach(d, tx))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memoryTransactions) ListByRecycler(ctx context.Context, recyclerID uint) ([]models.Transaction, error) {
	return r.list(func(_ *memoryData, tx models.Transaction) bool { return tx.RecyclerID == recyclerID }), nil
}

func (r memoryTransactions) ListByProducer(ctx context.Context, producerID uint) ([]models.Transaction, error) {
	return r.list(func(d *memoryData, tx models.Transaction) bool {
		w, ok := d.wastes[tx.WasteID]
		return ok && w.ProducerID == producerID
	}), nil
}

func (r memoryTransactions) ListByWaste(ctx context.Context, wasteID uint) ([]models.Transaction, error) {
	return r.list(func(_ *memoryData, tx models.Transaction) bool { return tx.WasteID == wasteID }), nil
}

func (r memoryTransactions) inScope(scope ImpactScope) func(d *memoryData, tx models.Transaction) bool {
	return func(d *memoryData, tx models.Transaction) bool {
		w, ok := d.wastes[tx.WasteID]
		if !ok {
			return false
		}
		if scope.ProducerID != 0 && w.ProducerID != scope.ProducerID {
			return false
		}
		if scope.RecyclerID != 0 && tx.RecyclerID != scope.RecyclerID {
			return false
		}
		return true
	}
}

func (r memoryTransactions) CountByStatus(ctx context.Context, scope ImpactScope) (map[models.TransactionStatus]int64, error) {
	counts := make(map[models.TransactionStatus]int64)
	for _, tx := range r.list(r.inScope(scope)) {
		counts[tx.Status]++
	}
	return counts, nil
}

func (r memoryTransactions) CompletedWeight(ctx context.Context, scope ImpactScope) (float64, error) {
	records, _ := r.CompletedRecords(ctx, scope)
	var total float64
	for _, rec := range records {
		total += rec.Weight
	}
	return total, nil
}

func (r memoryTransactions) CompletedRecords(ctx context.Context, scope ImpactScope) ([]models.CompletedRecord, error) {
	var records []models.CompletedRecord
	for _, tx := range r.list(r.inScope(scope)) {
		if tx.Status != models.TransactionStatusCompleted || tx.Waste == nil {
			continue
		}
		records = append(records, models.CompletedRecord{
			Weight:      tx.Waste.Weight,
			Category:    tx.Waste.Category,
			CompletedAt: tx.CompletedAt,
			CreatedAt:   tx.CreatedAt,
		})
	}
	return records, nil
}

// SetClock replaces the timestamp source used for created/updated fields.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.write(func(*memoryData) error {
		s.now = now
		return nil
	})
}
