package repository

import (
	"context"
	"sync"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
)

// MemoryStore is a slice-backed Store that preserves insertion order
// exactly as a durable store would. It backs tests and previews, and
// doubles as the reference implementation of the change-notification
// contract: every effective mutation fires the subscribers, no-op
// mutations stay silent.
type MemoryStore struct {
	mu         sync.Mutex
	categories []*domain.TrackerCategory
	trackers   []*domain.Tracker
	records    []*domain.TrackerRecord

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int

	// ForcedError, when set, is returned by every operation. Used to
	// exercise write-failure atomicity.
	ForcedError error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[int]func())}
}

func (m *MemoryStore) CreateCategory(ctx context.Context, category *domain.TrackerCategory) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	clone := *category
	clone.Trackers = nil
	m.categories = append(m.categories, &clone)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, category *domain.TrackerCategory) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	found := false
	for i, existing := range m.categories {
		if existing.ID == category.ID {
			clone := *category
			clone.Trackers = nil
			m.categories[i] = &clone
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return domain.ErrCategoryNotFound
	}
	m.notify()
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, id string) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	deleted := false
	for i, existing := range m.categories {
		if existing.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			deleted = true
			break
		}
	}
	m.mu.Unlock()

	if deleted {
		m.notify()
	}
	return nil
}

func (m *MemoryStore) CreateTracker(ctx context.Context, tracker *domain.Tracker) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	if !m.categoryExists(tracker.CategoryID) {
		m.mu.Unlock()
		return domain.ErrCategoryNotFound
	}
	clone := *tracker
	m.trackers = append(m.trackers, &clone)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) UpdateTracker(ctx context.Context, tracker *domain.Tracker) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	if !m.categoryExists(tracker.CategoryID) {
		m.mu.Unlock()
		return domain.ErrCategoryNotFound
	}
	found := false
	for i, existing := range m.trackers {
		if existing.ID == tracker.ID {
			clone := *tracker
			m.trackers[i] = &clone
			found = true
			break
		}
	}
	m.mu.Unlock()

	if !found {
		return domain.ErrTrackerNotFound
	}
	m.notify()
	return nil
}

func (m *MemoryStore) DeleteTracker(ctx context.Context, id string) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	deleted := false
	for i, existing := range m.trackers {
		if existing.ID == id {
			m.trackers = append(m.trackers[:i], m.trackers[i+1:]...)
			deleted = true
			break
		}
	}
	if deleted {
		kept := m.records[:0]
		for _, record := range m.records {
			if record.TrackerID != id {
				kept = append(kept, record)
			}
		}
		m.records = kept
	}
	m.mu.Unlock()

	if deleted {
		m.notify()
	}
	return nil
}

func (m *MemoryStore) CreateRecord(ctx context.Context, record *domain.TrackerRecord) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	for _, existing := range m.records {
		if existing.TrackerID == record.TrackerID && existing.Day == record.Day {
			m.mu.Unlock()
			return nil
		}
	}
	clone := *record
	m.records = append(m.records, &clone)
	m.mu.Unlock()

	m.notify()
	return nil
}

func (m *MemoryStore) DeleteRecord(ctx context.Context, trackerID, day string) error {
	if m.ForcedError != nil {
		return m.ForcedError
	}

	m.mu.Lock()
	deleted := false
	for i, existing := range m.records {
		if existing.TrackerID == trackerID && existing.Day == day {
			m.records = append(m.records[:i], m.records[i+1:]...)
			deleted = true
			break
		}
	}
	m.mu.Unlock()

	if deleted {
		m.notify()
	}
	return nil
}

func (m *MemoryStore) FetchAll(ctx context.Context) (*domain.Snapshot, error) {
	if m.ForcedError != nil {
		return nil, m.ForcedError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := &domain.Snapshot{
		Categories: make([]*domain.TrackerCategory, 0, len(m.categories)),
		Trackers:   make([]*domain.Tracker, 0, len(m.trackers)),
		Records:    make([]*domain.TrackerRecord, 0, len(m.records)),
	}
	for _, category := range m.categories {
		clone := *category
		snapshot.Categories = append(snapshot.Categories, &clone)
	}
	for _, tracker := range m.trackers {
		clone := *tracker
		snapshot.Trackers = append(snapshot.Trackers, &clone)
	}
	for _, record := range m.records {
		clone := *record
		snapshot.Records = append(snapshot.Records, &clone)
	}
	return snapshot, nil
}

func (m *MemoryStore) Subscribe(fn func()) (unsubscribe func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

// notify runs outside the data lock so a subscriber can mutate the store
// from inside its handler without deadlocking.
func (m *MemoryStore) notify() {
	m.subMu.Lock()
	fns := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// categoryExists must be called with mu held.
func (m *MemoryStore) categoryExists(id string) bool {
	for _, category := range m.categories {
		if category.ID == id {
			return true
		}
	}
	return false
}
