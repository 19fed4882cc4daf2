package services

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/AndreiChenchik/trackerkit/internal/core/domain"
)

// TrackerService is the single source of truth for categories, trackers and
// completion records. Every mutation is persisted to the store before it is
// acknowledged; the in-memory cache is rebuilt exclusively from store change
// notifications, so a failed write leaves no partial state behind.
//
// The service follows the app's single-threaded model: all mutations and
// queries run on one logical thread and no internal locking is done here.
// Store adapters guard themselves.
type TrackerService struct {
	store domain.Store

	categories []*domain.TrackerCategory
	records    map[string]map[string]bool // tracker id -> set of day keys

	subscribers []*subscription

	// Re-entrant store notifications (a subscriber mutating from inside
	// its handler) are queued and drained by the outer dispatch loop
	// instead of recursing.
	notifying bool
	pending   int

	unsubscribeStore func()
}

type subscription struct {
	fn func()
}

// New builds the service, loads the initial snapshot and subscribes to
// store change notifications.
func New(ctx context.Context, store domain.Store) (*TrackerService, error) {
	s := &TrackerService{
		store:   store,
		records: make(map[string]map[string]bool),
	}

	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	s.unsubscribeStore = store.Subscribe(s.onStoreChange)

	return s, nil
}

// Close detaches the service from the store's change notifications.
func (s *TrackerService) Close() {
	if s.unsubscribeStore != nil {
		s.unsubscribeStore()
		s.unsubscribeStore = nil
	}
}

// Subscribe registers fn to run after every successful mutation or external
// reload. No payload is delivered; subscribers re-query. The returned
// function removes the subscription.
func (s *TrackerService) Subscribe(fn func()) (unsubscribe func()) {
	sub := &subscription{fn: fn}
	s.subscribers = append(s.subscribers, sub)

	return func() {
		for i, existing := range s.subscribers {
			if existing == sub {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// AddCategory creates an empty category with a fresh identity.
func (s *TrackerService) AddCategory(ctx context.Context, label string) (*domain.TrackerCategory, error) {
	category, err := domain.NewTrackerCategory(label)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

type AddTrackerInput struct {
	Label      string
	Emoji      string
	Color      domain.Color
	Schedule   domain.Schedule
	Pinned     bool
	CategoryID string
}

type UpdateTrackerInput struct {
	ID       string
	Label    string
	Emoji    string
	Color    domain.Color
	Schedule domain.Schedule
	Pinned   bool

	// CategoryID reassigns the tracker when set; empty keeps the
	// current category.
	CategoryID string
}

// AddTracker creates a tracker under an existing category.
func (s *TrackerService) AddTracker(ctx context.Context, input AddTrackerInput) (*domain.Tracker, error) {
	if s.findCategory(input.CategoryID) == nil {
		return nil, domain.ErrCategoryNotFound
	}

	tracker, err := domain.NewTracker(
		input.Label, input.Emoji, input.Color,
		input.Schedule, input.Pinned, input.CategoryID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTracker(ctx, tracker); err != nil {
		return nil, err
	}

	return tracker, nil
}

// UpdateTracker replaces the mutable fields of an existing tracker and
// optionally reassigns its category.
func (s *TrackerService) UpdateTracker(ctx context.Context, input UpdateTrackerInput) error {
	existing := s.findTracker(input.ID)
	if existing == nil {
		return domain.ErrTrackerNotFound
	}

	// Work on a copy so a failed persist leaves the cache untouched.
	updated := *existing
	if err := updated.Update(input.Label, input.Emoji, input.Color, input.Schedule, input.Pinned); err != nil {
		return err
	}

	if input.CategoryID != "" {
		if s.findCategory(input.CategoryID) == nil {
			return domain.ErrCategoryNotFound
		}
		updated.CategoryID = input.CategoryID
	}

	return s.store.UpdateTracker(ctx, &updated)
}

// RemoveTracker deletes a tracker and all of its records. Removing an
// absent id is a no-op.
func (s *TrackerService) RemoveTracker(ctx context.Context, id string) error {
	if s.findTracker(id) == nil {
		return nil
	}

	return s.store.DeleteTracker(ctx, id)
}

// MarkComplete records a completion of the tracker on date's calendar day.
// A second completion of the same day is an idempotent no-op.
func (s *TrackerService) MarkComplete(ctx context.Context, id string, date time.Time) error {
	if s.findTracker(id) == nil {
		return domain.ErrTrackerNotFound
	}

	day := domain.DayKey(date)
	if s.records[id][day] {
		return nil
	}

	return s.store.CreateRecord(ctx, domain.NewTrackerRecord(id, date))
}

// UnmarkComplete deletes the completion record for date's calendar day, if
// one exists.
func (s *TrackerService) UnmarkComplete(ctx context.Context, id string, date time.Time) error {
	day := domain.DayKey(date)
	if !s.records[id][day] {
		return nil
	}

	return s.store.DeleteRecord(ctx, id, day)
}

// Filtered computes the ordered view for the (date, search, mode)
// combination. It never errors: a zero date simply disables the
// date-based predicates.
//
// Pinned trackers are flattened into a synthetic pseudo-category that is
// prepended when non-empty, and never duplicated into their home category.
// Within each section trackers are ordered by label descending, stable on
// insertion order; sections with no surviving trackers are dropped.
func (s *TrackerService) Filtered(date time.Time, search string, mode domain.FilterMode) []domain.FilteredCategory {
	var weekday domain.Weekday
	var day string
	if !date.IsZero() {
		weekday = domain.WeekdayOf(date)
		day = domain.DayKey(date)
	}

	needle := strings.ToLower(search)

	var result []domain.FilteredCategory

	var pinned []domain.Tracker
	for _, category := range s.categories {
		for _, tracker := range category.Trackers {
			if tracker.Pinned {
				pinned = append(pinned, s.annotate(tracker, day))
			}
		}
	}
	if len(pinned) > 0 {
		sortByLabelDesc(pinned)
		result = append(result, domain.FilteredCategory{
			ID:       domain.PinnedCategoryID,
			Label:    domain.PinnedCategoryLabel,
			Trackers: pinned,
		})
	}

	for _, category := range s.categories {
		categoryMatch := needle == "" || strings.Contains(strings.ToLower(category.Label), needle)

		var kept []domain.Tracker
		for _, tracker := range category.Trackers {
			if tracker.Pinned {
				continue
			}

			inSearch := categoryMatch || strings.Contains(strings.ToLower(tracker.Label), needle)

			completed := day != "" && s.records[tracker.ID][day]

			var included bool
			switch mode {
			case domain.FilterAll:
				included = true
			case domain.FilterToday:
				included = weekday == 0 || tracker.Schedule.IsEvent() || tracker.Schedule.Contains(weekday)
			case domain.FilterDone:
				included = completed
			case domain.FilterNotDone:
				included = (weekday == 0 || tracker.Schedule.Contains(weekday)) && !completed
			}

			if inSearch && included {
				kept = append(kept, s.annotate(tracker, day))
			}
		}

		if len(kept) > 0 {
			sortByLabelDesc(kept)
			result = append(result, domain.FilteredCategory{
				ID:       category.ID,
				Label:    category.Label,
				Trackers: kept,
			})
		}
	}

	return result
}

// annotate returns a view copy of the tracker with completion state
// computed for the queried day. Stored state is never mutated.
func (s *TrackerService) annotate(tracker domain.Tracker, day string) domain.Tracker {
	tracker.CompletedCount = len(s.records[tracker.ID])
	tracker.Completed = day != "" && s.records[tracker.ID][day]
	return tracker
}

func sortByLabelDesc(trackers []domain.Tracker) {
	sort.SliceStable(trackers, func(i, j int) bool {
		return trackers[i].Label > trackers[j].Label
	})
}

func (s *TrackerService) findCategory(id string) *domain.TrackerCategory {
	for _, category := range s.categories {
		if category.ID == id {
			return category
		}
	}
	return nil
}

func (s *TrackerService) findTracker(id string) *domain.Tracker {
	for _, category := range s.categories {
		for i := range category.Trackers {
			if category.Trackers[i].ID == id {
				return &category.Trackers[i]
			}
		}
	}
	return nil
}

// reload rebuilds the cache from a full store fetch. Incremental change
// descriptors are deliberately not trusted; the store is authoritative.
func (s *TrackerService) reload(ctx context.Context) error {
	snapshot, err := s.store.FetchAll(ctx)
	if err != nil {
		return err
	}

	categories := make([]*domain.TrackerCategory, 0, len(snapshot.Categories))
	byID := make(map[string]*domain.TrackerCategory, len(snapshot.Categories))
	for _, stored := range snapshot.Categories {
		category := *stored
		category.Trackers = nil
		categories = append(categories, &category)
		byID[category.ID] = &category
	}

	for _, tracker := range snapshot.Trackers {
		category, ok := byID[tracker.CategoryID]
		if !ok {
			// Orphaned tracker: the invariant says this cannot happen,
			// skip rather than fail the whole reload.
			log.Printf("tracker %s references unknown category %s, skipping", tracker.ID, tracker.CategoryID)
			continue
		}
		category.Trackers = append(category.Trackers, *tracker)
	}

	records := make(map[string]map[string]bool, len(snapshot.Records))
	for _, record := range snapshot.Records {
		days, ok := records[record.TrackerID]
		if !ok {
			days = make(map[string]bool)
			records[record.TrackerID] = days
		}
		days[record.Day] = true
	}

	s.categories = categories
	s.records = records

	return nil
}

// onStoreChange runs after every store mutation, own writes included. The
// pending counter queues notifications raised from inside a subscriber
// handler so delivery never recurses.
func (s *TrackerService) onStoreChange() {
	s.pending++
	if s.notifying {
		return
	}

	s.notifying = true
	defer func() { s.notifying = false }()

	for s.pending > 0 {
		s.pending = 0

		if err := s.reload(context.Background()); err != nil {
			log.Printf("tracker cache reload failed: %v", err)
			continue
		}

		for _, sub := range append([]*subscription(nil), s.subscribers...) {
			sub.fn()
		}
	}
}
