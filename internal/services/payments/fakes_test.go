package payments_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/payments-example/internal/data/persistence"
	"github.com/yungbote/payments-example/internal/domain/entity"
	domain "github.com/yungbote/payments-example/internal/domain/payments"
)

type fakeRepo struct {
	mu sync.Mutex

	rows        map[uuid.UUID]entity.Loaded[*domain.Payment]
	saves       int
	saveErr     error
	findErr     error
	lastCrit    persistence.Criteria
	lastPageReq persistence.PageRequest
	pageCalls   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]entity.Loaded[*domain.Payment]{}}
}

func (f *fakeRepo) FindOne(_ context.Context, criteria persistence.Criteria) (entity.Loaded[*domain.Payment], bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCrit = criteria
	if f.findErr != nil {
		return entity.Loaded[*domain.Payment]{}, false, f.findErr
	}
	id, _ := criteria["id"].(uuid.UUID)
	got, ok := f.rows[id]
	return got, ok, nil
}

func (f *fakeRepo) FindWithPagination(_ context.Context, criteria persistence.Criteria, req persistence.PageRequest) (persistence.Page[entity.Loaded[*domain.Payment]], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	f.lastCrit = criteria
	f.lastPageReq = req
	if f.findErr != nil {
		return persistence.Page[entity.Loaded[*domain.Payment]]{}, f.findErr
	}
	items := make([]entity.Loaded[*domain.Payment], 0, len(f.rows))
	for _, row := range f.rows {
		items = append(items, row)
	}
	return persistence.Page[entity.Loaded[*domain.Payment]]{
		Items: items,
		Total: int64(len(items)),
		Page:  req.Page,
		Limit: req.Limit,
	}, nil
}

func (f *fakeRepo) Save(_ context.Context, e entity.Entity[*domain.Payment]) (entity.Loaded[*domain.Payment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return entity.Loaded[*domain.Payment]{}, f.saveErr
	}
	now := time.Now().UTC()
	meta, ok := entity.Identity(e)
	if !ok {
		meta, _ = entity.NewMeta(uuid.New(), now, now)
	} else {
		meta, _ = entity.NewMeta(meta.ID(), meta.CreatedAt(), now)
	}
	loaded, err := entity.NewLoaded(meta, e.Value())
	if err != nil {
		return entity.Loaded[*domain.Payment]{}, err
	}
	f.rows[loaded.ID()] = loaded
	return loaded, nil
}

type spyProcessor struct {
	outcome domain.Outcome
	err     error

	calls      int
	seenStatus domain.Status
}

func (s *spyProcessor) Process(_ context.Context, p *domain.Payment) (domain.Outcome, error) {
	s.calls++
	s.seenStatus = p.Status()
	return s.outcome, s.err
}

type spyRecorder struct {
	statuses []string
}

func (s *spyRecorder) IncPaymentOutcome(status string) {
	s.statuses = append(s.statuses, status)
}
