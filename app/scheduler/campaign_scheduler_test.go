package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCampaignStore is an in-memory CampaignRepository for scheduler tests
type fakeCampaignStore struct {
	mu        sync.Mutex
	campaigns map[uint]*models.Campaign
}

func newFakeCampaignStore(campaigns ...*models.Campaign) *fakeCampaignStore {
	s := &fakeCampaignStore{campaigns: make(map[uint]*models.Campaign)}
	for _, c := range campaigns {
		cp := *c
		s.campaigns[c.ID] = &cp
	}
	return s
}

func (s *fakeCampaignStore) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.campaigns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeCampaignStore) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Campaign
	for _, c := range s.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeCampaignStore) Save(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.campaigns[c.ID] = &cp
	return nil
}

func (s *fakeCampaignStore) SaveBatch(ctx context.Context, cs []*models.Campaign) error {
	for _, c := range cs {
		if err := s.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeCampaignStore) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.campaigns)), nil
}

func (s *fakeCampaignStore) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	n, _ := s.Count(ctx, filter)
	return n > 0, nil
}

func (s *fakeCampaignStore) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.campaigns {
		if c.UUID.String() == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeCampaignStore) Update(ctx context.Context, c models.Campaign) error {
	return s.Save(ctx, &c)
}

func (s *fakeCampaignStore) UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (s *fakeCampaignStore) UpdateStatusIf(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (s *fakeCampaignStore) IncrementCounters(ctx context.Context, id uint, delta models.CampaignCounterDelta) error {
	return nil
}

func (s *fakeCampaignStore) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Campaign
	for _, c := range s.campaigns {
		if c.Status != models.CampaignStatusScheduled {
			continue
		}
		if c.ScheduledAt == nil || c.ScheduledAt.After(now) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeCampaignStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.campaigns, id)
	return nil
}

// fakeDispatchFlow claims through the store's guarded transition the way the
// real flow does and records which claims won
type fakeDispatchFlow struct {
	store *fakeCampaignStore
	done  chan struct{}

	mu         sync.Mutex
	dispatched []uint
}

func (f *fakeDispatchFlow) DispatchCampaign(ctx context.Context, campaignID uint) (*businessflow.DispatchSummary, error) {
	defer func() { f.done <- struct{}{} }()

	claimed, err := f.store.UpdateStatusIf(ctx, campaignID, models.CampaignStatusScheduled, models.CampaignStatusActive)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, businessflow.NewBusinessError("DISPATCH_ALREADY_CLAIMED", "Campaign dispatch already started", businessflow.ErrCampaignAlreadyActive)
	}

	f.mu.Lock()
	f.dispatched = append(f.dispatched, campaignID)
	f.mu.Unlock()

	return &businessflow.DispatchSummary{CampaignID: campaignID}, nil
}

func (f *fakeDispatchFlow) dispatchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dispatched)
}

func dueCampaign(id uint) *models.Campaign {
	return &models.Campaign{
		ID:          id,
		UUID:        uuid.New(),
		Name:        "Scheduled launch",
		Status:      models.CampaignStatusScheduled,
		ScheduledAt: utils.ToPtr(utils.UTCNowAdd(-time.Minute)),
	}
}

func TestSchedulerRunOnce(t *testing.T) {
	ctx := t.Context()

	t.Run("DueCampaignDispatched", func(t *testing.T) {
		store := newFakeCampaignStore(dueCampaign(1))
		dispatch := &fakeDispatchFlow{store: store, done: make(chan struct{}, 4)}
		s := NewCampaignScheduler(store, dispatch, config.SchedulerConfig{Interval: time.Hour})

		assert.Equal(t, 1, s.RunOnce(ctx))
		<-dispatch.done
		assert.Equal(t, 1, dispatch.dispatchCount())
	})

	t.Run("SecondSweepDispatchesNothing", func(t *testing.T) {
		store := newFakeCampaignStore(dueCampaign(1))
		dispatch := &fakeDispatchFlow{store: store, done: make(chan struct{}, 4)}
		s := NewCampaignScheduler(store, dispatch, config.SchedulerConfig{Interval: time.Hour})

		require.Equal(t, 1, s.RunOnce(ctx))
		<-dispatch.done

		// The first sweep moved the campaign to active, so it is no longer due
		assert.Equal(t, 0, s.RunOnce(ctx))
		assert.Equal(t, 1, dispatch.dispatchCount())
	})

	t.Run("RacingSweepsDispatchOnce", func(t *testing.T) {
		// Both sweeps observe the campaign as due; the guarded claim lets
		// only one dispatch through
		store := newFakeCampaignStore(dueCampaign(1))
		dispatch := &fakeDispatchFlow{store: store, done: make(chan struct{}, 4)}
		_ = NewCampaignScheduler(store, dispatch, config.SchedulerConfig{Interval: time.Hour})

		due, err := store.ListDueScheduled(ctx, utils.UTCNow())
		require.NoError(t, err)
		require.Len(t, due, 1)

		first, err := dispatch.DispatchCampaign(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, first)

		_, err = dispatch.DispatchCampaign(ctx, 1)
		require.Error(t, err)
		assert.True(t, businessflow.IsCampaignAlreadyActive(err))
		assert.Equal(t, 1, dispatch.dispatchCount())
	})

	t.Run("FutureCampaignNotSwept", func(t *testing.T) {
		camp := dueCampaign(1)
		camp.ScheduledAt = utils.ToPtr(utils.UTCNowAdd(time.Hour))
		store := newFakeCampaignStore(camp)
		dispatch := &fakeDispatchFlow{store: store, done: make(chan struct{}, 4)}
		s := NewCampaignScheduler(store, dispatch, config.SchedulerConfig{Interval: time.Hour})

		assert.Equal(t, 0, s.RunOnce(ctx))
		assert.Equal(t, 0, dispatch.dispatchCount())
	})
}
