package businessflow

import (
	"context"
	"sync"
	"time"

	"github.com/affiliatesimran0007/push-notification-app-sub001/app/services"
	"github.com/affiliatesimran0007/push-notification-app-sub001/models"
)

// fakeCampaignRepo is an in-memory CampaignRepository for flow tests
type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[uint]*models.Campaign
}

func newFakeCampaignRepo(campaigns ...*models.Campaign) *fakeCampaignRepo {
	r := &fakeCampaignRepo{campaigns: make(map[uint]*models.Campaign)}
	for _, c := range campaigns {
		cp := *c
		r.campaigns[c.ID] = &cp
	}
	return r
}

func (r *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Campaign
	for _, c := range r.campaigns {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeCampaignRepo) Save(ctx context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == 0 {
		c.ID = uint(len(r.campaigns) + 1)
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) SaveBatch(ctx context.Context, cs []*models.Campaign) error {
	for _, c := range cs {
		if err := r.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.campaigns)), nil
}

func (r *fakeCampaignRepo) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeCampaignRepo) ByUUID(ctx context.Context, id string) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.UUID.String() == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, c models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *fakeCampaignRepo) UpdateStatus(ctx context.Context, id uint, status models.CampaignStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.campaigns[id]; ok {
		c.Status = status
	}
	return nil
}

func (r *fakeCampaignRepo) UpdateStatusIf(ctx context.Context, id uint, from, to models.CampaignStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.Status != from {
		return false, nil
	}
	c.Status = to
	return true, nil
}

func (r *fakeCampaignRepo) IncrementCounters(ctx context.Context, id uint, delta models.CampaignCounterDelta) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.campaigns[id]; ok {
		c.SentCount += delta.Sent
		c.DeliveredCount += delta.Delivered
		c.ClickedCount += delta.Clicked
		c.DismissedCount += delta.Dismissed
		c.FailedCount += delta.Failed
	}
	return nil
}

func (r *fakeCampaignRepo) ListDueScheduled(ctx context.Context, now time.Time) ([]*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var due []*models.Campaign
	for _, c := range r.campaigns {
		if c.Status == models.CampaignStatusScheduled && c.ScheduledAt != nil && !c.ScheduledAt.After(now) {
			cp := *c
			due = append(due, &cp)
		}
	}
	return due, nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.campaigns, id)
	return nil
}

// fakeSubscriberRepo is an in-memory SubscriberRepository for flow tests
type fakeSubscriberRepo struct {
	mu          sync.Mutex
	subscribers []*models.Subscriber
}

func newFakeSubscriberRepo(subscribers ...*models.Subscriber) *fakeSubscriberRepo {
	r := &fakeSubscriberRepo{}
	for _, s := range subscribers {
		cp := *s
		r.subscribers = append(r.subscribers, &cp)
	}
	return r
}

func (r *fakeSubscriberRepo) ByID(ctx context.Context, id uint) (*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscribers {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriberRepo) ByFilter(ctx context.Context, filter models.SubscriberFilter, orderBy string, limit, offset int) ([]*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Subscriber
	for _, s := range r.subscribers {
		if filter.LandingPageID != nil {
			if s.LandingPageID == nil || *s.LandingPageID != *filter.LandingPageID {
				continue
			}
		}
		if filter.AccessStatus != nil && s.AccessStatus != *filter.AccessStatus {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSubscriberRepo) Save(ctx context.Context, s *models.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.subscribers = append(r.subscribers, &cp)
	return nil
}

func (r *fakeSubscriberRepo) SaveBatch(ctx context.Context, ss []*models.Subscriber) error {
	for _, s := range ss {
		if err := r.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSubscriberRepo) Count(ctx context.Context, filter models.SubscriberFilter) (int64, error) {
	matched, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(matched)), nil
}

func (r *fakeSubscriberRepo) Exists(ctx context.Context, filter models.SubscriberFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeSubscriberRepo) ByEndpoint(ctx context.Context, endpoint string) (*models.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscribers {
		if s.Endpoint == endpoint {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSubscriberRepo) Upsert(ctx context.Context, subscriber *models.Subscriber) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscribers {
		if s.Endpoint == subscriber.Endpoint {
			s.P256dh = subscriber.P256dh
			s.AuthKey = subscriber.AuthKey
			subscriber.ID = s.ID
			return false, nil
		}
	}
	subscriber.ID = uint(len(r.subscribers) + 1)
	cp := *subscriber
	r.subscribers = append(r.subscribers, &cp)
	return true, nil
}

func (r *fakeSubscriberRepo) UpdateAccessStatus(ctx context.Context, id uint, status models.SubscriberStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.subscribers {
		if s.ID == id {
			s.AccessStatus = status
		}
	}
	return nil
}

func (r *fakeSubscriberRepo) DistinctBrowsers(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.subscribers {
		if s.Browser != "" && !seen[s.Browser] {
			seen[s.Browser] = true
			out = append(out, s.Browser)
		}
	}
	return out, nil
}

func (r *fakeSubscriberRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subscribers[:0]
	for _, s := range r.subscribers {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	r.subscribers = kept
	return nil
}

// fakeDeliveryRepo is an in-memory DeliveryRecordRepository for flow tests
type fakeDeliveryRepo struct {
	mu      sync.Mutex
	records map[[2]uint]*models.DeliveryRecord
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{records: make(map[[2]uint]*models.DeliveryRecord)}
}

func (r *fakeDeliveryRepo) key(campaignID, subscriberID uint) [2]uint {
	return [2]uint{campaignID, subscriberID}
}

func (r *fakeDeliveryRepo) ByID(ctx context.Context, id uint) (*models.DeliveryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeDeliveryRepo) ByFilter(ctx context.Context, filter models.DeliveryRecordFilter, orderBy string, limit, offset int) ([]*models.DeliveryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.DeliveryRecord
	for _, rec := range r.records {
		if filter.CampaignID != nil && rec.CampaignID != *filter.CampaignID {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDeliveryRepo) Save(ctx context.Context, rec *models.DeliveryRecord) error {
	return r.Upsert(ctx, rec)
}

func (r *fakeDeliveryRepo) SaveBatch(ctx context.Context, recs []*models.DeliveryRecord) error {
	for _, rec := range recs {
		if err := r.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeDeliveryRepo) Count(ctx context.Context, filter models.DeliveryRecordFilter) (int64, error) {
	matched, _ := r.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(matched)), nil
}

func (r *fakeDeliveryRepo) Exists(ctx context.Context, filter models.DeliveryRecordFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeDeliveryRepo) ByCampaignAndSubscriber(ctx context.Context, campaignID, subscriberID uint) (*models.DeliveryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[r.key(campaignID, subscriberID)]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeDeliveryRepo) Upsert(ctx context.Context, record *models.DeliveryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := r.key(record.CampaignID, record.SubscriberID)
	if existing, ok := r.records[k]; ok {
		// A stamped delivery keeps its status; delivery, click, and dismiss
		// stamps belong to the Mark* methods
		if existing.DeliveredAt == nil {
			existing.Status = record.Status
		}
		existing.FailureReason = record.FailureReason
		return nil
	}
	record.ID = uint(len(r.records) + 1)
	cp := *record
	r.records[k] = &cp
	return nil
}

func (r *fakeDeliveryRepo) ensure(campaignID, subscriberID uint) *models.DeliveryRecord {
	k := r.key(campaignID, subscriberID)
	rec, ok := r.records[k]
	if !ok {
		rec = &models.DeliveryRecord{
			ID:           uint(len(r.records) + 1),
			CampaignID:   campaignID,
			SubscriberID: subscriberID,
			Status:       models.DeliveryStatusPending,
		}
		r.records[k] = rec
	}
	return rec
}

func (r *fakeDeliveryRepo) MarkDelivered(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.ensure(campaignID, subscriberID)
	if rec.DeliveredAt != nil {
		return false, nil
	}
	rec.DeliveredAt = &at
	rec.Status = models.DeliveryStatusDelivered
	return true, nil
}

func (r *fakeDeliveryRepo) MarkClicked(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.ensure(campaignID, subscriberID)
	if rec.ClickedAt != nil {
		return false, nil
	}
	rec.ClickedAt = &at
	return true, nil
}

func (r *fakeDeliveryRepo) MarkDismissed(ctx context.Context, campaignID, subscriberID uint, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec := r.ensure(campaignID, subscriberID)
	if rec.DismissedAt != nil {
		return false, nil
	}
	rec.DismissedAt = &at
	rec.Status = models.DeliveryStatusDismissed
	return true, nil
}

// fakePushSender classifies sends with a caller-supplied function
type fakePushSender struct {
	sendFn func(subscriber *models.Subscriber) services.SendResult

	mu    sync.Mutex
	sends []uint
}

func (f *fakePushSender) Send(ctx context.Context, subscriber *models.Subscriber, payload []byte) services.SendResult {
	f.mu.Lock()
	f.sends = append(f.sends, subscriber.ID)
	f.mu.Unlock()
	return f.sendFn(subscriber)
}

func (f *fakePushSender) sendCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sends)
}

// fakeTemplateRepo is an in-memory TemplateRepository for flow tests
type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[uint]*models.Template
}

func newFakeTemplateRepo(templates ...*models.Template) *fakeTemplateRepo {
	r := &fakeTemplateRepo{templates: make(map[uint]*models.Template)}
	for _, t := range templates {
		cp := *t
		r.templates[t.ID] = &cp
	}
	return r
}

func (r *fakeTemplateRepo) ByID(ctx context.Context, id uint) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.templates[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeTemplateRepo) ByFilter(ctx context.Context, filter models.TemplateFilter, orderBy string, limit, offset int) ([]*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Template
	for _, t := range r.templates {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTemplateRepo) Save(ctx context.Context, t *models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == 0 {
		t.ID = uint(len(r.templates) + 1)
	}
	cp := *t
	r.templates[t.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) SaveBatch(ctx context.Context, ts []*models.Template) error {
	for _, t := range ts {
		if err := r.Save(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeTemplateRepo) Count(ctx context.Context, filter models.TemplateFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.templates)), nil
}

func (r *fakeTemplateRepo) Exists(ctx context.Context, filter models.TemplateFilter) (bool, error) {
	n, _ := r.Count(ctx, filter)
	return n > 0, nil
}

func (r *fakeTemplateRepo) ByName(ctx context.Context, name string) (*models.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.templates {
		if t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeTemplateRepo) Update(ctx context.Context, template models.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := template
	r.templates[template.ID] = &cp
	return nil
}

func (r *fakeTemplateRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	return nil
}
