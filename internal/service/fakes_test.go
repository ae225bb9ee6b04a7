package service_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// memStore backs every repository interface with maps. The fail* fields
// inject errors into single operations.
type memStore struct {
	mu        sync.Mutex
	seq       int
	epoch     time.Time
	campaigns map[string]*model.Campaign
	followUps map[string]*model.FollowUp
	contacts  map[string]*model.Contact
	companies map[string]*model.Company
	links     []model.CampaignContact
	settings  map[string]*model.OwnerSettings

	failUpdateStatus   error
	failCreateBatch    error
	failListByCampaign error
	failListCampaigns  error
	failLink           error
	statusWrites       int
}

func newMemStore() *memStore {
	return &memStore{
		epoch:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		campaigns: map[string]*model.Campaign{},
		followUps: map[string]*model.FollowUp{},
		contacts:  map[string]*model.Contact{},
		companies: map[string]*model.Company{},
		settings:  map[string]*model.OwnerSettings{},
	}
}

func (m *memStore) nextID(prefix string) (string, time.Time) {
	m.seq++
	return fmt.Sprintf("%s-%03d", prefix, m.seq), m.epoch.Add(time.Duration(m.seq) * time.Second)
}

type campaignRepo struct{ *memStore }
type followUpRepo struct{ *memStore }
type contactRepo struct{ *memStore }
type companyRepo struct{ *memStore }
type linkRepo struct{ *memStore }
type settingsRepo struct{ *memStore }

// ---- campaigns ----

func (r campaignRepo) List(ctx context.Context, ownerID string) ([]*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failListCampaigns != nil {
		return nil, r.failListCampaigns
	}
	out := []*model.Campaign{}
	for _, c := range r.campaigns {
		if c.OwnerID == ownerID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r campaignRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	cp := *c
	return &cp, nil
}

func (r campaignRepo) Create(ctx context.Context, c *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID, c.CreatedAt = r.nextID("cmp")
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r campaignRepo) Update(ctx context.Context, c *model.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.campaigns[c.ID]; !ok || existing.OwnerID != c.OwnerID {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	cp := *c
	cp.FollowUps, cp.Contacts = nil, nil
	r.campaigns[c.ID] = &cp
	return nil
}

func (r campaignRepo) UpdateStatus(ctx context.Context, ownerID, id string, status model.CampaignStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdateStatus != nil {
		return r.failUpdateStatus
	}
	c, ok := r.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return appErrors.NewCampaignNotFound(id)
	}
	r.statusWrites++
	c.Status = status
	return nil
}

func (r campaignRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.OwnerID != ownerID {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(r.campaigns, id)
	return nil
}

func (r campaignRepo) OwnerIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, c := range r.campaigns {
		if !seen[c.OwnerID] {
			seen[c.OwnerID] = true
			out = append(out, c.OwnerID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ---- follow-ups ----

func (r followUpRepo) listWhere(keep func(*model.FollowUp) bool) []model.FollowUp {
	out := []model.FollowUp{}
	for _, fu := range r.followUps {
		if keep(fu) {
			out = append(out, *fu)
		}
	}
	return followup.OrderByCreation(out)
}

func (r followUpRepo) ListByCampaign(ctx context.Context, ownerID, campaignID string) ([]model.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failListByCampaign != nil {
		return nil, r.failListByCampaign
	}
	return r.listWhere(func(fu *model.FollowUp) bool {
		return fu.OwnerID == ownerID && fu.CampaignID == campaignID
	}), nil
}

func (r followUpRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listWhere(func(fu *model.FollowUp) bool { return fu.OwnerID == ownerID }), nil
}

func (r followUpRepo) GetByID(ctx context.Context, ownerID, id string) (*model.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fu, ok := r.followUps[id]
	if !ok || fu.OwnerID != ownerID {
		return nil, appErrors.NewFollowUpNotFound(id)
	}
	cp := *fu
	return &cp, nil
}

func (r followUpRepo) CreateBatch(ctx context.Context, fus []model.FollowUp) ([]model.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateBatch != nil {
		return nil, r.failCreateBatch
	}
	out := make([]model.FollowUp, len(fus))
	for i, fu := range fus {
		fu.ID, fu.CreatedAt = r.nextID("fu")
		cp := fu
		r.followUps[fu.ID] = &cp
		out[i] = fu
	}
	return out, nil
}

func (r followUpRepo) UpdateState(ctx context.Context, ownerID, campaignID, id string, status model.FollowUpStatus, scheduled time.Time) (*model.FollowUp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fu, ok := r.followUps[id]
	if !ok || fu.OwnerID != ownerID || fu.CampaignID != campaignID {
		return nil, appErrors.NewFollowUpNotFound(id)
	}
	fu.Status = status
	fu.ScheduledDate = scheduled
	cp := *fu
	return &cp, nil
}

func (r followUpRepo) DeleteByCampaign(ctx context.Context, ownerID, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, fu := range r.followUps {
		if fu.OwnerID == ownerID && fu.CampaignID == campaignID {
			delete(r.followUps, id)
		}
	}
	return nil
}

// ---- contacts ----

func (r contactRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewNotFound("contact", id)
	}
	cp := *c
	return &cp, nil
}

func (r contactRepo) List(ctx context.Context, ownerID string) ([]model.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Contact{}
	for _, c := range r.contacts {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r contactRepo) Create(ctx context.Context, c *model.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID, c.CreatedAt = r.nextID("ct")
	cp := *c
	r.contacts[c.ID] = &cp
	return nil
}

func (r contactRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.OwnerID != ownerID {
		return appErrors.NewNotFound("contact", id)
	}
	delete(r.contacts, id)
	return nil
}

// ---- companies ----

func (r companyRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok || c.OwnerID != ownerID {
		return nil, appErrors.NewNotFound("company", id)
	}
	cp := *c
	return &cp, nil
}

func (r companyRepo) FindByName(ctx context.Context, ownerID, name string) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.OwnerID == ownerID && strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r companyRepo) List(ctx context.Context, ownerID string) ([]model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Company{}
	for _, c := range r.companies {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r companyRepo) Create(ctx context.Context, c *model.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID, c.CreatedAt = r.nextID("co")
	cp := *c
	r.companies[c.ID] = &cp
	return nil
}

func (r companyRepo) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok || c.OwnerID != ownerID {
		return appErrors.NewNotFound("company", id)
	}
	delete(r.companies, id)
	return nil
}

// ---- links ----

func (r linkRepo) Link(ctx context.Context, link model.CampaignContact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failLink != nil {
		return r.failLink
	}
	for _, l := range r.links {
		if l.CampaignID == link.CampaignID && l.ContactID == link.ContactID {
			return nil
		}
	}
	r.links = append(r.links, link)
	return nil
}

func (r linkRepo) UnlinkAll(ctx context.Context, ownerID, campaignID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.links[:0]
	for _, l := range r.links {
		if !(l.OwnerID == ownerID && l.CampaignID == campaignID) {
			kept = append(kept, l)
		}
	}
	r.links = kept
	return nil
}

func (r linkRepo) ListForOwner(ctx context.Context, ownerID string) ([]model.CampaignContact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.CampaignContact{}
	for _, l := range r.links {
		if l.OwnerID != ownerID {
			continue
		}
		if c, ok := r.contacts[l.ContactID]; ok {
			l.Name, l.Email = c.Name, c.Email
		}
		out = append(out, l)
	}
	return out, nil
}

// ---- settings ----

func (r settingsRepo) Get(ctx context.Context, ownerID string) (*model.OwnerSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[ownerID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r settingsRepo) Upsert(ctx context.Context, s *model.OwnerSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settings[s.OwnerID] = &cp
	return nil
}

// ---- wiring ----

const owner = "owner-1"

type fixture struct {
	store     *memStore
	now       time.Time
	campaigns *service.CampaignService
	followUps *service.FollowUpService
	settings  *service.SettingsService
	directory *service.DirectoryService
}

func newFixture(now time.Time) *fixture {
	store := newMemStore()
	f := &fixture{store: store, now: now}
	cadence := followup.DefaultCadence
	opts := service.Options{
		Location:    time.UTC,
		StepTimeout: time.Second,
		Now:         func() time.Time { return f.now },
		Logger:      zap.NewNop(),
	}
	f.campaigns = &service.CampaignService{
		Options:        opts,
		CampaignRepo:   campaignRepo{store},
		FollowUpRepo:   followUpRepo{store},
		ContactRepo:    contactRepo{store},
		CompanyRepo:    companyRepo{store},
		LinkRepo:       linkRepo{store},
		SettingsRepo:   settingsRepo{store},
		DefaultCadence: &cadence,
	}
	f.followUps = &service.FollowUpService{
		Options:      opts,
		CampaignRepo: campaignRepo{store},
		FollowUpRepo: followUpRepo{store},
	}
	f.settings = &service.SettingsService{
		Options:        opts,
		SettingsRepo:   settingsRepo{store},
		DefaultCadence: &cadence,
	}
	f.directory = &service.DirectoryService{
		Options:     opts,
		ContactRepo: contactRepo{store},
		CompanyRepo: companyRepo{store},
	}
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) campaignStatus(id string) model.CampaignStatus {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return f.store.campaigns[id].Status
}

func (f *fixture) followUp(id string) model.FollowUp {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return *f.store.followUps[id]
}
