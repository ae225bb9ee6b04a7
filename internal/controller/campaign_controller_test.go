package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unclebandit/followup-tracker/internal/controller"
	appErrors "github.com/unclebandit/followup-tracker/internal/errors"
	"github.com/unclebandit/followup-tracker/internal/followup"
	"github.com/unclebandit/followup-tracker/internal/handler"
	"github.com/unclebandit/followup-tracker/internal/model"
	"github.com/unclebandit/followup-tracker/internal/service"
)

// --- Mock Services ---

type MockCampaigns struct {
	lastOwner string
	lastQuery service.BoardQuery
	lastInput service.CampaignInput
	deleted   string
	err       error
}

func (m *MockCampaigns) Board(ctx context.Context, ownerID string, q service.BoardQuery) (followup.Board, error) {
	m.lastOwner, m.lastQuery = ownerID, q
	if m.err != nil {
		return followup.Board{}, m.err
	}
	return followup.Board{Mode: q.Sort, ActionRequired: []model.Campaign{{ID: "c1"}}}, nil
}

func (m *MockCampaigns) CreateCampaign(ctx context.Context, ownerID string, in service.CampaignInput) (*service.CampaignResult, error) {
	m.lastOwner, m.lastInput = ownerID, in
	if m.err != nil {
		return nil, m.err
	}
	return &service.CampaignResult{Campaign: &model.Campaign{ID: "c1", Title: in.Title, Status: model.StatusEmailed}}, nil
}

func (m *MockCampaigns) GetCampaign(ctx context.Context, ownerID, campaignID string) (*model.Campaign, error) {
	if campaignID != "c1" {
		return nil, appErrors.NewCampaignNotFound(campaignID)
	}
	return &model.Campaign{ID: "c1", OwnerID: ownerID}, nil
}

func (m *MockCampaigns) UpdateCampaign(ctx context.Context, ownerID, campaignID string, in service.CampaignInput) (*service.CampaignResult, error) {
	m.lastInput = in
	return &service.CampaignResult{Campaign: &model.Campaign{ID: campaignID, Status: in.Status}}, m.err
}

func (m *MockCampaigns) DeleteCampaign(ctx context.Context, ownerID, campaignID string) error {
	m.deleted = campaignID
	return m.err
}

type MockFollowUps struct {
	calls   []string
	warning error
	err     error
}

func (m *MockFollowUps) result(op, followUpID, campaignID string) (*service.FollowUpResult, error) {
	m.calls = append(m.calls, op+":"+campaignID+"/"+followUpID)
	if m.err != nil {
		return nil, m.err
	}
	return &service.FollowUpResult{
		FollowUp:       &model.FollowUp{ID: followUpID, CampaignID: campaignID, Status: model.FollowUpSent},
		PreviousStatus: model.StatusEmailed,
		CampaignStatus: model.StatusFirstFollowUp,
		StatusChanged:  m.warning == nil,
		Warning:        m.warning,
	}, nil
}

func (m *MockFollowUps) LogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*service.FollowUpResult, error) {
	return m.result("log", followUpID, campaignID)
}

func (m *MockFollowUps) UnlogFollowUp(ctx context.Context, ownerID, followUpID, campaignID string) (*service.FollowUpResult, error) {
	return m.result("unlog", followUpID, campaignID)
}

type MockDirectory struct{}

func (MockDirectory) ListContacts(ctx context.Context, ownerID string) ([]model.Contact, error) {
	return []model.Contact{{ID: "ct1", Name: "Ada"}}, nil
}
func (MockDirectory) CreateContact(ctx context.Context, ownerID string, c model.Contact) (*model.Contact, error) {
	c.ID = "ct2"
	return &c, nil
}
func (MockDirectory) DeleteContact(ctx context.Context, ownerID, id string) error { return nil }
func (MockDirectory) ListCompanies(ctx context.Context, ownerID string) ([]model.Company, error) {
	return []model.Company{}, nil
}
func (MockDirectory) CreateCompany(ctx context.Context, ownerID string, c model.Company) (*model.Company, error) {
	return nil, appErrors.NewValidation("name", "required")
}
func (MockDirectory) DeleteCompany(ctx context.Context, ownerID, id string) error {
	return appErrors.NewNotFound("company", id)
}

type MockSettings struct{}

func (MockSettings) GetSettings(ctx context.Context, ownerID string) (*service.EffectiveSettings, error) {
	return &service.EffectiveSettings{Cadence: followup.DefaultCadence}, nil
}
func (MockSettings) UpdateSettings(ctx context.Context, ownerID string, in service.SettingsInput) (*service.EffectiveSettings, error) {
	return &service.EffectiveSettings{Cadence: followup.Cadence(*in.CadenceDays), IsOverride: true}, nil
}

// --- Helpers ---

func newRouter(c *MockCampaigns, f *MockFollowUps) http.Handler {
	logger := zap.NewNop()
	return controller.NewRouter(controller.Controllers{
		Campaigns: &controller.CampaignController{CampaignService: c, Logger: logger},
		FollowUps: &controller.FollowUpController{FollowUpService: f, Logger: logger},
		Directory: &controller.DirectoryController{DirectoryService: MockDirectory{}, Logger: logger},
		Settings:  &controller.SettingsController{SettingsService: MockSettings{}, Logger: logger},
	}, logger)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(handler.OwnerHeader, "owner-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealthz_NoOwnerNeeded(t *testing.T) {
	h := newRouter(&MockCampaigns{}, &MockFollowUps{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListCampaigns_Query(t *testing.T) {
	m := &MockCampaigns{}
	rec := do(t, newRouter(m, &MockFollowUps{}), http.MethodGet, "/api/campaigns?sort=start_asc&q=acme&notes=true", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-1", m.lastOwner)
	assert.Equal(t, service.BoardQuery{Sort: followup.SortStartAsc, Search: "acme", IncludeNotes: true}, m.lastQuery)

	var board followup.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	assert.Equal(t, followup.SortStartAsc, board.Mode)
}

func TestListCampaigns_DefaultAndBadSort(t *testing.T) {
	m := &MockCampaigns{}
	h := newRouter(m, &MockFollowUps{})

	rec := do(t, h, http.MethodGet, "/api/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, followup.SortNextDue, m.lastQuery.Sort)

	rec = do(t, h, http.MethodGet, "/api/campaigns?sort=random", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCampaigns_StoreErrorIsBadGateway(t *testing.T) {
	m := &MockCampaigns{err: appErrors.NewStore("list", "campaign", errors.New("down"))}
	rec := do(t, newRouter(m, &MockFollowUps{}), http.MethodGet, "/api/campaigns", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateCampaign(t *testing.T) {
	m := &MockCampaigns{}
	h := newRouter(m, &MockFollowUps{})

	rec := do(t, h, http.MethodPost, "/api/campaigns",
		`{"company_name":"Acme","title":"SRE","initial_contact_date":"2024-01-01T00:00:00Z","tags":["remote"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "SRE", m.lastInput.Title)
	assert.Equal(t, []string{"remote"}, m.lastInput.Tags)

	var res service.CampaignResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, model.StatusEmailed, res.Campaign.Status)

	rec = do(t, h, http.MethodPost, "/api/campaigns", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUpdateDeleteCampaign(t *testing.T) {
	m := &MockCampaigns{}
	h := newRouter(m, &MockFollowUps{})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/campaigns/c1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/campaigns/nope", "").Code)

	rec := do(t, h, http.MethodPut, "/api/campaigns/c1",
		`{"company_name":"Acme","title":"SRE","initial_contact_date":"2024-01-01T00:00:00Z","status":"Interviewing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.StatusInterviewing, m.lastInput.Status)

	rec = do(t, h, http.MethodDelete, "/api/campaigns/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "c1", m.deleted)
}

func TestLogAndUnlogRoutes(t *testing.T) {
	f := &MockFollowUps{}
	h := newRouter(&MockCampaigns{}, f)

	rec := do(t, h, http.MethodPost, "/api/campaigns/c1/follow-ups/f1/log", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, h, http.MethodPost, "/api/campaigns/c1/follow-ups/f1/unlog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"log:c1/f1", "unlog:c1/f1"}, f.calls)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1st Follow Up", body["campaign_status"])
	assert.Equal(t, true, body["status_changed"])
	assert.NotContains(t, body, "warning")
}

func TestLog_WarningInResponse(t *testing.T) {
	f := &MockFollowUps{warning: appErrors.NewStore("update status", "campaign", errors.New("timeout"))}
	rec := do(t, newRouter(&MockCampaigns{}, f), http.MethodPost, "/api/campaigns/c1/follow-ups/f1/log", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["warning"], "campaign status could not be updated")
	assert.Equal(t, false, body["status_changed"])
}

func TestUnlog_ValidationIsBadRequest(t *testing.T) {
	f := &MockFollowUps{err: appErrors.NewValidation("original_due_date", "not recorded")}
	rec := do(t, newRouter(&MockCampaigns{}, f), http.MethodPost, "/api/campaigns/c1/follow-ups/f1/unlog", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectoryAndSettingsRoutes(t *testing.T) {
	h := newRouter(&MockCampaigns{}, &MockFollowUps{})

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/contacts", "").Code)
	assert.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/contacts", `{"name":"Ada","email":"ada@acme.test"}`).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/contacts/ct1", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/companies", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/companies", `{"name":""}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/companies/co1", "").Code)

	rec := do(t, h, http.MethodPut, "/api/settings", `{"follow_up_cadence_days":[2,4,8]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var s map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, []any{float64(2), float64(4), float64(8)}, s["cadence"])
	assert.Equal(t, true, s["cadence_is_override"])

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/settings", "").Code)
}
