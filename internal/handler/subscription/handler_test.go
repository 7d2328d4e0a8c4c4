package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anshuman/hospital-api/internal/middleware"
	"github.com/anshuman/hospital-api/internal/model"
	subsvc "github.com/anshuman/hospital-api/internal/service/subscription"
)

type fakeSubRepo struct {
	current *model.Subscription
	billing []*model.BillingRecord
}

func (f *fakeSubRepo) Create(_ context.Context, sub *model.Subscription) error {
	f.current = sub
	return nil
}

func (f *fakeSubRepo) GetByHospital(_ context.Context, hospitalID uuid.UUID) (*model.Subscription, error) {
	if f.current != nil && f.current.HospitalID == hospitalID {
		return f.current, nil
	}
	return nil, nil
}

func (f *fakeSubRepo) Update(_ context.Context, sub *model.Subscription) error {
	f.current = sub
	return nil
}

func (f *fakeSubRepo) DeactivateForHospital(_ context.Context, _ uuid.UUID) error {
	if f.current != nil {
		f.current.IsActive = false
	}
	return nil
}

func (f *fakeSubRepo) List(_ context.Context, _ *model.SubscriptionFilters) ([]*model.Subscription, int, error) {
	return nil, 0, nil
}

func (f *fakeSubRepo) ListExpiringBefore(_ context.Context, _ time.Time) ([]*model.Subscription, error) {
	return nil, nil
}

func (f *fakeSubRepo) CreateBillingRecord(_ context.Context, rec *model.BillingRecord) error {
	f.billing = append(f.billing, rec)
	return nil
}

func (f *fakeSubRepo) ListBillingRecords(_ context.Context, _ uuid.UUID) ([]*model.BillingRecord, error) {
	return f.billing, nil
}

func newSubRouter(repo *fakeSubRepo, hospitalID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(subsvc.NewService(repo, nil, nil, nil, nil))

	r := gin.New()
	grp := r.Group("/api", func(c *gin.Context) {
		c.Set(middleware.ContextHospitalID, hospitalID)
	})
	h.RegisterRoutes(grp)
	return r
}

func TestGetFeatures(t *testing.T) {
	hospitalID := uuid.New()
	repo := &fakeSubRepo{current: &model.Subscription{
		Base:            model.Base{ID: uuid.New()},
		HospitalID:      hospitalID,
		PlanName:        "standard",
		Features:        []string{"appointments", "billing", "pharmacy"},
		SubscriptionEnd: time.Now().AddDate(0, 1, 0),
		IsActive:        true,
	}}
	r := newSubRouter(repo, hospitalID)

	req := httptest.NewRequest(http.MethodGet, "/api/subscription/features", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			EnabledFeatures    []string `json:"enabled_features"`
			PlanName           string   `json:"plan_name"`
			SubscriptionActive bool     `json:"subscription_active"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "standard", resp.Data.PlanName)
	assert.True(t, resp.Data.SubscriptionActive)
	assert.Contains(t, resp.Data.EnabledFeatures, "pharmacy")
}

func TestGetFeaturesWithoutSubscription(t *testing.T) {
	r := newSubRouter(&fakeSubRepo{}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/api/subscription/features", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpgradeSubscriptionRoute(t *testing.T) {
	hospitalID := uuid.New()
	repo := &fakeSubRepo{}
	r := newSubRouter(repo, hospitalID)

	body, err := json.Marshal(model.UpgradeSubscriptionRequest{
		NewPlan:      "basic",
		BillingCycle: model.BillingMonthly,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/upgrade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, repo.current)
	assert.Equal(t, "basic", repo.current.PlanName)
	assert.True(t, repo.current.IsActive)
	require.Len(t, repo.billing, 1)
	assert.Equal(t, "paid", repo.billing[0].Status)
}
