package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/capacity-atlas/pkg/models/api"
	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/services/forecast"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockExplorer struct {
	mock.Mock
}

func (m *mockExplorer) ListTenants(ctx context.Context) ([]domain.TenantProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TenantProfile), args.Error(1)
}

func (m *mockExplorer) GetForecastController(ctx context.Context, tenant string) (forecast.Controller, error) {
	args := m.Called(ctx, tenant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(forecast.Controller), args.Error(1)
}

type mockController struct {
	mock.Mock
}

func (m *mockController) BuildForecast(
	ctx context.Context,
	tenant string,
	settings domain.RunSettings,
) (*domain.SizingReport, error) {
	args := m.Called(ctx, tenant, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SizingReport), args.Error(1)
}

func TestListTenants(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*mockExplorer)
		expectedStatus int
		expectedBody   []api.Tenant
	}{
		{
			name: "successful response",
			setupMock: func(m *mockExplorer) {
				m.On("ListTenants", mock.Anything).Return(
					[]domain.TenantProfile{
						{Name: "fabrikam", Source: domain.SourceFiles},
						{Name: "contoso", Source: domain.SourceS3},
					},
					nil,
				)
			},
			expectedStatus: http.StatusOK,
			expectedBody: []api.Tenant{
				{Name: "fabrikam", Source: "files"},
				{Name: "contoso", Source: "s3"},
			},
		},
		{
			name: "empty registry",
			setupMock: func(m *mockExplorer) {
				m.On("ListTenants", mock.Anything).Return([]domain.TenantProfile{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   []api.Tenant{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explorer := new(mockExplorer)
			tt.setupMock(explorer)
			handler := NewHandler(explorer)

			req := httptest.NewRequest("GET", "/tenants", nil)
			rec := httptest.NewRecorder()

			handler.ListTenants(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var response []api.Tenant
			err := json.NewDecoder(rec.Body).Decode(&response)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, response)

			explorer.AssertExpectations(t)
		})
	}
}

func TestListTenants_RegistryError(t *testing.T) {
	explorer := new(mockExplorer)
	explorer.On("ListTenants", mock.Anything).Return(nil, fmt.Errorf("config file unreadable"))
	handler := NewHandler(explorer)

	req := httptest.NewRequest("GET", "/tenants", nil)
	rec := httptest.NewRecorder()

	handler.ListTenants(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func forecastRequest(tenant, query string) *http.Request {
	req := httptest.NewRequest("GET", "/tenants/"+tenant+"/forecast"+query, nil)

	ctx := chi.NewRouteContext()
	ctx.URLParams.Add("tenant", tenant)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}

func TestGetForecast(t *testing.T) {
	sample := &domain.SizingReport{
		RunID:        "run-1",
		Tenant:       "fabrikam",
		WindowDays:   90,
		HorizonYears: 2,
		Method:       domain.GrowthStepwise,
		Workloads: map[domain.Workload]*domain.WorkloadTotals{
			domain.WorkloadMail: {
				Workload:    domain.WorkloadMail,
				EntityCount: 4,
				TotalBytes:  1000,
				GrowthRate:  0.08,
				GrowthBasis: domain.GrowthAssumed,
			},
		},
	}

	t.Run("query parameters reach the controller", func(t *testing.T) {
		explorer := new(mockExplorer)
		controller := new(mockController)
		explorer.On("GetForecastController", mock.Anything, "fabrikam").Return(controller, nil)
		controller.On("BuildForecast", mock.Anything, "fabrikam", mock.MatchedBy(func(s domain.RunSettings) bool {
			return s.WindowDays == 90 &&
				s.Method == domain.GrowthStepwise &&
				s.GrowthPercent == 10 &&
				s.HorizonYears == 2
		})).Return(sample, nil)

		handler := NewHandler(explorer)
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", "?window=90&method=stepwise&growth=10&horizon=2"))

		assert.Equal(t, http.StatusOK, rec.Code)

		var response api.SizingReport
		assert.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "run-1", response.RunID)
		assert.Equal(t, "fabrikam", response.Tenant)
		assert.Len(t, response.Workloads, 1)
		assert.Equal(t, "mail", response.Workloads[0].Workload)
		assert.InDelta(t, 8.0, response.Workloads[0].GrowthPercent, 1e-9)

		explorer.AssertExpectations(t)
		controller.AssertExpectations(t)
	})

	t.Run("defaults apply when the query is empty", func(t *testing.T) {
		explorer := new(mockExplorer)
		controller := new(mockController)
		explorer.On("GetForecastController", mock.Anything, "fabrikam").Return(controller, nil)
		controller.On("BuildForecast", mock.Anything, "fabrikam", domain.DefaultRunSettings()).
			Return(sample, nil)

		handler := NewHandler(explorer)
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", ""))

		assert.Equal(t, http.StatusOK, rec.Code)
		controller.AssertExpectations(t)
	})

	t.Run("malformed window parameter", func(t *testing.T) {
		handler := NewHandler(new(mockExplorer))
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", "?window=ninety"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid 'window' parameter")
	})

	t.Run("unsupported reporting window", func(t *testing.T) {
		handler := NewHandler(new(mockExplorer))
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", "?window=45"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid reporting window")
	})

	t.Run("unknown growth method", func(t *testing.T) {
		handler := NewHandler(new(mockExplorer))
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", "?method=quadratic"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "unknown growth method")
	})

	t.Run("unknown tenant", func(t *testing.T) {
		explorer := new(mockExplorer)
		explorer.On("GetForecastController", mock.Anything, "nobody").
			Return(nil, fmt.Errorf("profile `nobody` not found"))

		handler := NewHandler(explorer)
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("nobody", ""))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("controller failure", func(t *testing.T) {
		explorer := new(mockExplorer)
		controller := new(mockController)
		explorer.On("GetForecastController", mock.Anything, "fabrikam").Return(controller, nil)
		controller.On("BuildForecast", mock.Anything, "fabrikam", mock.Anything).
			Return(nil, fmt.Errorf("reports directory missing"))

		handler := NewHandler(explorer)
		rec := httptest.NewRecorder()
		handler.GetForecast(rec, forecastRequest("fabrikam", ""))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
