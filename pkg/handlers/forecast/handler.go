package forecast

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/de-tools/capacity-atlas/pkg/adapters"
	"github.com/de-tools/capacity-atlas/pkg/models/api"
	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/services/tenant"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Handler struct {
	tenants tenant.Explorer
}

func NewHandler(tenants tenant.Explorer) *Handler {
	return &Handler{tenants: tenants}
}

func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	profiles, err := h.tenants.ListTenants(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list tenants")
		http.Error(w, "failed to list tenants", http.StatusInternalServerError)
		return
	}

	response := make([]api.Tenant, 0, len(profiles))
	for _, p := range profiles {
		response = append(response, adapters.MapTenantProfileDomainToApi(p))
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().
			Err(err).
			Msg("failed to encode tenants")
	}
}

func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "tenant")

	settings, err := settingsFromQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctrl, err := h.tenants.GetForecastController(ctx, name)
	if err != nil {
		logger.Error().Err(err).Str("tenant", name).Msg("failed to resolve tenant")
		http.Error(w, fmt.Sprintf("unknown tenant %q", name), http.StatusNotFound)
		return
	}

	result, err := ctrl.BuildForecast(ctx, name, settings)
	if err != nil {
		logger.Error().Err(err).Str("tenant", name).Msg("forecast failed")
		http.Error(w, "forecast failed", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(adapters.MapSizingReportDomainToApi(result)); err != nil {
		logger.Error().
			Err(err).
			Str("tenant", name).
			Msg("failed to encode forecast")
	}
}

// settingsFromQuery overlays the request's query parameters on the
// default run settings.
func settingsFromQuery(r *http.Request) (domain.RunSettings, error) {
	settings := domain.DefaultRunSettings()

	var err error
	if settings.WindowDays, err = intParam(r, "window", settings.WindowDays); err != nil {
		return settings, err
	}
	if settings.GrowthPercent, err = intParam(r, "growth", settings.GrowthPercent); err != nil {
		return settings, err
	}
	if settings.HorizonYears, err = intParam(r, "horizon", settings.HorizonYears); err != nil {
		return settings, err
	}

	if raw := r.URL.Query().Get("method"); raw != "" {
		settings.Method, err = domain.ParseGrowthMethod(raw)
		if err != nil {
			return settings, err
		}
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid '%s' parameter, expected an integer", name)
	}
	return v, nil
}
