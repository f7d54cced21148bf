package tenant

import (
	"context"
	"fmt"
	"sync"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/services/config"
	"github.com/de-tools/capacity-atlas/pkg/services/forecast"
	"github.com/de-tools/capacity-atlas/pkg/services/licensing"
	"github.com/de-tools/capacity-atlas/pkg/store/duckdb"
	"github.com/de-tools/capacity-atlas/pkg/store/duckdb/history"
	"github.com/de-tools/capacity-atlas/pkg/store/report"
	"github.com/de-tools/capacity-atlas/pkg/store/solver"
)

// Explorer resolves configured tenants into ready-to-run forecast
// controllers.
type Explorer interface {
	ListTenants(ctx context.Context) ([]domain.TenantProfile, error)
	GetForecastController(ctx context.Context, tenant string) (forecast.Controller, error)
}

type tenantExplorer struct {
	registry config.Registry

	mu          sync.Mutex
	controllers map[string]forecast.Controller
}

func NewExplorer(registry config.Registry) Explorer {
	return &tenantExplorer{
		registry:    registry,
		controllers: make(map[string]forecast.Controller),
	}
}

func (e *tenantExplorer) ListTenants(ctx context.Context) ([]domain.TenantProfile, error) {
	names, err := e.registry.GetProfiles(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.TenantProfile, 0, len(names))
	for _, name := range names {
		profile, err := e.registry.GetProfile(ctx, name)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// GetForecastController wires the source, allocator and history store a
// tenant's profile describes into a controller. Controllers are cached
// per tenant so the history database is opened once per process.
func (e *tenantExplorer) GetForecastController(ctx context.Context, tenant string) (forecast.Controller, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ctrl, ok := e.controllers[tenant]; ok {
		return ctrl, nil
	}

	profile, err := e.registry.GetProfile(ctx, tenant)
	if err != nil {
		return nil, err
	}

	source, err := buildSource(ctx, profile)
	if err != nil {
		return nil, err
	}

	var solverClient licensing.Solver
	if profile.SolverURL != "" {
		solverClient = solver.NewClient(profile.SolverURL)
	}
	allocator := licensing.NewAllocator(solverClient)

	var snapshots forecast.History
	if profile.HistoryPath != "" {
		db, err := duckdb.NewDB(duckdb.Settings{DbPath: profile.HistoryPath})
		if err != nil {
			return nil, fmt.Errorf("failed to open history db for %q: %w", tenant, err)
		}
		snapshots, err = history.NewStore(db)
		if err != nil {
			return nil, err
		}
	}

	ctrl, err := forecast.NewController(source, allocator, snapshots)
	if err != nil {
		return nil, err
	}
	e.controllers[tenant] = ctrl
	return ctrl, nil
}

func buildSource(ctx context.Context, profile *domain.TenantProfile) (report.Source, error) {
	switch profile.Source {
	case domain.SourceS3:
		cfg, err := report.LoadAWSConfig(ctx, profile.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config for %q: %w", profile.Name, err)
		}
		return report.NewS3Source(*cfg, profile.Bucket, profile.Prefix), nil
	default:
		return report.NewDirSource(profile.ReportsDir), nil
	}
}
