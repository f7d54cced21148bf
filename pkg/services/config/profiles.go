package config

import (
	"context"
	"fmt"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry reads tenant profiles from an ini file, one section per
// tenant:
//
//	[fabrikam]
//	source      = files
//	reports_dir = /var/exports/fabrikam
//	solver_url  = https://solver.internal/v1/solve
//	history_db  = /var/lib/capacity-atlas/fabrikam.duckdb
//
//	[contoso]
//	source = s3
//	bucket = usage-exports
//	prefix = tenants/contoso
//	region = eu-west-1
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, name string) (*domain.TenantProfile, error)
}

type tenantRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &tenantRegistry{cfg: cfg}, nil
}

func (r *tenantRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (r *tenantRegistry) GetProfile(_ context.Context, name string) (*domain.TenantProfile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("tenant profile %s not found", name)
	}

	profile := &domain.TenantProfile{
		Name:        name,
		ReportsDir:  section.Key("reports_dir").String(),
		Bucket:      section.Key("bucket").String(),
		Prefix:      section.Key("prefix").String(),
		Region:      section.Key("region").String(),
		SolverURL:   section.Key("solver_url").String(),
		HistoryPath: section.Key("history_db").String(),
	}

	switch source := section.Key("source").String(); source {
	case "", string(domain.SourceFiles):
		profile.Source = domain.SourceFiles
	case string(domain.SourceS3):
		profile.Source = domain.SourceS3
	default:
		return nil, fmt.Errorf("tenant profile %s has an unknown source %q", name, source)
	}

	if profile.Source == domain.SourceFiles && profile.ReportsDir == "" {
		return nil, fmt.Errorf("tenant profile %s needs reports_dir", name)
	}
	if profile.Source == domain.SourceS3 && profile.Bucket == "" {
		return nil, fmt.Errorf("tenant profile %s needs bucket", name)
	}

	return profile, nil
}
