package commands

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/de-tools/capacity-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/capacity-atlas/pkg/services/config"
	"github.com/de-tools/capacity-atlas/pkg/services/tenant"
	"github.com/spf13/cobra"
)

// Archive collection walks mailboxes one by one, so a forecast run can
// take a while on large tenants.
const forecastTimeout = 10 * time.Minute

type ForecastCmd struct {
	cfgPath      string
	profile      string
	settingsPath string
	window       int
	method       string
	growth       int
	horizon      int
	membersPath  string
	skipArchive  bool
	reporter     *export.Reporter
}

func NewForecastCmd(reporter *export.Reporter) *cobra.Command {
	fc := &ForecastCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast storage demand and license needs for a tenant",
		RunE:  fc.run,
	}

	cmd.Flags().StringVar(&fc.cfgPath, "config", defaultConfigPath(), "Path to the tenants config file")
	cmd.Flags().StringVar(&fc.profile, "profile", "", "Tenant profile to forecast")
	cmd.Flags().StringVar(&fc.settingsPath, "settings", "", "Path to a run settings file")
	cmd.Flags().IntVar(&fc.window, "window", 180, "Reporting window in days (7, 30, 90 or 180)")
	cmd.Flags().StringVar(&fc.method, "method", "endpoints", "Growth derivation method (endpoints or stepwise)")
	cmd.Flags().IntVar(&fc.growth, "growth", 30, "Assumed annual growth percent when no history exists")
	cmd.Flags().IntVar(&fc.horizon, "horizon", 5, "Custom projection horizon in years")
	cmd.Flags().StringVar(&fc.membersPath, "members", "", "Path to a member list, one identifier per line")
	cmd.Flags().BoolVar(&fc.skipArchive, "skip-archive", false, "Skip the per-mailbox archive collection pass")

	_ = cmd.MarkFlagRequired("profile")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), forecastTimeout)
	defer cancel()

	settings, err := fc.buildSettings(cmd)
	if err != nil {
		return err
	}

	registry, err := config.NewRegistry(fc.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load tenant config: %w", err)
	}

	ctrl, err := tenant.NewExplorer(registry).GetForecastController(ctx, fc.profile)
	if err != nil {
		return err
	}

	result, err := ctrl.BuildForecast(ctx, fc.profile, settings)
	if err != nil {
		return fmt.Errorf("forecast for %q failed: %w", fc.profile, err)
	}

	return fc.reporter.Handle(result)
}

// buildSettings layers the run configuration: defaults, then the settings
// file, then any flag set explicitly on the command line.
func (fc *ForecastCmd) buildSettings(cmd *cobra.Command) (domain.RunSettings, error) {
	settings := domain.DefaultRunSettings()

	if fc.settingsPath != "" {
		loaded, err := config.LoadSettings(fc.settingsPath)
		if err != nil {
			return settings, err
		}
		settings = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("window") {
		settings.WindowDays = fc.window
	}
	if flags.Changed("method") {
		method, err := domain.ParseGrowthMethod(fc.method)
		if err != nil {
			return settings, err
		}
		settings.Method = method
	}
	if flags.Changed("growth") {
		settings.GrowthPercent = fc.growth
	}
	if flags.Changed("horizon") {
		settings.HorizonYears = fc.horizon
	}
	if flags.Changed("skip-archive") {
		settings.SkipArchive = fc.skipArchive
	}

	if fc.membersPath != "" {
		filter, err := config.LoadMemberFilter(fc.membersPath)
		if err != nil {
			return settings, err
		}
		settings.MemberFilter = filter
	}

	return settings, settings.Validate()
}

func defaultConfigPath() string {
	usr, err := user.Current()
	if err != nil {
		return ".capacity-atlas.ini"
	}
	return filepath.Join(usr.HomeDir, ".capacity-atlas.ini")
}
