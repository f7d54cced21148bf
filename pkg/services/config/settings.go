package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/capacity-atlas/pkg/models/domain"
	"github.com/spf13/viper"
)

// Settings is the optional tool settings file, applied underneath
// command-line flags:
//
//	window_days: 180
//	method: stepwise
//	growth_percent: 30
//	horizon_years: 5
//	count_shared: true
//	skip_archive: false
type Settings struct {
	WindowDays    int    `mapstructure:"window_days"`
	Method        string `mapstructure:"method"`
	GrowthPercent int    `mapstructure:"growth_percent"`
	HorizonYears  int    `mapstructure:"horizon_years"`
	CountShared   bool   `mapstructure:"count_shared"`
	SkipArchive   bool   `mapstructure:"skip_archive"`
}

// LoadSettings reads the settings file and overlays it on the defaults.
func LoadSettings(path string) (*domain.RunSettings, error) {
	defaults := domain.DefaultRunSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("window_days", defaults.WindowDays)
	v.SetDefault("method", string(defaults.Method))
	v.SetDefault("growth_percent", defaults.GrowthPercent)
	v.SetDefault("horizon_years", defaults.HorizonYears)
	v.SetDefault("count_shared", defaults.CountShared)
	v.SetDefault("skip_archive", defaults.SkipArchive)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var fileCfg Settings
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	method, err := domain.ParseGrowthMethod(fileCfg.Method)
	if err != nil {
		return nil, err
	}

	settings := domain.RunSettings{
		WindowDays:    fileCfg.WindowDays,
		Method:        method,
		GrowthPercent: fileCfg.GrowthPercent,
		HorizonYears:  fileCfg.HorizonYears,
		CountShared:   fileCfg.CountShared,
		SkipArchive:   fileCfg.SkipArchive,
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

// LoadMemberFilter reads one entity identifier per line. Blank lines and
// #-comments are ignored.
func LoadMemberFilter(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open member filter: %w", err)
	}
	defer f.Close()

	filter := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		filter[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read member filter: %w", err)
	}
	return filter, nil
}
