package commands

import (
	"fmt"

	"github.com/de-tools/capacity-atlas/pkg/services/config"
	"github.com/de-tools/capacity-atlas/pkg/services/tenant"
	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	cfgPath string
}

func NewProfilesCmd() *cobra.Command {
	pc := &ProfilesCmd{}
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List configured tenant profiles",
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.cfgPath, "config", defaultConfigPath(), "Path to the tenants config file")

	return cmd
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	registry, err := config.NewRegistry(pc.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load tenant config: %w", err)
	}

	profiles, err := tenant.NewExplorer(registry).ListTenants(ctx)
	if err != nil {
		return err
	}

	if len(profiles) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No tenant profiles found in %s\n", pc.cfgPath)
		return nil
	}

	for _, p := range profiles {
		fmt.Fprintf(cmd.OutOrStdout(), "Name: `%s`, Source: `%s`\n", p.Name, p.Source)
	}

	return nil
}
