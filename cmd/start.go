package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"httpdctl/internal/app"
	"httpdctl/internal/config"
	"httpdctl/internal/systemd"
)

var (
	startConfigPath string
	startUseDBus    bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the managed web server unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitCommand(cmd, startConfigPath, startUseDBus, systemd.CommandStart)
	},
}

// runUnitCommand issues one whitelisted systemd command against the unit
// named by the declared configuration.
func runUnitCommand(cmd *cobra.Command, configPath string, useDBus bool, unitCmd systemd.Command) error {
	cfg := app.Config{ConfigPath: configPath, UseDBus: useDBus}
	cfg.ApplyDefaults()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := app.NewServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	unitName := config.DefaultUnit
	if desired, err := config.Load(cfg.ConfigPath); err == nil {
		unitName = desired.UnitName()
	}

	return svc.Unit.Run(ctx, unitCmd, unitName)
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVar(&startConfigPath, "config", "", "Declared configuration file (default "+app.DefaultConfigPath+")")
	startCmd.Flags().BoolVar(&startUseDBus, "dbus", false, "Control systemd over D-Bus instead of shelling out to systemctl")
}
