package cmd

import (
	"github.com/spf13/cobra"

	"httpdctl/internal/app"
	"httpdctl/internal/systemd"
)

var (
	stopConfigPath string
	stopUseDBus    bool
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the managed web server unit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnitCommand(cmd, stopConfigPath, stopUseDBus, systemd.CommandStop)
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)

	stopCmd.Flags().StringVar(&stopConfigPath, "config", "", "Declared configuration file (default "+app.DefaultConfigPath+")")
	stopCmd.Flags().BoolVar(&stopUseDBus, "dbus", false, "Control systemd over D-Bus instead of shelling out to systemctl")
}
