package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"httpdctl/internal/app"
	"httpdctl/internal/config"
)

var (
	statusConfigPath string
	statusDataPath   string
	statusApacheDir  string
	statusUseDBus    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the managed web server",
	Long: `Shows the state of the managed apache2 instance: whether the unit is
active, and for each declared module whether it is applied and what the
installation reports for it.

Examples:
  httpdctl status
  httpdctl status --config /etc/httpdctl/httpdctl.yaml`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := app.Config{
		ConfigPath:      statusConfigPath,
		DataPath:        statusDataPath,
		ApacheConfigDir: statusApacheDir,
		UseDBus:         statusUseDBus,
	}
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

	desired, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return err
	}

	st, err := svc.Store.Load()
	if err != nil {
		return err
	}

	unitName := desired.UnitName()
	active, err := svc.Unit.IsActive(ctx, unitName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	unitState := text.FgRed.Sprint("inactive")
	if active {
		unitState = text.FgGreen.Sprint("active")
	}
	fmt.Fprintf(out, "Unit %s: %s (ready=%t)\n", unitName, unitState, st.Ready)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"MODULE", "APPLIED", "INSTALLATION"})

	for _, module := range desired.ModuleNames() {
		applied := "no"
		if st.CurrentModules.Has(module) {
			applied = "yes"
		}

		modState, err := svc.Probe.QueryModule(ctx, module)
		if err != nil {
			return err
		}

		t.AppendRow(table.Row{module, applied, modState.String()})
	}
	t.Render()

	return nil
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringVar(&statusConfigPath, "config", "", "Declared configuration file (default "+app.DefaultConfigPath+")")
	statusCmd.Flags().StringVar(&statusDataPath, "data-path", "", "Directory for persisted controller state")
	statusCmd.Flags().StringVar(&statusApacheDir, "apache-conf-dir", "", "apache2 configuration root")
	statusCmd.Flags().BoolVar(&statusUseDBus, "dbus", false, "Control systemd over D-Bus instead of shelling out to systemctl")
}
