package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"httpdctl/internal/app"
)

var (
	installDataPath  string
	installApacheDir string
	installUseDBus   bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the managed web server",
	Long: `Installs the apache2 package and prepares the controller baseline:
an empty applied module set and the stock default site disabled, so only
managed virtual hosts are active.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg := app.Config{
		DataPath:        installDataPath,
		ApacheConfigDir: installApacheDir,
		UseDBus:         installUseDBus,
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

	return svc.InitialSetup(ctx)
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringVar(&installDataPath, "data-path", "", "Directory for persisted controller state")
	installCmd.Flags().StringVar(&installApacheDir, "apache-conf-dir", "", "apache2 configuration root")
	installCmd.Flags().BoolVar(&installUseDBus, "dbus", false, "Control systemd over D-Bus instead of shelling out to systemctl")
}
