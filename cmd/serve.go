package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"httpdctl/internal/app"
	"httpdctl/pkg/logging"
)

// Serve flags. The daemon watches the declared-configuration file and keeps
// the managed apache2 instance converged on it.
var (
	serveConfigPath    string
	serveDataPath      string
	serveApacheConfDir string
	serveUseDBus       bool
	serveDebug         bool
	serveJSONLog       bool
	serveRedelivery    time.Duration
	serveDebounce      time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the controller daemon",
	Long: `Runs the httpdctl controller daemon. The daemon watches the declared
configuration file and converges the managed apache2 instance on it:

  - enables and disables apache2 modules to match the declared set,
    restarting the service when the set changed
  - persists the applied module set so interrupted passes resume from
    what was actually committed
  - activates declared virtual hosts once the service reports ready,
    deferring activation until then

The daemon runs until interrupted (SIGINT/SIGTERM).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if serveDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr, serveJSONLog)

	cfg := app.Config{
		ConfigPath:         serveConfigPath,
		DataPath:           serveDataPath,
		ApacheConfigDir:    serveApacheConfDir,
		UseDBus:            serveUseDBus,
		Debug:              serveDebug,
		JSONLog:            serveJSONLog,
		RedeliveryInterval: serveRedelivery,
		DebounceInterval:   serveDebounce,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	application, err := app.NewApplication(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Declared configuration file to watch (default "+app.DefaultConfigPath+")")
	serveCmd.Flags().StringVar(&serveDataPath, "data-path", "", "Directory for persisted controller state")
	serveCmd.Flags().StringVar(&serveApacheConfDir, "apache-conf-dir", "", "apache2 configuration root")
	serveCmd.Flags().BoolVar(&serveUseDBus, "dbus", false, "Control systemd over D-Bus instead of shelling out to systemctl")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().BoolVar(&serveJSONLog, "json-log", false, "Emit logs as JSON")
	serveCmd.Flags().DurationVar(&serveRedelivery, "redelivery-interval", 0, "How often deferred events are redelivered (default 30s)")
	serveCmd.Flags().DurationVar(&serveDebounce, "debounce", 0, "How long to wait for the configuration file to settle (default 500ms)")
}
