package cli

import (
	"fmt"

	"github.com/lazypower/heartbeat/internal/config"
	"github.com/lazypower/heartbeat/internal/store"
	"github.com/spf13/cobra"
)

var (
	flagMotd   bool
	flagAdd    bool
	flagList   bool
	flagRemove string
	flagPing   string
	flagStatus string
)

var rootCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Track when recurring actions were last performed",
	Long: "Heartbeat records the last time named actions happened and reports\n" +
		"the ones that have gone stale past their leniency window. Run with\n" +
		"--motd at login to see what you have been neglecting.",
	RunE: runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().BoolVar(&flagMotd, "motd", false, "Print the staleness report")
	rootCmd.Flags().BoolVar(&flagAdd, "add", false, "Interactively add a tracked action")
	rootCmd.Flags().BoolVar(&flagList, "list", false, "List every tracked action name")
	rootCmd.Flags().StringVar(&flagRemove, "remove", "", "Stop tracking the named action")
	rootCmd.Flags().StringVar(&flagPing, "ping", "", "Record that the named action just happened")
	rootCmd.Flags().StringVar(&flagStatus, "status", "", "Show when the named action was last done")
	rootCmd.AddCommand(versionCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	switch {
	case flagMotd:
		return runMotd(cmd, cfg)
	case flagAdd:
		return runAdd(cmd, cfg)
	case flagRemove != "":
		return runRemove(cmd, cfg, flagRemove)
	case flagPing != "":
		return runPing(cmd, cfg, flagPing)
	case flagStatus != "":
		return runStatus(cmd, cfg, flagStatus)
	case flagList:
		return runList(cmd, cfg)
	default:
		return cmd.Help()
	}
}

func loadConfig() (config.Config, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), err
	}
	return config.Load(path)
}

// openStore opens the store at the configured path, falling back to the
// default location under the home directory.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.Database.Path
	if path == "" {
		var err error
		path, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
