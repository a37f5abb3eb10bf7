package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mselser95/protondb-tags/internal/app"
)

//nolint:gochecknoglobals // Cobra boilerplate
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Tag every game in the Steam library with its ProtonDB rating",
	Long: `Finds sharedconfig.vdf (or uses --sharedconfig), looks up each game and
writes its "ProtonDB Ranking" tag. The file is only written after confirmation,
then Steam is asked to re-import collections.

Examples:
  # Tag the library, checking the Steam Store for native Linux games first
  protondb-tags sync --check-native

  # Dry run against a specific file
  protondb-tags sync -n -s ~/.steam/steam/userdata/12345/7/remote/sharedconfig.vdf`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().BoolP("check-native", "c", false, "Check the Steam Store for native Linux support (adds over a second per uncached game)")
	syncCmd.Flags().BoolP("no-save", "n", false, "Never write sharedconfig.vdf, for unattended testing")
	syncCmd.Flags().StringP("sharedconfig", "s", "", "Path to sharedconfig.vdf instead of searching for it")
	syncCmd.Flags().BoolP("yes", "y", false, "Save without asking")
	syncCmd.Flags().Bool("no-launch", false, "Do not ask Steam to re-import collections after saving")
	syncCmd.Flags().Bool("owned", false, "Also tag owned games missing from sharedconfig.vdf (needs a Steam Web API key)")
	syncCmd.Flags().IntP("user", "u", -1, "Steam user number to open when several are found")
	syncCmd.Flags().String("metrics-file", "", "Write Prometheus metrics in text format to this file after the run")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	flags := cmd.Flags()
	checkNative, _ := flags.GetBool("check-native")
	noSave, _ := flags.GetBool("no-save")
	sharedconfigPath, _ := flags.GetString("sharedconfig")
	assumeYes, _ := flags.GetBool("yes")
	noLaunch, _ := flags.GetBool("no-launch")
	includeOwned, _ := flags.GetBool("owned")
	userIndex, _ := flags.GetInt("user")
	metricsFile, _ := flags.GetString("metrics-file")

	opts := &app.Options{
		SharedconfigPath: sharedconfigPath,
		CheckNative:      checkNative,
		NoSave:           noSave,
		AssumeYes:        assumeYes,
		NoLaunch:         noLaunch,
		IncludeOwned:     includeOwned,
		UserIndex:        userIndex,
		In:               cmd.InOrStdin(),
		Out:              cmd.OutOrStdout(),
	}

	application, err := app.New(cfg, logger, opts)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	summary, runErr := application.Run(cmd.Context())
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}

	if metricsFile != "" {
		err = prometheus.WriteToTextfile(metricsFile, prometheus.DefaultGatherer)
		if err != nil {
			logger.Warn("metrics-file-write-failed",
				zap.String("path", metricsFile),
				zap.Error(err))
		}
	}

	if runErr != nil {
		return fmt.Errorf("sync: %w", runErr)
	}
	return nil
}

func printSummary(w io.Writer, s *app.Summary) {
	fmt.Fprintf(w, "\nTagged %d, unchanged %d, unrated %d, skipped %d",
		s.Tagged, s.Unchanged, s.Unrated, s.Skipped)
	if s.UnknownTier > 0 {
		fmt.Fprintf(w, ", unknown rating %d", s.UnknownTier)
	}
	if s.Added > 0 {
		fmt.Fprintf(w, ", added from library %d", s.Added)
	}
	fmt.Fprintf(w, " (%d remote lookups, %d cached)\n", s.RemoteLookups, s.CacheHits)

	if s.NativeSkipped > 0 {
		fmt.Fprintf(w, "The Steam Store kept failing, native checks were skipped for %d games\n", s.NativeSkipped)
	}
	if s.CheckpointFailures > 0 {
		fmt.Fprintf(w, "Warning: saving the cache failed %d times, see the log\n", s.CheckpointFailures)
	}
	if s.Saved {
		fmt.Fprintf(w, "Saved %s\n", s.SharedconfigPath)
	}
}
