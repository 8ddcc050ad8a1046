package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jvanvinkenroye/swb/config"
	"github.com/jvanvinkenroye/swb/profiles"
	"github.com/jvanvinkenroye/swb/sru"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *sru.Client

	version   = "dev"
	buildTime = "unknown"

	// Persistent flags
	profileName string
	customURL   string
	verbose     bool
	quiet       bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "swb",
	Short: "Search German library union catalogs over SRU",
	Long: `swb is a CLI for searching German library union catalogs (SWB, K10plus,
GVK, DNB and others) via the SRU protocol. It supports CQL searches, index
browsing (scan), server capability discovery (explain) and related-record
lookups for multi-volume works.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version and selfupdate
// commands.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, t)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "catalog profile (swb, k10plus, gvk, dnb, bvb, hebis)")
	rootCmd.PersistentFlags().StringVar(&customURL, "url", "", "custom SRU endpoint URL (overrides --profile)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all logging except errors")
}

// initializeApp loads the configuration and creates the SRU client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	endpoint, sru20, err := resolveEndpoint()
	if err != nil {
		return err
	}

	client, err = sru.NewClient(endpoint, logger,
		sru.WithTimeout(time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second),
		sru.WithAPIKey(cfg.Catalog.APIKey),
		sru.WithRateLimit(cfg.Catalog.RateLimit),
		sru.WithSRU20(sru20),
	)
	if err != nil {
		return fmt.Errorf("failed to create SRU client: %w", err)
	}

	return nil
}

// resolveEndpoint picks the SRU endpoint from flags and config.
// Priority: --url > --profile > config.
func resolveEndpoint() (string, bool, error) {
	if customURL != "" {
		// Capability of a custom endpoint is unknown; assume 2.0 so facet
		// requests are at least attempted.
		return customURL, true, nil
	}

	name := profileName
	if name == "" {
		if cfg.Catalog.URL != "" {
			return cfg.Catalog.URL, true, nil
		}
		name = cfg.Catalog.Profile
	}

	p, err := profiles.Get(name)
	if err != nil {
		return "", false, err
	}
	return p.URL, p.SRU20, nil
}

// setupLogger configures the zerolog logger
func setupLogger(lc config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if lc.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !lc.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
