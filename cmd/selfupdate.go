package cmd

import (
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateSlug = "jvanvinkenroye/swb"

var selfupdateCheckOnly bool

var selfupdateCmd = &cobra.Command{
	Use:   "selfupdate",
	Short: "Update swb to the latest release",
	Long:  `Check GitHub for a newer release and replace the running binary with it.`,
	Args:  cobra.NoArgs,
	RunE:  runSelfupdate,
}

func init() {
	rootCmd.AddCommand(selfupdateCmd)

	selfupdateCmd.Flags().BoolVar(&selfupdateCheckOnly, "check", false, "only check for a newer release, do not install")
}

func runSelfupdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a non-release build (version %q); install a released binary first", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateSlug))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s on this platform", updateSlug)
	}

	if latest.LessOrEqual(current.String()) {
		fmt.Printf("swb %s is up to date\n", current)
		return nil
	}

	fmt.Printf("New version available: %s (current: %s)\n", latest.Version(), current)
	if selfupdateCheckOnly {
		fmt.Printf("Release notes:\n%s\n", latest.ReleaseNotes)
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}

	logger.Info().
		Str("from", current.String()).
		Str("to", latest.Version()).
		Msg("Installing update")

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to install update: %w", err)
	}

	fmt.Printf("Updated to %s\n", latest.Version())
	return nil
}
