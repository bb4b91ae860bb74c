// ABOUTME: CLI entry point for pi-offline, an offline Turkish conversational assistant
// ABOUTME: Cobra root runs the interactive chat; subcommands cover print, rpc, batch and sessions

package main

import (
	"fmt"
	"os"
	"strings"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/pi-offline-go/internal/termfix"

	"github.com/spf13/cobra"

	"github.com/mauromedda/pi-offline-go/internal/changelog"
	"github.com/mauromedda/pi-offline-go/internal/render"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global flags.
var (
	verbose    bool
	seed       uint64
	simple     bool
	userTopics bool
	workspace  string
	sessionID  string
	resumeLast bool
	noSession  bool
)

var rootCmd = &cobra.Command{
	Use:   "pi-offline",
	Short: "Offline Turkish assistant: intent classification and contextual replies",
	Long: `pi-offline answers Turkish (and mixed English) utterances without any network
access. Each message is classified into an intent, technology entities are
extracted, and a reply is composed from templates using the conversation so far.

Run without arguments to start the interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runChat,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.Uint64Var(&seed, "seed", 0, "Fixed seed for reply variant selection (0 = config or random)")
	pf.BoolVar(&simple, "simple", false, "Use the keyword-only responder")
	pf.BoolVar(&userTopics, "user-topics", false, "Track topics from user turns only")
	pf.StringVarP(&workspace, "workspace", "w", "", "Project directory (default: current)")

	for _, c := range []*cobra.Command{rootCmd, askCmd, rpcCmd} {
		c.Flags().StringVarP(&sessionID, "session", "s", "", "Open or resume the session with this ID")
		c.Flags().BoolVarP(&resumeLast, "continue", "c", false, "Resume the most recent session")
	}
	for _, c := range []*cobra.Command{askCmd, rpcCmd} {
		c.Flags().BoolVar(&noSession, "no-session", false, "Do not persist the conversation")
	}

	sessionsCmd.AddCommand(sessionsListCmd, sessionsForkCmd, sessionsDeleteCmd, sessionsExportCmd)
	rootCmd.AddCommand(askCmd, classifyCmd, rpcCmd, batchCmd, sessionsCmd, versionCmd, changelogCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pi-offline %s (%s) built %s\n", version, commit, date)
	},
}

var changelogAll bool

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Show release notes (latest release unless --all)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		text := changelog.Latest()
		if changelogAll || text == "" {
			text = changelog.Get()
		}
		out := cmd.OutOrStdout()
		if render.IsTerminal(out) {
			text = render.NewMarkdown(render.StyleAuto).Render(text, render.Width(out))
		}
		_, err := fmt.Fprintln(out, strings.TrimRight(text, "\n"))
		return err
	},
}

func init() {
	changelogCmd.Flags().BoolVar(&changelogAll, "all", false, "Show the full changelog")
}
