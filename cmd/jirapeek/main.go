package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/glouie/jirapeek/internal/config"
	"github.com/glouie/jirapeek/internal/format"
	"github.com/glouie/jirapeek/internal/history"
	"github.com/glouie/jirapeek/internal/jira"
	"github.com/glouie/jirapeek/internal/logging"
	"github.com/glouie/jirapeek/internal/scan"
	"github.com/glouie/jirapeek/internal/tui"
)

// build-time override (e.g. -ldflags "-X main.version=1.2.3")
var version = "dev"

// Global (root-level) flag variables
var (
	flagDebug     bool
	flagConfigDir string
)

func main() {
	root := newRootCmd()
	root.SilenceUsage = true
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root Cobra command. Running it with no
// subcommand starts the interactive TUI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jirapeek",
		Short: "Peek at Jira issues from the terminal",
		Long: strings.TrimSpace(`
jirapeek - look up Jira issues without leaving the terminal

Run with no arguments for the interactive TUI: a JQL prompt with
syntax highlighting and autocompletion, a results table, and an issue
detail view. Subcommands cover one-shot lookups for scripts and
pipelines.`),
		RunE: runTUI,
	}

	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to the config dir")
	cmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Override the config directory")
	cmd.Version = version

	cmd.AddCommand(newViewCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("jirapeek version: %s\n", version)
		},
	}
}

// configDir resolves the directory holding config, history, and logs.
func configDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	return config.DefaultConfigDir()
}

// runtimeEnv bundles what the online commands share: parsed config,
// an authenticated client, the resolved config dir, and a logger.
type runtimeEnv struct {
	cfg    *config.Config
	client *jira.Client
	dir    string
	logger *zap.Logger
}

// setup loads config and builds the client and logger shared by the
// online commands.
func setup() (*runtimeEnv, func(), error) {
	dir, err := configDir()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "secrets.yaml"),
	)
	if err != nil {
		return nil, nil, err
	}

	logger, cleanup, err := logging.New(flagDebug, dir)
	if err != nil {
		return nil, nil, err
	}

	client := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken,
		jira.WithLogger(logger))
	return &runtimeEnv{cfg: cfg, client: client, dir: dir, logger: logger}, cleanup, nil
}

// runTUI starts the interactive interface, scaffolding the config on
// first run.
func runTUI(cmd *cobra.Command, args []string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}

	// First run: create sample config and tell the user what to fill in.
	if _, statErr := os.Stat(filepath.Join(dir, "config.yaml")); os.IsNotExist(statErr) &&
		os.Getenv("JIRA_BASE_URL") == "" {
		res, initErr := config.Init(dir)
		if initErr != nil {
			return fmt.Errorf("initializing config: %w", initErr)
		}
		fmt.Printf("Created %s/\n\n", res.Dir)
		fmt.Println("To get started:")
		fmt.Printf("  1. Edit %s with your Jira URL\n", res.ConfigPath)
		fmt.Printf("  2. Edit %s with your email and API token\n", res.SecretsPath)
		fmt.Println("     (generate a token at https://id.atlassian.com/manage-profile/security/api-tokens)")
		fmt.Println("  3. Run jirapeek again")
		return nil
	}

	env, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	app := tui.NewApp(env.client, tui.Options{
		MaxResults: env.cfg.Search.MaxResults,
		Fields:     env.cfg.Search.Fields,
		Debounce:   time.Duration(env.cfg.Search.DebounceMs) * time.Millisecond,
		Searches:   history.Searches(env.dir, env.cfg.History.MaxEntries),
		Issues:     history.Issues(env.dir, env.cfg.History.MaxEntries),
		Logger:     env.logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// newViewCmd creates the 'view' subcommand.
func newViewCmd() *cobra.Command {
	var outputFormat string

	c := &cobra.Command{
		Use:   "view <issue-key>",
		Short: "Show a single issue with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			key := strings.ToUpper(args[0])

			issue, err := env.client.GetIssue(ctx, key)
			if err != nil {
				return err
			}
			comments, err := env.client.GetComments(ctx, key)
			if err != nil {
				// The issue renders fine without them.
				comments = nil
			}

			// Viewing from the CLI counts toward recent issues too.
			if err := history.Issues(env.dir, env.cfg.History.MaxEntries).Add(issue.Key); err != nil {
				env.logger.Debug("saving issue history", zap.Error(err))
			}

			if outputFormat == "json" {
				return format.JSON(os.Stdout, issue)
			}
			format.IssueDetail(os.Stdout, issue, comments, env.client.BrowseURL(issue.Key))
			return nil
		},
	}

	c.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table|json")
	return c
}

// newSearchCmd creates the 'search' subcommand.
func newSearchCmd() *cobra.Command {
	var (
		outputFormat string
		startAt      int
		pageToken    string
		maxResults   int
	)

	c := &cobra.Command{
		Use:   "search [jql]",
		Short: "Run a JQL search",
		Long: strings.TrimSpace(`
Run a JQL search and print the matching issues. With no query, the most
recent search from history is rerun.

Paging:
  --start-at    offset into the result set
  --page-token  continuation token from a previous page; when set it is
                sent as-is and --start-at is ignored`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			searches := history.Searches(env.dir, env.cfg.History.MaxEntries)

			var query string
			if len(args) == 1 {
				query = args[0]
			} else {
				saved := searches.Load()
				if len(saved) == 0 {
					return fmt.Errorf("no query given and search history is empty")
				}
				query = saved[0]
				fmt.Fprintf(os.Stderr, "Rerunning: %s\n", query)
			}

			if maxResults <= 0 {
				maxResults = env.cfg.Search.MaxResults
			}

			result, err := env.client.SearchIssues(context.Background(), jira.SearchOptions{
				JQL:           query,
				Fields:        env.cfg.Search.Fields,
				StartAt:       startAt,
				MaxResults:    maxResults,
				NextPageToken: pageToken,
			})
			if err != nil {
				return err
			}

			if err := searches.Add(query); err != nil {
				env.logger.Debug("saving search history", zap.Error(err))
			}

			if outputFormat == "json" {
				return format.JSON(os.Stdout, result)
			}
			format.SearchResults(os.Stdout, result)
			return nil
		},
	}

	c.Flags().StringVarP(&outputFormat, "format", "f", "table", "Output format: table|json")
	c.Flags().IntVar(&startAt, "start-at", 0, "Result offset for paging")
	c.Flags().StringVar(&pageToken, "page-token", "", "Continuation token from a previous page")
	c.Flags().IntVar(&maxResults, "max-results", 0, "Page size (default from config)")
	return c
}

// newScanCmd creates the 'scan' subcommand.
func newScanCmd() *cobra.Command {
	var fetch bool

	c := &cobra.Command{
		Use:   "scan [file...]",
		Short: "Find issue keys in files or stdin",
		Long: strings.TrimSpace(`
Scan text for Jira issue keys (PROJ-123 style) and print each key with
its line and column. Reads stdin when no files are given. With --fetch,
the distinct keys are looked up and shown with their current status.`),
		RunE: func(cmd *cobra.Command, args []string) error {
			var matches []scan.Match
			if len(args) == 0 {
				found, err := scan.Reader(os.Stdin)
				if err != nil {
					return err
				}
				matches = found
			} else {
				for _, path := range args {
					found, err := scan.File(path)
					if err != nil {
						return err
					}
					matches = append(matches, found...)
				}
			}

			if !fetch {
				format.ScanMatches(os.Stdout, matches)
				return nil
			}

			env, cleanup, err := setup()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := context.Background()
			var issues []jira.Issue
			for _, key := range scan.Keys(matches) {
				issue, err := env.client.GetIssue(ctx, key)
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", key, err)
					continue
				}
				issues = append(issues, *issue)
			}
			format.SearchResults(os.Stdout, &jira.SearchResult{
				Issues: issues,
				Total:  len(issues),
				IsLast: true,
			})
			return nil
		},
	}

	c.Flags().BoolVar(&fetch, "fetch", false, "Look up each distinct key on Jira")
	return c
}

// newHistoryCmd creates the 'history' subcommand.
func newHistoryCmd() *cobra.Command {
	var clearFlag bool

	c := &cobra.Command{
		Use:       "history [searches|issues]",
		Short:     "Show or clear the lookup histories",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"searches", "issues"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return err
			}

			which := "searches"
			if len(args) == 1 {
				which = args[0]
			}

			var store *history.Store
			var header string
			switch which {
			case "searches":
				store = history.Searches(dir, 0)
				header = "Search"
			case "issues":
				store = history.Issues(dir, 0)
				header = "Issue"
			default:
				return fmt.Errorf("unknown history %q (want searches or issues)", which)
			}

			if clearFlag {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Printf("Cleared %s history.\n", which)
				return nil
			}

			format.HistoryEntries(os.Stdout, header, store.Load())
			return nil
		},
	}

	c.Flags().BoolVar(&clearFlag, "clear", false, "Delete the history instead of printing it")
	return c
}

// newInitCmd creates the 'init' subcommand.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create sample config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := configDir()
			if err != nil {
				return err
			}
			res, err := config.Init(dir)
			if err != nil {
				return err
			}
			if !res.WroteConfig && !res.WroteSecrets {
				fmt.Printf("%s/ already exists\n", res.Dir)
				return nil
			}
			fmt.Printf("Created %s/\n", res.Dir)
			fmt.Println("  config.yaml  - Jira URL and search defaults")
			fmt.Println("  secrets.yaml - email and API token")
			return nil
		},
	}
}
