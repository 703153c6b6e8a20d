package main

import (
	"fmt"
	"os/signal"
	"slices"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"newsdesk/internal/app"
	"newsdesk/internal/article"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/logger"
	"newsdesk/internal/news"
	"newsdesk/internal/stocks"
	"newsdesk/internal/store"
)

var (
	version = "dev"
	commit  = "none"
)

type options struct {
	config string
	addr   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "newsdesk",
		Short:        "Caching news, stocks and widgets backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.config, "config", "", "path to config file")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	serve.Flags().StringVar(&opts.addr, "addr", "", "HTTP listen address (overrides config and PORT)")
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newCacheCmd(opts), versionCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsdesk %s (commit: %s)\n", version, commit)
		},
	}
}

// setup loads configuration and opens the cache store. The caller closes the
// returned store.
func setup(opts *options) (*config.Config, store.Store, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return cfg, st, nil
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, st, err := setup(opts)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := logger.InitLogger(cfg.Env); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()
	log := logger.Log

	addr := cfg.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	c := cache.New(st, cache.WithLogger(log.Named("cache")))
	srv, err := app.NewServer(cfg, c, log)
	if err != nil {
		return fmt.Errorf("initializing server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting newsdesk",
		zap.String("version", version),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("news_source", cfg.News.Source),
		zap.String("content_mode", cfg.Content.Mode))
	return srv.Run(ctx, addr)
}

// knownNamespaces are the names accepted by cache clear.
var knownNamespaces = []string{
	news.CollectionNamespace.Name,
	article.ContentNamespace.Name,
	stocks.Namespace(0).Name,
}

func newCacheCmd(opts *options) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the local cache",
	}

	clearCmd := &cobra.Command{
		Use:       "clear [namespace]",
		Short:     "Remove cached entries, all of them or one namespace",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: knownNamespaces,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(opts)
			if err != nil {
				return err
			}
			defer st.Close()
			c := cache.New(st)

			names := knownNamespaces
			if len(args) == 1 {
				if !slices.Contains(knownNamespaces, args[0]) {
					return fmt.Errorf("unknown namespace %q (valid: %v)", args[0], knownNamespaces)
				}
				names = args[:1]
			}

			total := 0
			for _, name := range names {
				n, err := c.ClearNamespace(cache.Namespace{Name: name})
				if err != nil {
					return fmt.Errorf("clearing %s: %w", name, err)
				}
				total += n
			}
			if total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear.")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entr%s.\n", total, plural(total))
			}
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cached entries per namespace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(opts)
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := cache.New(st).Stats()
			if err != nil {
				return fmt.Errorf("reading stats: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Storage: %s %s\n", cfg.Storage.Driver, cfg.Storage.Path)
			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%-16s %d\n", name, counts[name])
			}
			if len(names) == 0 {
				fmt.Fprintln(out, "Cache is empty.")
			}
			return nil
		},
	}

	cacheCmd.AddCommand(clearCmd, statsCmd)
	return cacheCmd
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
