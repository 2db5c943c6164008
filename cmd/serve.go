package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/db"
	"github.com/jcdickinson/noogle/internal/search"
	"github.com/jcdickinson/noogle/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve function pages and the JSON API over HTTP",
	Example: `  noogle serve
  noogle serve --addr 127.0.0.1:8080 --watch`,
	Run: runServe,
}

var (
	serveAddr    string
	serveWatch   bool
	serveNoIndex bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the corpus when data.path changes")
	serveCmd.Flags().BoolVar(&serveNoIndex, "no-index", false, "disable the search index")
}

// openLibrary loads the configured corpus into a Library. The returned close
// func releases the search index.
func openLibrary(cfg *config.Config, withIndex bool) (*server.Library, func(), error) {
	variant, err := variantFor(cfg)
	if err != nil {
		return nil, nil, err
	}

	corpus, data, source, err := loadCorpus(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := server.Options{
		Linker: linkerFor(cfg),
		Theme:  variant,
		Cache:  cas.New(config.CASDir()),
		Source: source,
	}
	closeFn := func() {}
	if withIndex {
		database, err := db.New(config.DBPath())
		if err != nil {
			return nil, nil, err
		}
		opts.Searcher = search.NewSearcher(database)
		closeFn = func() { database.Close() }
	}

	lib := server.NewLibrary(opts)
	if err := lib.Load(corpus, data); err != nil {
		closeFn()
		return nil, nil, err
	}
	return lib, closeFn, nil
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	lib, closeLib, err := openLibrary(cfg, !serveNoIndex)
	if err != nil {
		log.Fatalf("failed to open library: %v", err)
	}
	defer closeLib()

	variant, _ := variantFor(cfg)
	srv := server.New(lib, cfg.Server.Addr, variant)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serveWatch {
		go func() {
			err := server.Watch(ctx, cfg.Data.Path, func() error {
				corpus, data, _, err := loadCorpus(cfg)
				if err != nil {
					return err
				}
				return lib.Load(corpus, data)
			})
			if err != nil {
				log.Printf("watch stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	if err := waitForSignal(errCh); err != nil {
		log.Fatalf("server error: %v", err)
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	srv.Stop(shutdownCtx)
}

func waitForSignal(errCh chan error) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		log.Printf("received signal: %s", sig)
		return nil
	case err := <-errCh:
		return err
	}
}
