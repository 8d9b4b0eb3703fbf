// The Main function of the service. It sets everything up, creates a
// library, creates a webserver and waits for a signal to stop.
//
// It is in package src because it is imported from the project's root
// main.go.
package src

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/calliopefm/calliope/src/art"
	"github.com/calliopefm/calliope/src/bio"
	"github.com/calliopefm/calliope/src/config"
	"github.com/calliopefm/calliope/src/helpers"
	"github.com/calliopefm/calliope/src/library"
	"github.com/calliopefm/calliope/src/scaler"
	"github.com/calliopefm/calliope/src/version"
	"github.com/calliopefm/calliope/src/webserver"
)

var (
	showVersion = flag.Bool("v", false, "Print version information and exit.")
)

// getLibrary returns a new LocalLibrary using the application config. The
// sqlite database file lives in the user path directory.
func getLibrary(
	ctx context.Context,
	cfg *config.Config,
	artFinder art.Finder,
) (*library.LocalLibrary, error) {
	lib, err := library.NewLocalLibrary(ctx, cfg.SqliteDatabasePath(), afero.NewOsFs())
	if err != nil {
		return nil, err
	}

	if err := lib.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing library: %w", err)
	}

	for _, path := range cfg.Libraries {
		lib.AddLibraryPath(path)
	}

	lib.SetArtFinder(artFinder)
	lib.SetBioFetcher(bio.NewClient(cfg.UserAgent))
	lib.SetScaler(scaler.New())

	lib.Scan()

	return lib, nil
}

// run is Main without the os.Exit so that deferred calls run on errors.
func run() error {
	cfg, err := config.FindAndParse()
	if err != nil {
		return fmt.Errorf("parsing configuration: %w", err)
	}

	if err := helpers.SetLogsFile(cfg.LogFilePath()); err != nil {
		return err
	}

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	artFinder := art.NewClient(
		cfg.UserAgent,
		time.Duration(cfg.ArtworkRequestDelayMs)*time.Millisecond,
		cfg.Spotify.ClientID,
		cfg.Spotify.ClientSecret,
	)

	lib, err := getLibrary(ctx, cfg, artFinder)
	if err != nil {
		return err
	}
	defer lib.Close()

	srv := webserver.NewServer(*cfg, lib, lib, lib, lib, lib, lib, artFinder)
	srv.Serve()

	signals := make(chan os.Signal, 2)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-signals
		log.Printf("Stopping: %s signal received\n", sig)
		srv.Stop()
	}()

	srv.Wait()
	return nil
}

// Main is the only thing run in the project's root main.go file. For all
// intents and purposes this is the main function.
func Main() {
	flag.Parse()

	if *showVersion {
		version.Print(os.Stdout)
		return
	}

	if err := run(); err != nil {
		log.Println(err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
