// Command viewer serves a JSON API over the archived game parquet
// files: game listings, turn-by-turn replays, Elo standings, and a
// websocket endpoint that plays a live game on demand.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/okonomi/sushigo/internal/logging"
	"github.com/okonomi/sushigo/store"
)

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	data := flag.String("data", "archives", "comma-separated archive roots")
	ratingsPath := flag.String("ratings", "", "Elo ratings sqlite path (optional)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := logging.New(os.Stderr, level)

	roots := strings.Split(*data, ",")

	var ratings *store.DB
	if *ratingsPath != "" {
		var err error
		ratings, err = store.OpenDB(*ratingsPath)
		if err != nil {
			log.Error("open ratings db", "path", *ratingsPath, "err", err)
			os.Exit(1)
		}
		defer ratings.Close()
	}

	server := NewServer(roots, ratings, log)
	defer server.Close()

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	log.Info("viewer listening", "addr", *addr, "roots", roots)
	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}
