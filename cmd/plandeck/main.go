// File path: cmd/plandeck/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/plandeck/plandeck/internal/api"
	"github.com/plandeck/plandeck/internal/common"
	"github.com/plandeck/plandeck/internal/llm"
	"github.com/plandeck/plandeck/internal/report"
	"github.com/plandeck/plandeck/internal/store"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("plandeck: .env file not loaded", "error", err)
	} else {
		logger.Info("plandeck: environment loaded from .env")
	}

	addr := flag.String("addr", ":8080", "listen address")
	dbPath := flag.String("db", defaultStorePath(), "path to the SQLite project database")
	themePath := flag.String("theme", "", "path to a YAML theme override for generated reports")
	flag.Parse()

	logger.Info("plandeck: startup initiated", "addr", *addr, "db", *dbPath)

	storeCfg, err := store.LoadConfig()
	if err != nil {
		logger.Error("plandeck: store config load failed", "error", err)
		fmt.Println("store config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		storeCfg.Path = trimmed
	}

	st, err := store.OpenWithConfig(storeCfg)
	if err != nil {
		logger.Error("plandeck: store initialization failed", "error", err)
		fmt.Println("store error:", err)
		os.Exit(1)
	}
	defer st.Close()

	theme := report.DefaultTheme()
	if trimmed := strings.TrimSpace(*themePath); trimmed != "" {
		theme, err = report.LoadTheme(trimmed)
		if err != nil {
			logger.Error("plandeck: theme load failed", "path", trimmed, "error", err)
			fmt.Println("theme error:", err)
			os.Exit(1)
		}
		logger.Info("plandeck: theme loaded", "path", trimmed)
	}

	provider := llm.NewProvider(ctx)
	logger.Info("plandeck: llm provider ready", "provider", provider.Name())

	server, err := api.NewServer(st, provider, theme)
	if err != nil {
		logger.Error("plandeck: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("plandeck: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("plandeck: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("plandeck: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

func defaultStorePath() string {
	return filepath.Join("data", "plandeck.db")
}
