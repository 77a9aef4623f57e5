package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/felixgeelhaar/echomind/internal/client"
	"github.com/felixgeelhaar/echomind/internal/credential"
	"github.com/felixgeelhaar/echomind/internal/events"
	"github.com/felixgeelhaar/echomind/internal/observe"
	"github.com/felixgeelhaar/echomind/internal/store"
	"github.com/felixgeelhaar/echomind/internal/workflow"
)

const envAPIURL = "API_URL"

func settingsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".echomind"), nil
}

func logPath(dir string) string {
	return filepath.Join(dir, "echomind.log")
}

func getStore() (store.Storage, error) {
	dir, err := settingsDir()
	if err != nil {
		return nil, err
	}
	s, err := store.NewSQLiteStore(filepath.Join(dir, "settings.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}
	return s, nil
}

// resolveBaseURL picks the service URL: flag, then API_URL (after loading
// .env), then the stored setting, then the default.
func resolveBaseURL(flag string, s store.Storage) string {
	if flag != "" {
		return client.NormalizeBaseURL(flag)
	}

	// A missing .env is normal.
	_ = godotenv.Load()
	if v := os.Getenv(envAPIURL); v != "" {
		return client.NormalizeBaseURL(v)
	}

	if v, err := s.GetConfig(store.KeyAPIURL); err == nil && v != "" {
		return client.NormalizeBaseURL(v)
	}
	return client.DefaultBaseURL
}

// buildWorkflows wires the client, settings and event log for one session.
func buildWorkflows(obs *observe.Observer) (*workflow.Workflows, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	baseURL := resolveBaseURL(apiURL, s)

	token, err := credential.NewManager().LoadSecret(s, store.KeyAPIToken)
	if err != nil {
		obs.Log().Warn().Err(err).Msg("Ignoring unreadable api.token")
		token = ""
	}

	bus := events.NewBus()
	bus.SubscribeAll(events.LogHandler(obs))

	obs.Log().Debug().Str("base_url", baseURL).Msg("Client configured")
	return workflow.New(client.New(baseURL, obs, client.WithToken(token)), bus), nil
}
