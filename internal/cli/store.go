package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/dailies/internal/constants"
	"github.com/julianstephens/dailies/internal/keyring"
	"github.com/julianstephens/dailies/internal/logger"
	"github.com/julianstephens/dailies/internal/storage"
	"github.com/julianstephens/dailies/internal/storage/memory"
	"github.com/julianstephens/dailies/internal/storage/postgres"
	"github.com/julianstephens/dailies/internal/storage/sqlite"
)

// ConnectionEnv names the environment variable that may carry a PostgreSQL
// connection string, credentials included.
const ConnectionEnv = "DAILIES_DB_CONNECTION"

// ResolveConfig picks the storage location: the environment connection
// string, then a keyring entry when config was left at its default, then
// config itself.
func ResolveConfig(config string) string {
	if env := strings.TrimSpace(os.Getenv(ConnectionEnv)); env != "" {
		return env
	}
	if config == constants.DefaultConfigPath {
		connStr, err := keyring.GetConnectionString()
		if err == nil && connStr != "" {
			return connStr
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup skipped", "error", err)
		}
	}
	return config
}

// OpenStore returns the provider for config: PostgreSQL for connection
// strings, a JSON file store for .json paths, SQLite otherwise. Passwords are
// refused on the command line; they belong in the environment or keyring.
func OpenStore(config string, fromFlag bool) (storage.Provider, error) {
	if postgres.IsConnString(config) || isDSN(config) {
		if fromFlag {
			if _, err := postgres.ValidateConnString(config); errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w. Store it with 'dailies keyring set' or export %s instead", err, ConnectionEnv)
			}
		}
		return postgres.New(config), nil
	}

	path, err := ExpandHome(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return memory.NewFileStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// isDSN reports whether config is a key=value PostgreSQL connection string.
func isDSN(config string) bool {
	return strings.Contains(config, "dbname=") || strings.Contains(config, "host=")
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
