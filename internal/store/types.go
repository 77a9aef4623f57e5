package store

// Setting keys understood by the client.
const (
	KeyAPIURL   = "api.url"
	KeyAPIToken = "api.token"
)

// KnownKeys lists every key `config set` accepts.
var KnownKeys = []string{KeyAPIURL, KeyAPIToken}

// Storage defines the interface for local settings persistence.
// Memories themselves are never stored locally.
type Storage interface {
	SetConfig(key, value string) error
	GetConfig(key string) (string, error)
	DeleteConfig(key string) error
	ListConfig() (map[string]string, error)

	Close() error
}
