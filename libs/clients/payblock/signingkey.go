package payblock

import (
	"errors"
	"fmt"
	"os"

	"github.com/payblock/payblock-go/libs/cryptography"
)

var (
	// ErrSigningKeyFileUnreadable - the configured signing key file could not be read
	ErrSigningKeyFileUnreadable = errors.New("payblock signing key file unreadable")
	// ErrSigningKeyEnvMissing - the configured signing key environment variable is not set
	ErrSigningKeyEnvMissing = errors.New("payblock signing key environment variable not set")
	// ErrSigningKeyMissing - a signed request was attempted but the client holds no signing key
	ErrSigningKeyMissing = errors.New("payblock signing key missing")
)

// signingKeyEnvDefault is consulted only when no explicit key source is configured
const signingKeyEnvDefault = "PAYBLOCK_SIGNING_KEY"

// SigningKeyConfig selects where the request signing key comes from. Exactly
// one source wins, checked in order: Key, KeyFile, KeyEnv. When all three are
// empty the default environment variable is consulted, and signing stays
// disabled if that too is unset. Naming KeyEnv makes the variable mandatory,
// an unset named variable is a configuration error rather than a fallthrough.
type SigningKeyConfig struct {
	Key     string
	KeyFile string
	KeyEnv  string
}

// keySource yields pem material for the request signer
type keySource interface {
	resolve() (string, bool, error)
}

type inlineKeySource struct {
	key string
}

func (s inlineKeySource) resolve() (string, bool, error) {
	if s.key == "" {
		return "", false, nil
	}
	return s.key, true, nil
}

type fileKeySource struct {
	path string
}

func (s fileKeySource) resolve() (string, bool, error) {
	if s.path == "" {
		return "", false, nil
	}
	pem, err := os.ReadFile(s.path)
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrSigningKeyFileUnreadable, err)
	}
	return string(pem), true, nil
}

type envKeySource struct {
	name     string
	required bool
}

func (s envKeySource) resolve() (string, bool, error) {
	if s.name == "" {
		return "", false, nil
	}
	// a set but empty variable counts as provided, the pem parse will reject it
	pem, ok := os.LookupEnv(s.name)
	if !ok {
		if s.required {
			return "", false, fmt.Errorf("%w: %s", ErrSigningKeyEnvMissing, s.name)
		}
		return "", false, nil
	}
	return pem, true, nil
}

// resolveSigningKey walks the key sources in priority order and constructs the
// request signer. Resolution happens once, at client construction, so a key
// rotated on disk or in the environment is not picked up by a live client.
// A nil signer with a nil error means signing is disabled.
func resolveSigningKey(conf SigningKeyConfig) (*cryptography.RSASigner, error) {
	sources := []keySource{
		inlineKeySource{key: conf.Key},
		fileKeySource{path: conf.KeyFile},
		envKeySource{name: conf.KeyEnv, required: true},
		envKeySource{name: signingKeyEnvDefault},
	}
	for _, source := range sources {
		pem, ok, err := source.resolve()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		return cryptography.NewRSASigner(pem)
	}
	return nil, nil
}
