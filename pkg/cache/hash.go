package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// GuessKey returns the key for the guesses one extraction stage
	// produced from one artifact.
	GuessKey(opts GuessKeyOpts) string
}

// GuessKeyOpts identifies one cached extraction. Every field takes part
// in the key.
type GuessKeyOpts struct {
	// Label is the artifact's path relative to the project root.
	Label string
	// Artifact is the artifact's canonical encoding.
	Artifact []byte
	// Extractors names the extractors that ran, in order.
	Extractors []string
	// Context is the encoded extraction context: the caller's seed for
	// the primary stage, the refined context for the secondary one.
	Context string
}

// schemaVersion changes whenever the cached guess encoding does.
const schemaVersion = "v1"

// DefaultKeyer produces "guesses:<schema>:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) GuessKey(opts GuessKeyOpts) string {
	return hashKey("guesses:"+schemaVersion, opts.Label, Hash(opts.Artifact), opts.Extractors, opts.Context)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
