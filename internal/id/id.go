// Package id provides prefixed, lexicographically sortable identifiers for
// path values, sequences, and operations.
//
// Identifiers are ULIDs with type-specific prefixes (path_*, seq_*, op_*) so
// trace output and error messages stay readable and values from different
// domains can never be confused.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for the identifier domains used across the engine.
const (
	PathPrefix      = "path"
	SequencePrefix  = "seq"
	OperationPrefix = "op"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewPathID generates an identifier for a path value.
func NewPathID() string {
	return Default().GenerateWithPrefix(PathPrefix)
}

// NewSequenceID generates an identifier for a sequence.
func NewSequenceID() string {
	return Default().GenerateWithPrefix(SequencePrefix)
}

// NewOperationID generates an identifier for a chained operation.
func NewOperationID() string {
	return Default().GenerateWithPrefix(OperationPrefix)
}

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}
