package crypto

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"strings"
)

const (
	MinLength     = 1
	MaxLength     = 32
	DefaultLength = 12
)

// Config is a snapshot of the generation parameters.
type Config struct {
	Classes ClassSet
	Length  int
}

// DefaultConfig returns 12 characters with every class enabled.
func DefaultConfig() Config {
	return Config{
		Classes: AllClassSet(),
		Length:  DefaultLength,
	}
}

// cryptoSource adapts crypto/rand to the math/rand/v2 Source interface.
type cryptoSource struct{}

func (cryptoSource) Uint64() uint64 {
	var b [8]byte
	// crypto/rand.Read never returns an error on supported platforms.
	crand.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Generator draws passwords from a source of randomness.
// A Generator is safe for concurrent use only if its source is.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator reading from src. A nil src selects crypto/rand.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = cryptoSource{}
	}
	return &Generator{rng: rand.New(src)}
}

var defaultGenerator = NewGenerator(nil)

// Generate draws a password from crypto/rand. See Generator.Generate.
func Generate(classes ClassSet, length int) string {
	return defaultGenerator.Generate(classes, length)
}

// Generate returns length characters drawn independently and uniformly, with
// replacement, from the charset of classes. An empty charset or a non-positive
// length yields "" without consuming any randomness. Length is not bounded here.
func (g *Generator) Generate(classes ClassSet, length int) string {
	charset := classes.Charset()
	if charset == "" || length <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(charset[g.rng.IntN(len(charset))])
	}
	return sb.String()
}

// GenerateConfig is shorthand for Generate(cfg.Classes, cfg.Length).
func (g *Generator) GenerateConfig(cfg Config) string {
	return g.Generate(cfg.Classes, cfg.Length)
}
