// Package connid mints the correlation ids attached to each accepted
// connection and client record for log correlation (spec section 3: a
// Client's "unique id" is the socket handle used by the protocol; the
// Sonyflake-minted string here is a separate, log-only identifier that
// survives reconnection in a way a bare file descriptor number doesn't).
package connid

import (
	"fmt"
	"sync"
	"time"

	"github.com/sony/sonyflake"
)

// Generator produces globally unique, time-ordered correlation ids.
type Generator struct {
	sf *sonyflake.Sonyflake
}

var (
	defaultGenerator     *Generator
	defaultGeneratorOnce sync.Once
)

func initDefaultGenerator() {
	defaultGenerator = New()
}

// Default returns the process-wide Generator, built on first use.
func Default() *Generator {
	defaultGeneratorOnce.Do(initDefaultGenerator)
	return defaultGenerator
}

// New creates a Generator with its own Sonyflake epoch.
func New() *Generator {
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if sf == nil {
		sf = sonyflake.NewSonyflake(sonyflake.Settings{StartTime: time.Now()})
	}
	return &Generator{sf: sf}
}

// NextConnectionID returns the next "conn-<n>" correlation id, attached to
// a Client at accept time and carried through every log line concerning
// that connection.
func (g *Generator) NextConnectionID() (string, error) {
	id, err := g.sf.NextID()
	if err != nil {
		return "", fmt.Errorf("generate connection id: %w", err)
	}
	return fmt.Sprintf("conn-%d", id), nil
}

// NextConnectionID mints a correlation id from the default Generator.
func NextConnectionID() (string, error) {
	return Default().NextConnectionID()
}
