// Package dice produces the four dice of a game resolution.
//
// The default source derives every die from the ledger timestamp alone. Anyone who can
// predict the timestamp of the resolving call can predict the outcome, so it is only suitable
// for demos and for reproducing recorded games. Production use needs a verifiable random
// function or an oracle; CryptoSource is a server-side stand-in that changes outcomes.
package dice

import (
	"fmt"

	"github.com/mcoot/dicestake/internal/dependencies/random"
	"github.com/mcoot/dicestake/internal/model"
)

// Source names
const (
	SourceTimestamp = "timestamp"
	SourceCrypto    = "crypto"
)

// Source rolls two dice for each player
type Source interface {
	// Roll returns the dice for a resolution happening at the given ledger timestamp
	Roll(ledgerTimestamp uint64) model.Rolls

	// Name identifies the source in config and logs
	Name() string

	// Insecure reports whether outcomes are predictable from public data
	Insecure() bool
}

// New returns the source with the given name
func New(name string, rnd random.Random) (Source, error) {
	switch name {
	case "", SourceTimestamp:
		return TimestampSource{}, nil
	case SourceCrypto:
		return NewCryptoSource(rnd), nil
	default:
		return nil, fmt.Errorf("unknown dice source %q: must be %q or %q", name, SourceTimestamp, SourceCrypto)
	}
}

// TimestampSource is the insecure, deterministic source. Each die is a different
// reduction of the same timestamp, so replaying a timestamp replays the game.
type TimestampSource struct{}

// Roll derives all four dice from ts
func (TimestampSource) Roll(ts uint64) model.Rolls {
	return model.Rolls{
		Player1: [2]uint64{ts%6 + 1, (ts/7)%6 + 1},
		Player2: [2]uint64{(ts/13)%6 + 1, (ts/17)%6 + 1},
	}
}

func (TimestampSource) Name() string   { return SourceTimestamp }
func (TimestampSource) Insecure() bool { return true }

// CryptoSource rolls independent dice from a Random. The timestamp is ignored.
type CryptoSource struct {
	random random.Random
}

// NewCryptoSource creates a CryptoSource
func NewCryptoSource(rnd random.Random) *CryptoSource {
	return &CryptoSource{random: rnd}
}

// Roll draws four independent d6
func (s *CryptoSource) Roll(uint64) model.Rolls {
	return model.Rolls{
		Player1: [2]uint64{s.die(), s.die()},
		Player2: [2]uint64{s.die(), s.die()},
	}
}

func (s *CryptoSource) die() uint64 {
	return uint64(s.random.Intn(6)) + 1
}

func (s *CryptoSource) Name() string   { return SourceCrypto }
func (s *CryptoSource) Insecure() bool { return false }
