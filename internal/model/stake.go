package model

import (
	"bytes"
	"encoding/json"
	"math/big"
)

var (
	two64    = new(big.Int).Lsh(big.NewInt(1), 64)
	two128   = new(big.Int).Lsh(big.NewInt(1), 128)
	maxStake = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minStake = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Stake is a signed 128-bit amount, stored as two's complement halves.
// The zero value is 0. JSON form is a decimal string so no precision is lost.
type Stake struct {
	hi int64
	lo uint64
}

// NewStake converts an int64 into a Stake
func NewStake(v int64) Stake {
	var hi int64
	if v < 0 {
		hi = -1
	}
	return Stake{hi: hi, lo: uint64(v)}
}

// StakeFromBig converts b, failing if it does not fit in 128 signed bits
func StakeFromBig(b *big.Int) (Stake, error) {
	if b.Cmp(minStake) < 0 || b.Cmp(maxStake) > 0 {
		return Stake{}, ErrStakeOutOfRange
	}

	u := new(big.Int).Set(b)
	if u.Sign() < 0 {
		u.Add(u, two128)
	}

	lo := new(big.Int).Mod(u, two64).Uint64()
	hi := new(big.Int).Rsh(u, 64).Uint64()
	return Stake{hi: int64(hi), lo: lo}, nil
}

// ParseStake parses a base-10 amount
func ParseStake(s string) (Stake, error) {
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Stake{}, ErrInvalidStake
	}
	return StakeFromBig(b)
}

// Big returns the amount as a big.Int
func (s Stake) Big() *big.Int {
	v := new(big.Int).Lsh(big.NewInt(s.hi), 64)
	return v.Add(v, new(big.Int).SetUint64(s.lo))
}

// Sign returns -1, 0 or +1
func (s Stake) Sign() int {
	switch {
	case s.hi < 0:
		return -1
	case s.hi == 0 && s.lo == 0:
		return 0
	default:
		return 1
	}
}

// IsPositive reports whether the amount is greater than zero
func (s Stake) IsPositive() bool {
	return s.Sign() > 0
}

func (s Stake) String() string {
	return s.Big().String()
}

// MarshalJSON encodes the amount as a quoted decimal string
func (s Stake) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number
func (s *Stake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Stake{}
		return nil
	}

	var text string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	} else {
		text = string(data)
	}

	parsed, err := ParseStake(text)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
