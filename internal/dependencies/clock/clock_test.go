package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

func TestTimestampIsUnixSeconds(t *testing.T) {
	c := fixedClock(time.Unix(1_700_000_123, 999_000_000))
	assert.Equal(t, uint64(1_700_000_123), Timestamp(c))
}

func TestTimestampClampsBeforeEpoch(t *testing.T) {
	c := fixedClock(time.Unix(-50, 0))
	assert.Equal(t, uint64(0), Timestamp(c))
}
