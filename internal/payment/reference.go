package payment

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewReference builds a per-attempt token: ref_<unix millis>_<0..999999>.
func NewReference(now time.Time) string {
	return fmt.Sprintf("ref_%d_%d", now.UnixMilli(), rand.IntN(1_000_000))
}
