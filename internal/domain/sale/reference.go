// internal/domain/sale/reference.go
package sale

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewReference builds a sale reference of the form SALE-YYYYMMDD-XXXXXX.
// The suffix is taken from the random half of a ULID, so it is uppercase
// Crockford base32. The reference column carries a unique index; the
// insert fails rather than silently reusing a colliding reference.
func NewReference(now time.Time) string {
	id := ulid.Make().String()
	return fmt.Sprintf("SALE-%s-%s", now.Format("20060102"), id[len(id)-6:])
}
