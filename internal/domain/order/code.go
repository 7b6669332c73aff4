package order

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
)

// CodePrefix starts every human-readable order code.
const CodePrefix = "ORD-"

// nextOrderCode produces the next free order code for the business:
// ORD-001, ORD-002, and so on, zero-padded to at least three digits.
//
// The candidate starts at count+1 and probes upward past codes already taken
// (deletions leave gaps, so the count alone is not enough). The per-business
// sequence lock serializes concurrent creations; without it two transactions
// could count the same rows and pick the same candidate. Lock wait timeouts
// surface as ErrLockTimeout and the caller retries the whole creation.
func (s *Service) nextOrderCode(ctx context.Context, businessID string) (string, error) {
	if err := s.store.LockCodeSequence(ctx, businessID); err != nil {
		return "", errors.Wrap(err, "lock code sequence")
	}

	count, err := s.store.CountCodes(ctx, businessID, CodePrefix)
	if err != nil {
		return "", errors.Wrap(err, "count order codes")
	}

	for candidate := count + 1; ; candidate++ {
		code := fmt.Sprintf("%s%03d", CodePrefix, candidate)
		taken, err := s.store.CodeExists(ctx, businessID, code)
		if err != nil {
			return "", errors.Wrap(err, "probe order code")
		}
		if !taken {
			return code, nil
		}
	}
}
