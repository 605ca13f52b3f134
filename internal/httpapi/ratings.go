package httpapi

import (
	"context"
	"errors"
	"fmt"

	"lawbridge-platform/internal/calls"
)

var (
	errNotCallOwner  = fmt.Errorf("%w: call belongs to another client", calls.ErrCallNotFound)
	errNotRateable   = errors.New("only completed calls can be rated")
	errAlreadyRated  = errors.New("call already rated")
	errInvalidRating = errors.New("rating must be between 1 and 5")
)

// advocateRater is the slice of the advocate service the rating flow needs.
type advocateRater interface {
	ApplyRating(ctx context.Context, advocateID string, rating int) error
}

// rateCall records a one-time rating on a completed call and folds it into
// the advocate's aggregate. The store-level conditional write is what keeps a
// double-submit from counting twice; the aggregate is only touched by the
// winning write.
func rateCall(ctx context.Context, store calls.Store, rater advocateRater, clientID, callID string, rating int) error {
	if rating < 1 || rating > 5 {
		return errInvalidRating
	}

	c, err := store.Get(ctx, callID)
	if err != nil {
		return err
	}
	if c.ClientID != clientID {
		// Indistinguishable from a missing call on purpose.
		return errNotCallOwner
	}
	if c.Status != calls.StatusCompleted {
		return errNotRateable
	}
	if c.Rating != 0 {
		return errAlreadyRated
	}

	won, err := store.SetRating(ctx, callID, rating)
	if err != nil {
		return err
	}
	if !won {
		return errAlreadyRated
	}
	return rater.ApplyRating(ctx, c.AdvocateID, rating)
}
