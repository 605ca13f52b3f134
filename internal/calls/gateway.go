package calls

import "context"

// DialRequest asks the telephony provider to place the client leg of a
// masked call. CallID is echoed back by the provider in status callbacks,
// which is the primary correlation key for settlement.
type DialRequest struct {
	CallID string
	From   string
	To     string
}

type DialResponse struct {
	ProviderCallID string
	Status         string
}

// Gateway is implemented by the telephony adapter. A returned error means the
// provider rejected or never accepted the dial; the engine finalizes the call
// as failed and nothing is ever billed for it.
type Gateway interface {
	Dial(ctx context.Context, req DialRequest) (DialResponse, error)
}
