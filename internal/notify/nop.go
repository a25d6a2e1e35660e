package notify

import "context"

// NopSender drops every message. Used in dev environments without a
// delivery gateway and in tests.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, m Message) error {
	return nil
}
