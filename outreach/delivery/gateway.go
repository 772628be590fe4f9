// Package delivery sends drafted email through the transactional mail
// capability.
package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

const statusDelivered = "delivered"

// Mailer is the transport the gateway wraps; pkg/gmail satisfies it.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// Gateway attempts delivery exactly once per call. Any transport or
// authorization error surfaces as ErrDeliveryFailed.
type Gateway struct {
	mailer Mailer
}

func NewGateway(mailer Mailer) (*Gateway, error) {
	if mailer == nil {
		return nil, errors.New("delivery: mailer is required")
	}
	return &Gateway{mailer: mailer}, nil
}

func (g *Gateway) Deliver(ctx context.Context, to string, d contractx.Draft) (contractx.DeliveryReceipt, error) {
	messageID, err := g.mailer.Send(ctx, to, d.Subject, d.Body)
	if err != nil {
		return contractx.DeliveryReceipt{}, fmt.Errorf("%w: %v", contractx.ErrDeliveryFailed, err)
	}

	log.Info().Str("to", to).Str("message_id", messageID).Msg("email delivered")
	return contractx.DeliveryReceipt{
		MessageID: messageID,
		Status:    statusDelivered,
	}, nil
}
