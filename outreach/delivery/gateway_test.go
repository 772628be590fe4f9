package delivery

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/kiboventures/outreach/outreach/contract"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	messageID string
	err       error
	sent      []sentMail
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) (string, error) {
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	if f.err != nil {
		return "", f.err
	}
	return f.messageID, nil
}

func TestDeliverReturnsReceipt(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{messageID: "msg-123"}
	g, err := NewGateway(mailer)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}

	receipt, err := g.Deliver(context.Background(), "juan@kiboventures.com", contractx.Draft{
		Subject: "Solarplay intro",
		Body:    "Hi Maria",
	})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if receipt.MessageID != "msg-123" || receipt.Status != "delivered" {
		t.Fatalf("Deliver() receipt = %+v", receipt)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("send calls = %d, want 1", len(mailer.sent))
	}
	got := mailer.sent[0]
	if got.to != "juan@kiboventures.com" || got.subject != "Solarplay intro" || got.body != "Hi Maria" {
		t.Fatalf("sent = %+v", got)
	}
}

func TestDeliverErrorIsDeliveryFailedAndNotRetried(t *testing.T) {
	t.Parallel()

	mailer := &fakeMailer{err: errors.New("403 insufficient scope")}
	g, err := NewGateway(mailer)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}

	_, err = g.Deliver(context.Background(), "juan@kiboventures.com", contractx.Draft{Subject: "s", Body: "b"})
	if !errors.Is(err, contractx.ErrDeliveryFailed) {
		t.Fatalf("Deliver() error = %v, want ErrDeliveryFailed", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("send calls = %d, want exactly 1", len(mailer.sent))
	}
}
