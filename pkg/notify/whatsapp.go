package notify

import (
	"context"
	"sync"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/kafka"
	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
)

type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// StubWhatsAppSender records outgoing messages and logs them. No message
// leaves the process.
type StubWhatsAppSender struct {
	log *logger.Logger

	mu       sync.Mutex
	Messages []SentMessage
}

type SentMessage struct {
	To   string
	Text string
}

func NewStubWhatsAppSender(log *logger.Logger) *StubWhatsAppSender {
	return &StubWhatsAppSender{log: log}
}

func (s *StubWhatsAppSender) Send(_ context.Context, to, text string) error {
	s.mu.Lock()
	s.Messages = append(s.Messages, SentMessage{To: to, Text: text})
	s.mu.Unlock()

	s.log.Info("WhatsApp message (stub)", "to", to, "text", text)
	return nil
}

func (s *StubWhatsAppSender) Sent() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentMessage(nil), s.Messages...)
}

// Handler decodes notification events and forwards the rendered text to
// sender. Events without a recipient are logged and acknowledged.
func Handler(sender Sender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var n Notification
		if err := msg.DecodeValue(&n); err != nil {
			return err
		}

		to := Recipient(n)
		if to == "" {
			log.Debug("Notification has no recipient", "event", n.Event, "key", msg.Key)
			return nil
		}
		return sender.Send(ctx, to, Render(n))
	}
}
