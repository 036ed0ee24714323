package notify

import (
	"context"
	"log"

	"firebase.google.com/go/messaging"
)

// Notifier sends push notifications through FCM. Delivery failures are
// reported to the caller but are expected to be treated as non-fatal.
type Notifier struct {
	Client *messaging.Client
}

func NewNotifier(client *messaging.Client) *Notifier {
	return &Notifier{Client: client}
}

func (n *Notifier) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}

	response, err := n.Client.Send(ctx, message)
	if err != nil {
		log.Printf("notify: send failed: %v", err)
		return err
	}

	log.Printf("notify: delivered %s", response)
	return nil
}
