// Package push wraps the FCM gateway behind a narrow Sender interface so
// the reminder sweep can be exercised without Firebase credentials.
package push

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrTokenNotRegistered marks a delivery failure caused by a stale or
// malformed device token. Callers clear the token instead of retrying.
var ErrTokenNotRegistered = errors.New("device token invalid or unregistered")

type Notification struct {
	Title string
	Body  string
}

type Sender interface {
	Send(ctx context.Context, token string, n Notification) error
}

type FCM struct {
	client *messaging.Client
}

// NewFCM builds a messaging client. With an empty credentialsFile the SDK
// falls back to application-default credentials.
func NewFCM(ctx context.Context, credentialsFile string) (*FCM, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("messaging client: %w", err)
	}
	return &FCM{client: client}, nil
}

func (f *FCM) Send(ctx context.Context, token string, n Notification) error {
	_, err := f.client.Send(ctx, buildMessage(token, n))
	if err == nil {
		return nil
	}
	if messaging.IsUnregistered(err) || errorutils.IsInvalidArgument(err) {
		return fmt.Errorf("%w: %v", ErrTokenNotRegistered, err)
	}
	return err
}

func buildMessage(token string, n Notification) *messaging.Message {
	ttl := time.Hour
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			TTL:      &ttl,
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}
}
