package push

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("device-token", Notification{
		Title: "Randevunuz Yaklaşıyor",
		Body:  "Kontrol başlıklı randevunuza yaklaşık 1 saat kaldı.",
	})

	assert.Equal(t, "device-token", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Randevunuz Yaklaşıyor", msg.Notification.Title)

	// delivery hints: high priority, TTL matching the lookahead window,
	// content-available for iOS background handling
	require.NotNil(t, msg.Android)
	assert.Equal(t, "high", msg.Android.Priority)
	require.NotNil(t, msg.Android.TTL)
	assert.Equal(t, time.Hour, *msg.Android.TTL)

	require.NotNil(t, msg.APNS)
	require.NotNil(t, msg.APNS.Payload)
	require.NotNil(t, msg.APNS.Payload.Aps)
	assert.True(t, msg.APNS.Payload.Aps.ContentAvailable)
	assert.Equal(t, "default", msg.APNS.Payload.Aps.Sound)
}
