package amqp

import (
	"testing"
	"time"
)

func TestRefreshRequestMessage_RoundTrip(t *testing.T) {
	msg := NewRefreshRequestMessage("spreadsheet-123", "manual")
	if msg.RequestedAt.IsZero() {
		t.Fatal("RequestedAt not stamped")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatal(err)
	}

	got, err := RefreshRequestMessageFromJSON(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.Scope != "spreadsheet-123" || got.Reason != "manual" {
		t.Errorf("round-trip = %+v", got)
	}
	if !got.RequestedAt.Equal(msg.RequestedAt.Truncate(time.Nanosecond)) {
		t.Errorf("RequestedAt = %v, want %v", got.RequestedAt, msg.RequestedAt)
	}
}

func TestRefreshRequestMessageFromJSON_Invalid(t *testing.T) {
	if _, err := RefreshRequestMessageFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
