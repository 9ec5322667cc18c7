package messaging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/twiliosms"
	"github.com/RoadAtlas/DealFlow/internal/whatsapp"
)

func TestCanonicalizePhone(t *testing.T) {
	cases := map[string]string{
		"+44 7911 123456": "+447911123456",
		"07911 123456":    "+447911123456", // national format, default region
		"+14155552671":    "+14155552671",
	}
	for in, want := range cases {
		got, err := CanonicalizePhone(in)
		if err != nil {
			t.Errorf("CanonicalizePhone(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("CanonicalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := CanonicalizePhone(""); err == nil {
		t.Error("empty recipient must fail")
	}
	if _, err := CanonicalizePhone("not a number"); err == nil {
		t.Error("garbage recipient must fail")
	}
}

func TestWhatsAppServiceSendEmitsReceipt(t *testing.T) {
	svc := NewWhatsAppService(whatsapp.NewMockClient())
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := svc.SendMessage(context.Background(), "+447911123456", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	select {
	case receipt := <-svc.Receipts():
		if receipt.To != "+447911123456" {
			t.Errorf("receipt to = %q", receipt.To)
		}
	case <-time.After(time.Second):
		t.Fatal("no receipt emitted")
	}
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestTwilioServiceWebhook(t *testing.T) {
	mock := twiliosms.NewMockClient()
	svc := NewTwilioService(mock)

	form := url.Values{"From": {"+447911123456"}, "Body": {"I want to buy a Ferrari"}}
	req := httptest.NewRequest(http.MethodPost, "/twilio/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	svc.WebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("webhook status = %d", rec.Code)
	}
	select {
	case resp := <-svc.Responses():
		if resp.From != "+447911123456" || resp.Body != "I want to buy a Ferrari" {
			t.Errorf("response = %+v", resp)
		}
	case <-time.After(time.Second):
		t.Fatal("webhook did not emit a response")
	}
}

func TestTwilioServiceWebhookMissingFields(t *testing.T) {
	svc := NewTwilioService(twiliosms.NewMockClient())
	form := url.Values{"From": {"+447911123456"}}
	req := httptest.NewRequest(http.MethodPost, "/twilio/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	svc.WebhookHandler(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTwilioServiceStoppedRejectsSend(t *testing.T) {
	svc := NewTwilioService(twiliosms.NewMockClient())
	if err := svc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := svc.SendMessage(context.Background(), "+447911123456", "hi"); err != ErrServiceStopped {
		t.Errorf("expected ErrServiceStopped, got %v", err)
	}
}

type echoResponder struct{ prefix string }

func (e echoResponder) HandleMessage(ctx context.Context, from, body string) (string, error) {
	return e.prefix + body, nil
}

func TestRelayRoundTrip(t *testing.T) {
	svc := NewMockService()
	relay := NewRelay(svc, echoResponder{prefix: "re: "})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := relay.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	svc.InjectResponse("+447911123456", "hello")

	deadline := time.After(2 * time.Second)
	for {
		sent := svc.Sent()
		if len(sent) == 1 {
			if sent[0].To != "+447911123456" || sent[0].Body != "re: hello" {
				t.Errorf("reply = %+v", sent[0])
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("relay never sent a reply")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
