package service

import (
	"strings"
	"testing"
)

func TestChatPrompt(t *testing.T) {
	prompt := chatPrompt("Albanian", "https://wa.me/38349772307")
	if !strings.Contains(prompt, "Help the user in Albanian.") {
		t.Errorf("prompt missing language instruction: %q", prompt)
	}
	if !strings.Contains(prompt, "https://wa.me/38349772307") {
		t.Errorf("prompt missing WhatsApp link: %q", prompt)
	}
}

func TestInterpretChatReplyStripsAsterisks(t *testing.T) {
	resp := &geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{
				{Text: "**Welcome** to "},
				{Text: "*Linea*!"},
			}}},
		},
	}

	reply := interpretChatReply(resp, "https://wa.me/38349772307")
	if reply.Booking {
		t.Error("plain text reply flagged as booking")
	}
	if reply.Text != "Welcome to Linea!" {
		t.Errorf("got text %q", reply.Text)
	}
}

func TestInterpretChatReplyFunctionCallWins(t *testing.T) {
	resp := &geminiResponse{
		Candidates: []geminiCandidate{
			{Content: geminiContent{Parts: []geminiPart{
				{Text: "Sure, booking now."},
				{FunctionCall: &geminiFunctionCall{
					Name: "scheduleAppointment",
					Args: map[string]any{"fullName": "Genc Morina", "email": "genc@example.com"},
				}},
			}}},
		},
	}

	reply := interpretChatReply(resp, "https://wa.me/38349772307")
	if !reply.Booking {
		t.Fatal("function call not recognized as booking")
	}
	if reply.BookingURL != "https://wa.me/38349772307" {
		t.Errorf("got booking url %q", reply.BookingURL)
	}
	if reply.PatientName != "Genc Morina" {
		t.Errorf("got patient name %q", reply.PatientName)
	}
}

func TestInterpretChatReplyEmptyResponse(t *testing.T) {
	reply := interpretChatReply(&geminiResponse{}, "https://wa.me/38349772307")
	if reply.Booking || reply.Text != "" {
		t.Errorf("empty response produced %+v", reply)
	}
}

func TestAllowRequest(t *testing.T) {
	s := NewAssistantService()

	for i := 0; i < maxRequestsPerMinute; i++ {
		if !s.allowRequest("visitor-a") {
			t.Fatalf("request %d rejected inside the limit", i+1)
		}
	}
	if s.allowRequest("visitor-a") {
		t.Error("request above the limit allowed")
	}

	// limits are per visitor
	if !s.allowRequest("visitor-b") {
		t.Error("fresh visitor rejected")
	}
}
