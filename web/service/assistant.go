package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/medident/linea/logger"
)

const (
	// Rate limiting per visitor
	maxRequestsPerMinute = 20

	// Cache settings
	assistantCacheDuration = 5 * time.Minute

	chatSystemPrompt = `You are a friendly AI for Linea Aligners. Your goal is to help users understand our clear aligner treatment and ultimately book a free 3D scan at Medident Dental Clinic in Peja.
Help the user in %s.
If a user wants to book, visit, or start, ALWAYS use the 'scheduleAppointment' tool to guide them to WhatsApp. If they haven't provided their full name and email, ask for them politely first.
Direct WhatsApp link: %s.
Keep responses concise and premium. Do not use asterisks in output.`

	clinicalReviewPrompt = `You are a professional orthodontic planning assistant for Linea Aligners.
Analyze the provided dental scan/image.
Identify common orthodontic concerns like crowding (rradhitje e dendur), spacing (hapësira), or alignment issues.
Provide a preliminary clinical assessment.

IMPORTANT: Do not use any asterisks (*) or markdown formatting in your response. Keep the text clean, plain, and structured with simple line breaks.

MANDATORY DISCLAIMER: You MUST start and end the response with this message in both English and Albanian:
"This is a preliminary clinical observation and NOT a professional medical diagnosis. A full in-person 3D scan at our clinic is mandatory for a definitive treatment plan."
"Ky është një vlerësim paraprak klinik dhe nuk përbën një diagnozë mjekësore profesionale. Një skanim i plotë 3D në klinikën tonë është i domosdoshëm për një plan përfundimtar."

Please provide the analysis in both English and Albanian.`
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role" form:"role"` // "user" or "model"
	Text string `json:"text" form:"text"`
}

// ChatReply is what the assistant hands back to the portal. When the model
// requests the scheduleAppointment function the reply carries the booking
// link and the patient name the model extracted; the portal opens the link
// without a confirmation step.
type ChatReply struct {
	Text        string `json:"text"`
	Booking     bool   `json:"booking"`
	BookingURL  string `json:"bookingUrl,omitempty"`
	PatientName string `json:"patientName,omitempty"`
}

type rateLimitState struct {
	requests  int
	resetTime time.Time
}

type assistantCacheEntry struct {
	reply     ChatReply
	timestamp time.Time
}

// AssistantService drives the chat assistant against the hosted language
// model, with per-visitor rate limiting and a short-lived response cache.
type AssistantService struct {
	settingService SettingService

	cache         sync.Map
	rateLimiter   map[string]*rateLimitState
	rateLimiterMu sync.Mutex
}

func NewAssistantService() *AssistantService {
	return &AssistantService{
		rateLimiter: make(map[string]*rateLimitState),
	}
}

// scheduleAppointmentTool mirrors the function declaration the portal ships
// to the model: booking intent routes the user to the clinic's WhatsApp.
func scheduleAppointmentTool() geminiTool {
	return geminiTool{
		FunctionDeclarations: []geminiFunctionDeclaration{
			{
				Name: "scheduleAppointment",
				Parameters: &geminiSchema{
					Type:        "OBJECT",
					Description: "Directs the user to book a free 3D scan appointment at Medident Dental Clinic via WhatsApp. Call this tool when the user expresses interest in booking a scan, visiting the clinic, or starting their journey.",
					Properties: map[string]*geminiSchema{
						"fullName":     {Type: "STRING", Description: "The full name of the patient."},
						"email":        {Type: "STRING", Description: "The email address of the patient for confirmation."},
						"preferredDay": {Type: "STRING", Description: "Optionally, the day the user prefers."},
					},
					Required: []string{"fullName", "email"},
				},
			},
		},
	}
}

// allowRequest applies the fixed-window per-visitor limit.
func (s *AssistantService) allowRequest(visitorKey string) bool {
	s.rateLimiterMu.Lock()
	defer s.rateLimiterMu.Unlock()

	now := time.Now()
	state, ok := s.rateLimiter[visitorKey]
	if !ok || now.After(state.resetTime) {
		s.rateLimiter[visitorKey] = &rateLimitState{
			requests:  1,
			resetTime: now.Add(time.Minute),
		}
		return true
	}
	if state.requests >= maxRequestsPerMinute {
		return false
	}
	state.requests++
	return true
}

// Chat sends the conversation to the model and interprets the reply.
// languageName is the human-readable language for the system prompt
// ("English" or "Albanian").
func (s *AssistantService) Chat(ctx context.Context, visitorKey string, languageName string, messages []ChatMessage) (*ChatReply, error) {
	enabled, err := s.settingService.GetAIEnabled()
	if err != nil {
		return nil, err
	}
	apiKey, err := s.settingService.GetAIAPIKey()
	if err != nil {
		return nil, err
	}
	if !enabled || apiKey == "" {
		return nil, &ValidationError{MsgKey: "assistant.disabled"}
	}

	if len(messages) == 0 || strings.TrimSpace(messages[len(messages)-1].Text) == "" {
		return nil, &ValidationError{MsgKey: "assistant.emptyMessage"}
	}

	if !s.allowRequest(visitorKey) {
		return nil, &ValidationError{MsgKey: "assistant.rateLimited"}
	}

	lastText := messages[len(messages)-1].Text
	cacheKey := languageName + "|" + lastText
	if cached, ok := s.cache.Load(cacheKey); ok {
		entry := cached.(assistantCacheEntry)
		if time.Since(entry.timestamp) < assistantCacheDuration {
			reply := entry.reply
			return &reply, nil
		}
		s.cache.Delete(cacheKey)
	}

	whatsAppLink, err := s.settingService.GetWhatsAppLink()
	if err != nil {
		return nil, err
	}
	chatModel, err := s.settingService.GetAIChatModel()
	if err != nil {
		return nil, err
	}

	contents := make([]geminiContent, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != "model" {
			role = "user"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: m.Text}},
		})
	}

	req := &geminiRequest{
		Contents: contents,
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: chatPrompt(languageName, whatsAppLink)}},
		},
		Tools: []geminiTool{scheduleAppointmentTool()},
	}

	resp, err := generateContent(ctx, apiKey, chatModel, req)
	if err != nil {
		logger.Warning("assistant: generateContent failed:", err)
		return nil, &ValidationError{MsgKey: "assistant.connectError"}
	}

	reply := interpretChatReply(resp, whatsAppLink)
	if !reply.Booking && reply.Text != "" {
		s.cache.Store(cacheKey, assistantCacheEntry{reply: *reply, timestamp: time.Now()})
	}
	return reply, nil
}

func chatPrompt(languageName string, whatsAppLink string) string {
	prompt := chatSystemPrompt
	prompt = strings.Replace(prompt, "%s", languageName, 1)
	prompt = strings.Replace(prompt, "%s", whatsAppLink, 1)
	return prompt
}

// interpretChatReply maps the model response onto a portal reply: a
// scheduleAppointment function call wins over text, and asterisks are
// stripped from plain replies.
func interpretChatReply(resp *geminiResponse, whatsAppLink string) *ChatReply {
	for _, part := range resp.firstCandidateParts() {
		if part.FunctionCall == nil {
			continue
		}
		reply := &ChatReply{
			Booking:    true,
			BookingURL: whatsAppLink,
		}
		if name, ok := part.FunctionCall.Args["fullName"].(string); ok {
			reply.PatientName = name
		}
		return reply
	}

	var text string
	for _, part := range resp.firstCandidateParts() {
		if part.Text != "" {
			text += part.Text
		}
	}
	return &ChatReply{Text: strings.ReplaceAll(text, "*", "")}
}

// ClinicalReview runs the preliminary orthodontic review over an uploaded
// clinical photo. Non-image data is rejected before any network call.
func (s *AssistantService) ClinicalReview(ctx context.Context, mimeType string, base64Data string) (string, error) {
	enabled, err := s.settingService.GetAIEnabled()
	if err != nil {
		return "", err
	}
	apiKey, err := s.settingService.GetAIAPIKey()
	if err != nil {
		return "", err
	}
	if !enabled || apiKey == "" {
		return "", &ValidationError{MsgKey: "assistant.disabled"}
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return "", &ValidationError{MsgKey: "planner.notImage"}
	}

	chatModel, err := s.settingService.GetAIChatModel()
	if err != nil {
		return "", err
	}

	req := &geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{Text: clinicalReviewPrompt},
					{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64Data}},
				},
			},
		},
	}

	resp, err := generateContent(ctx, apiKey, chatModel, req)
	if err != nil {
		logger.Warning("clinical review: generateContent failed:", err)
		return "", &ValidationError{MsgKey: "planner.failed"}
	}

	var text string
	for _, part := range resp.firstCandidateParts() {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", &ValidationError{MsgKey: "planner.failed"}
	}
	return strings.ReplaceAll(text, "*", ""), nil
}
