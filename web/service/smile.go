package service

import (
	"context"
	"strings"

	"github.com/medident/linea/logger"
)

const smilePreviewPrompt = `Edit this photo: Perform a professional orthodontic correction on the teeth visible in the smile. Make the teeth perfectly straight, aligned, and naturally white. Maintain the person's identity, facial features, skin texture, and lighting exactly as they are. The result should look like a realistic 'after' photo of a clear aligner treatment.`

// SmilePreview is the generated before/after image returned to the visitor.
type SmilePreview struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

// SmileService turns an uploaded selfie into an aligner "after" preview
// through the image model.
type SmileService struct {
	settingService SettingService
}

// GeneratePreview runs the image edit. The input is the upload's mime type
// and base64-encoded bytes as the browser sent them.
func (s *SmileService) GeneratePreview(ctx context.Context, mimeType string, base64Data string) (*SmilePreview, error) {
	enabled, err := s.settingService.GetAIEnabled()
	if err != nil {
		return nil, err
	}
	apiKey, err := s.settingService.GetAIAPIKey()
	if err != nil {
		return nil, err
	}
	if !enabled || apiKey == "" {
		return nil, &ValidationError{MsgKey: "smile.disabled"}
	}

	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &ValidationError{MsgKey: "smile.notImage"}
	}

	imageModel, err := s.settingService.GetAIImageModel()
	if err != nil {
		return nil, err
	}

	req := &geminiRequest{
		Contents: []geminiContent{
			{
				Parts: []geminiPart{
					{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64Data}},
					{Text: smilePreviewPrompt},
				},
			},
		},
	}

	resp, err := generateContent(ctx, apiKey, imageModel, req)
	if err != nil {
		logger.Warning("smile preview: generateContent failed:", err)
		return nil, &ValidationError{MsgKey: "smile.failed"}
	}

	for _, part := range resp.firstCandidateParts() {
		if part.InlineData != nil && part.InlineData.Data != "" {
			return &SmilePreview{
				MimeType: part.InlineData.MimeType,
				Data:     part.InlineData.Data,
			}, nil
		}
	}
	return nil, &ValidationError{MsgKey: "smile.failed"}
}
