// Package entity defines data structures shared by the web layer of the Linea portal.
package entity

// Msg represents a standard API response with success status, message text, and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

// AllSetting contains the runtime settings of the portal.
type AllSetting struct {
	// Web server settings
	WebListen     string `json:"webListen" form:"webListen"`         // Listen IP address
	WebDomain     string `json:"webDomain" form:"webDomain"`         // Domain for host validation
	WebPort       int    `json:"webPort" form:"webPort"`             // Listen port
	WebBasePath   string `json:"webBasePath" form:"webBasePath"`     // Base path for portal URLs
	SessionMaxAge int    `json:"sessionMaxAge" form:"sessionMaxAge"` // Session maximum age in minutes

	// Booking and deep links
	BookingCalendarURL string `json:"bookingCalendarUrl" form:"bookingCalendarUrl"` // External calendar booking page
	WhatsAppNumber     string `json:"whatsAppNumber" form:"whatsAppNumber"`         // Clinic WhatsApp number for wa.me links
	PlanViewerURL      string `json:"planViewerUrl" form:"planViewerUrl"`           // Personalized 3D plan viewer

	// Hosted AI settings
	AIEnabled    bool   `json:"aiEnabled" form:"aiEnabled"`       // Enable assistant and smile preview
	AIAPIKey     string `json:"aiApiKey" form:"aiApiKey"`         // Gemini API key
	AIChatModel  string `json:"aiChatModel" form:"aiChatModel"`   // Text model for the assistant
	AIImageModel string `json:"aiImageModel" form:"aiImageModel"` // Image model for the smile preview

	// Telegram notification bot
	TgBotEnable bool   `json:"tgBotEnable" form:"tgBotEnable"` // Enable clinic notifications
	TgBotToken  string `json:"tgBotToken" form:"tgBotToken"`   // Bot token
	TgBotChatId string `json:"tgBotChatId" form:"tgBotChatId"` // Clinic chat id

	// Security settings
	TwoFactorEnable bool   `json:"twoFactorEnable" form:"twoFactorEnable"` // Require TOTP for staff login
	TimeLocation    string `json:"timeLocation" form:"timeLocation"`       // Time zone for scheduled jobs
}
