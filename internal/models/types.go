package models

import "time"

// UserIdentity identifies the chat a message came from.
// Used only as the rate limiter key.
type UserIdentity string

// InboundMessage represents a single user message waiting for a reply
type InboundMessage struct {
	ID         string // correlation id for logs
	User       UserIdentity
	Text       string
	ReceivedAt time.Time
}

// ModelParams are the generation parameters sent with every request
type ModelParams struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// UpstreamRequest represents a composed request to the LLM API
type UpstreamRequest struct {
	SystemPrompt string
	UserText     string
	Params       ModelParams
}

// ResultKind tags the outcome of an upstream call
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultRateLimited
	ResultTimeout
	ResultUpstreamError
)

// String returns string representation of ResultKind
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultRateLimited:
		return "rate_limited"
	case ResultTimeout:
		return "timeout"
	case ResultUpstreamError:
		return "upstream_error"
	default:
		return "unknown"
	}
}

// ErrorKind classifies upstream failures
type ErrorKind string

const (
	ErrorAuthFailure           ErrorKind = "auth_failure"
	ErrorRateLimitedByProvider ErrorKind = "rate_limited_by_provider"
	ErrorServerError           ErrorKind = "server_error"
	ErrorMalformedResponse     ErrorKind = "malformed_response"
)

// UpstreamResult is the outcome of relaying one message.
// Text is set only for ResultSuccess; ErrorKind and Detail only for
// ResultUpstreamError. Detail is for logs and never reaches the user.
type UpstreamResult struct {
	Kind      ResultKind
	Text      string
	ErrorKind ErrorKind
	Detail    string
}

// Success returns a successful result carrying the model's answer
func Success(text string) UpstreamResult {
	return UpstreamResult{Kind: ResultSuccess, Text: text}
}

// RateLimited returns the result used when the local limiter rejects a user
func RateLimited() UpstreamResult {
	return UpstreamResult{Kind: ResultRateLimited}
}

// Timeout returns the result used when the upstream call ran out of time
func Timeout() UpstreamResult {
	return UpstreamResult{Kind: ResultTimeout}
}

// UpstreamFailure returns a classified upstream error
func UpstreamFailure(kind ErrorKind, detail string) UpstreamResult {
	return UpstreamResult{Kind: ResultUpstreamError, ErrorKind: kind, Detail: detail}
}

// Provider names accepted by LLM_PROVIDER
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// BotConfig represents bot configuration.
// Loaded once at startup and never mutated afterwards.
type BotConfig struct {
	// Telegram settings
	TelegramToken string
	WebhookURL    string // empty means long polling
	WebhookPath   string
	Port          int

	// Upstream LLM settings
	Provider     string
	APIKey       string
	BaseURL      string
	SystemPrompt string
	Model        string
	Temperature  float64
	MaxTokens    int

	RequestTimeoutSecs int
	ProviderRPS        float64 // 0 disables the provider throttle

	// Rate limits
	RateLimitRequests   int
	RateLimitWindowSecs int
	SweepSchedule       string

	// App settings
	LogLevel    string
	Environment string
}

// ModelParams returns the generation parameters from the configuration
func (c *BotConfig) ModelParams() ModelParams {
	return ModelParams{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// RequestTimeout returns the upstream timeout as a duration
func (c *BotConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// RateLimitWindow returns the rate limit window as a duration
func (c *BotConfig) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSecs) * time.Second
}

// WebhookEndpoint returns the full URL Telegram should post updates to
func (c *BotConfig) WebhookEndpoint() string {
	if c.WebhookURL == "" {
		return ""
	}
	return c.WebhookURL + c.WebhookPath
}
