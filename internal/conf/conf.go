package conf

import (
	"os"
	"strconv"
	"time"
)

// Defaults for the summarization pipeline
const (
	// DefaultMaxMessageLength mirrors Telegram's message-length ceiling
	DefaultMaxMessageLength = 1024

	DefaultGeminiModel   = "gemini-2.5-flash"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

	DefaultGenerationTimeout = 120 * time.Second

	DefaultLogDBPath  = "logs.sqlite"
	DefaultLogAPIPort = 5000

	// DefaultBotUsername is the placeholder handle used for mention
	// detection until GetMe resolves the real one
	DefaultBotUsername = "tldread_bot"
)

// DefaultSummaryPrompt is the instruction template the raw text is
// appended to. It pins the output language to the input language,
// bounds the output shape and forbids meta-commentary.
const DefaultSummaryPrompt = `IMPORTANT: ALWAYS respond in the EXACT SAME LANGUAGE as the input text. If the text is in Spanish, respond in Spanish. If it's in English, respond in English, etc.

Create an EXTREMELY CONCISE summary of the text below. Maximum 7 bullet points and a 1-liner summary (max 100 characters). Start each bullet point with a matching emoji. Be very brief and focus only on the most essential information.

DO NOT add any additional comments, explanations, or meta-commentary. ONLY provide the requested summary format.

REMEMBER: Your response must be in the same language as the original text below.

Text: `

// Config represents application configuration
type Config struct {
	// Telegram configuration
	Telegram TelegramConfig

	// Gemini configuration
	Gemini GeminiConfig

	// Summarizer configuration
	Summarizer SummarizerConfig

	// Audit log configuration
	AuditLog AuditLogConfig

	// Debug mode
	Debug bool
}

// TelegramConfig contains Telegram configuration
type TelegramConfig struct {
	BotToken string
	// BotUsername is the mention handle used until GetMe resolves
	BotUsername string
}

// GeminiConfig contains generation backend configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// SummarizerConfig contains pipeline tuning values
type SummarizerConfig struct {
	// MaxMessageLength is the length threshold above which a message
	// is summarized
	MaxMessageLength int

	// PromptTemplate is prepended to the raw text when building prompts
	PromptTemplate string

	// GenerationTimeout bounds one streaming generation call
	GenerationTimeout time.Duration
}

// AuditLogConfig contains the audit-log store and API configuration
type AuditLogConfig struct {
	DBPath  string
	APIPort int
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	maxLen := DefaultMaxMessageLength
	if val := os.Getenv("MAX_MESSAGE_LENGTH"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			maxLen = parsed
		}
	}

	genTimeout := DefaultGenerationTimeout
	if val := os.Getenv("GENERATION_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			genTimeout = time.Duration(parsed) * time.Second
		}
	}

	prompt := os.Getenv("SUMMARY_PROMPT")
	if prompt == "" {
		prompt = DefaultSummaryPrompt
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultGeminiModel
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}

	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = DefaultBotUsername
	}

	dbPath := os.Getenv("LOG_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultLogDBPath
	}

	apiPort := DefaultLogAPIPort
	if val := os.Getenv("LOG_API_PORT"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			apiPort = parsed
		}
	}

	return &Config{
		Telegram: TelegramConfig{
			BotToken:    os.Getenv("BOT_TOKEN"),
			BotUsername: botUsername,
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			Model:   model,
			BaseURL: baseURL,
		},
		Summarizer: SummarizerConfig{
			MaxMessageLength:  maxLen,
			PromptTemplate:    prompt,
			GenerationTimeout: genTimeout,
		},
		AuditLog: AuditLogConfig{
			DBPath:  dbPath,
			APIPort: apiPort,
		},
		Debug: os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration for the bot daemon
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return &ConfigError{Field: "BOT_TOKEN", Message: "required"}
	}
	if c.Gemini.APIKey == "" {
		return &ConfigError{Field: "GEMINI_API_KEY", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
