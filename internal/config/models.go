package config

import (
	"strings"
	"time"
)

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type       string
	JSONDir    string
	SQLitePath string
	MySQLDSN   string
}

// SMTPConfig holds the outgoing mail server settings
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	SenderEmail string
	SenderName  string
	UseTLS      bool
	Timeout     time.Duration
}

// MailConfig selects how reminders are delivered
type MailConfig struct {
	Transport string
}

// ScraperConfig configures the conference sources
type ScraperConfig struct {
	Sources         []string
	UserAgent       string
	Timeout         time.Duration
	RequestInterval time.Duration
	WikiCFPURL      string
	WikiCFPPages    int
	CCFURL          string
	ManualPath      string
}

// ScheduleConfig holds the cron specs of the daemon
type ScheduleConfig struct {
	Timezone     string
	Fetch        string
	Reminders    []string
	FetchOnStart bool
}

// RemindersConfig tunes the reminder pass
type RemindersConfig struct {
	LedgerRetention time.Duration
}

// UsersConfig restricts who may subscribe
type UsersConfig struct {
	AllowedDomains []string
}

// LoggingConfig configures the daemon logger
type LoggingConfig struct {
	Level       string
	Format      string
	OutputPaths []string
}

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI. BaseURL points the
// client at a compatible endpoint; empty means the public API.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GetStorage returns the storage configuration
func (c *Config) GetStorage() StorageConfig {
	return StorageConfig{
		Type:       strings.ToLower(c.GetString("storage.type")),
		JSONDir:    c.GetString("storage.json_dir"),
		SQLitePath: c.GetString("storage.sqlite_path"),
		MySQLDSN:   c.GetString("storage.mysql_dsn"),
	}
}

// GetSMTP returns the SMTP configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Host:        c.GetString("smtp.host"),
		Port:        c.GetInt("smtp.port"),
		Username:    c.GetString("smtp.username"),
		Password:    c.GetString("smtp.password"),
		SenderEmail: c.GetString("smtp.sender_email"),
		SenderName:  c.GetString("smtp.sender_name"),
		UseTLS:      c.GetBool("smtp.use_tls"),
		Timeout:     c.durationOr("smtp.timeout", 10*time.Second),
	}
}

// GetMail returns the mail delivery configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Transport: strings.ToLower(c.GetString("mail.transport")),
	}
}

// GetScraper returns the scraper configuration
func (c *Config) GetScraper() ScraperConfig {
	return ScraperConfig{
		Sources:         c.GetStringSlice("scraper.sources"),
		UserAgent:       c.GetString("scraper.user_agent"),
		Timeout:         c.durationOr("scraper.timeout", 30*time.Second),
		RequestInterval: c.durationOr("scraper.request_interval", 0),
		WikiCFPURL:      c.GetString("scraper.wikicfp.url"),
		WikiCFPPages:    c.GetInt("scraper.wikicfp.pages"),
		CCFURL:          c.GetString("scraper.ccf.url"),
		ManualPath:      c.GetString("scraper.manual.path"),
	}
}

// GetSchedule returns the scheduler configuration
func (c *Config) GetSchedule() ScheduleConfig {
	return ScheduleConfig{
		Timezone:     c.GetString("schedule.timezone"),
		Fetch:        c.GetString("schedule.fetch"),
		Reminders:    c.GetStringSlice("schedule.reminders"),
		FetchOnStart: c.GetBool("schedule.fetch_on_start"),
	}
}

// GetReminders returns the reminder pass configuration
func (c *Config) GetReminders() RemindersConfig {
	return RemindersConfig{
		LedgerRetention: c.durationOr("reminders.ledger_retention", 30*24*time.Hour),
	}
}

// GetUsers returns the subscriber configuration
func (c *Config) GetUsers() UsersConfig {
	return UsersConfig{
		AllowedDomains: c.GetStringSlice("users.allowed_domains"),
	}
}

// GetLogging returns the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	return LoggingConfig{
		Level:       strings.ToLower(c.GetString("logging.level")),
		Format:      strings.ToLower(c.GetString("logging.format")),
		OutputPaths: c.GetStringSlice("logging.output_paths"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: strings.ToLower(c.GetString("llm.provider")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}
