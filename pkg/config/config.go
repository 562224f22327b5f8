// Package config loads the process-wide configuration once at startup. The
// resulting value is immutable for the run and passed explicitly into each
// component's constructor.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Mail     MailConfig     `mapstructure:"mail"`
	Criteria CriteriaConfig `mapstructure:"criteria"`
	Reply    ReplyConfig    `mapstructure:"reply"`
	Log      LogConfig      `mapstructure:"log"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type MailConfig struct {
	LookbackDays    int    `mapstructure:"lookback_days"`
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenFile       string `mapstructure:"token_file"`
}

// CriteriaConfig carries the user's descriptions of what belongs in each
// importance category; they are embedded verbatim in the classification prompt.
type CriteriaConfig struct {
	NeedReply  string `mapstructure:"need_reply"`
	MightReply string `mapstructure:"might_reply"`
	NoReply    string `mapstructure:"no_reply"`
}

type ReplyConfig struct {
	Style string `mapstructure:"style"`
}

type LogConfig struct {
	JSONLPath  string `mapstructure:"jsonl_path"`
	CSVPath    string `mapstructure:"csv_path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("openai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openai.model", "openai/gpt-4-32k")
	v.SetDefault("mail.lookback_days", 3)
	v.SetDefault("mail.credentials_file", "credentials.json")
	v.SetDefault("mail.token_file", "token.json")
	v.SetDefault("criteria.need_reply", "directly addressed, question, or complaint")
	v.SetDefault("criteria.might_reply", "general request where user is in CC")
	v.SetDefault("criteria.no_reply", "no response needed")
	v.SetDefault("reply.style",
		"You are a professional assistant. Respond politely and concisely in HTML format. Preserve paragraph formatting.")
	v.SetDefault("log.jsonl_path", "email_rag_log.jsonl")
	v.SetDefault("log.csv_path", "email_rag_log.csv")
	v.SetDefault("log.sqlite_path", "")

	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if apiKey := v.GetString("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate enforces the startup preconditions: these are the only failures in
// the system that abort the process.
func (c *Config) Validate() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Mail.LookbackDays < 0 {
		return fmt.Errorf("mail.lookback_days must be >= 0, got %d", c.Mail.LookbackDays)
	}
	return nil
}
