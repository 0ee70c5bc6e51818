package models

import "time"

// TelegramConfig holds Telegram notification configuration.
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// TelegramMessage describes one finished login attempt.
type TelegramMessage struct {
	Host          string
	Network       string
	SSID          string
	State         State
	Message       string
	ProbeAttempts int
	StartTime     time.Time
	Duration      time.Duration
}

// TelegramResult holds the result of a Telegram notification.
type TelegramResult struct {
	MessageSent bool
	Error       error
}
