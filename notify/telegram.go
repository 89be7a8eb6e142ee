package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dragonwatch/dragonwatch/encoding/json"
)

const DefaultTelegramAPI = "https://api.telegram.org"

type TelegramConfig struct {
	Token   string
	ChatID  string
	Proxy   string        // Proxy for http and https requests, optional
	APIURL  string        // Base URL of the bot API, defaults to DefaultTelegramAPI
	Timeout time.Duration // Timeout of one request, defaults to 10s
}

// StatusError is returned if the bot API didn't accept the message.
type StatusError struct {
	Code        int
	Description string
}

func (e *StatusError) Error() string {
	if len(e.Description) == 0 {
		return fmt.Sprintf("telegram: %d %s", e.Code, http.StatusText(e.Code))
	}

	return fmt.Sprintf("telegram: %d %s", e.Code, e.Description)
}

type telegram struct {
	endpoint string
	chatID   string
	client   *http.Client
}

type telegramRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// NewTelegram returns a Notifier that sends the messages with a Telegram bot.
func NewTelegram(config TelegramConfig) (Notifier, error) {
	if len(config.Token) == 0 {
		return nil, fmt.Errorf("no bot token given")
	}

	if len(config.ChatID) == 0 {
		return nil, fmt.Errorf("no chat ID given")
	}

	api := config.APIURL
	if len(api) == 0 {
		api = DefaultTelegramAPI
	}

	if _, err := url.Parse(api); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConns = 10
	tr.IdleConnTimeout = 30 * time.Second

	if len(config.Proxy) != 0 {
		proxy, err := url.Parse(config.Proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}

		tr.Proxy = http.ProxyURL(proxy)
	}

	t := &telegram{
		endpoint: strings.TrimSuffix(api, "/") + "/bot" + config.Token + "/sendMessage",
		chatID:   config.ChatID,
		client: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}

	return t, nil
}

func (t *telegram) Send(ctx context.Context, message string) error {
	data, err := json.Marshal(telegramRequest{
		ChatID:    t.chatID,
		Text:      message,
		ParseMode: "Markdown",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}

	req.Header.Add("Content-Type", "application/json")

	res, err := t.client.Do(req)
	if err != nil {
		// The URL contains the token
		if uerr, ok := err.(*url.Error); ok {
			return fmt.Errorf("request failed: %w", uerr.Err)
		}
		return fmt.Errorf("request failed: %w", err)
	}

	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 64*1024))
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		serr := &StatusError{
			Code: res.StatusCode,
		}

		response := telegramResponse{}
		if err := json.Unmarshal(body, &response); err == nil {
			serr.Description = response.Description
		}

		return serr
	}

	return nil
}
