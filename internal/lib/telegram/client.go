// Package telegram реализует минимальный клиент Telegram Bot API,
// достаточный для отправки текстовых сообщений в заданный чат.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client — HTTP-клиент Telegram Bot API. Токен не хранится в клиенте,
// он передаётся при каждом вызове: токен живёт в настройках и может
// меняться без пересоздания клиента.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// sendMessageRequest — тело запроса метода sendMessage.
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// NewClient создаёт новый клиент Telegram Bot API.
// Таймаут ограничивает каждый вызов, чтобы недоступный сервер
// не блокировал фоновую задачу надолго.
func NewClient(apiURL string) *Client {
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMessage отправляет текстовое сообщение в чат chatID от имени бота
// с токеном token. Любой не-200 статус считается ошибкой, текст ответа
// включается в сообщение ошибки.
func (c *Client) SendMessage(ctx context.Context, token, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.apiURL, token)

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(sendMessageRequest{ChatID: chatID, Text: text}); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(body) > 0 {
			return errors.New(string(body))
		}
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
