package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a minimal Bot API client. Only the calls the survey flow needs.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

func (c *Client) post(ctx context.Context, method string, body interface{}, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram %s error: %s", method, string(bodyBytes))
	}

	if out != nil {
		return json.Unmarshal(bodyBytes, out)
	}
	return nil
}

// SendMessage sends a Markdown message with an optional inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error {
	req := sendMessageRequest{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   "Markdown",
		ReplyMarkup: keyboard,
	}
	var res apiResponse
	if err := c.post(ctx, "sendMessage", req, &res); err != nil {
		return err
	}
	if !res.Ok {
		return fmt.Errorf("telegram sendMessage rejected: %s", res.Description)
	}
	return nil
}

// AnswerCallbackQuery acknowledges a button press so the client stops its spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error {
	return c.post(ctx, "answerCallbackQuery", answerCallbackQueryRequest{CallbackQueryID: callbackQueryID}, nil)
}

// SetWebhook registers the webhook URL with Telegram.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	var res apiResponse
	if err := c.post(ctx, "setWebhook", setWebhookRequest{URL: webhookURL}, &res); err != nil {
		return err
	}
	if !res.Ok {
		return fmt.Errorf("telegram setWebhook rejected: %s", res.Description)
	}
	return nil
}

// FetchFile resolves a file_id and downloads the binary payload from the
// Bot API file endpoint.
func (c *Client) FetchFile(ctx context.Context, fileID string) ([]byte, error) {
	var res fileResponse
	if err := c.post(ctx, "getFile", map[string]string{"file_id": fileID}, &res); err != nil {
		return nil, err
	}
	if !res.Ok || res.Result.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile failed for %s", fileID)
	}

	downloadURL := fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, res.Result.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file download error: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
