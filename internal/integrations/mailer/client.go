package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL адрес API почтового провайдера по умолчанию
const DefaultBaseURL = "https://api.resend.com"

// Client клиент почтового провайдера
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента почтового провайдера
func NewClient(baseURL, apiKey, from string, timeout time.Duration, log Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		from:    from,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendBookingConfirmation отправляет письмо о подтверждении оплаченной записи
// Возвращает идентификатор письма у провайдера
func (c *Client) SendBookingConfirmation(ctx context.Context, confirmation Confirmation) (string, error) {
	html, text, err := renderConfirmation(confirmation)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.from,
		To:      []string{confirmation.Email},
		Subject: ConfirmationSubject,
		HTML:    html,
		Text:    text,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		// Продолжаем обработку
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		var errResp ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return "", fmt.Errorf("%w: %s", ErrRejected, errResp.Message)
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	// Парсим ответ
	var sent sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Mailer: confirmation sent to %s, message_id=%s", confirmation.Email, sent.ID)
	return sent.ID, nil
}

// NopClient используется, когда почтовый провайдер не настроен
type NopClient struct {
	log Logger
}

// NewNopClient создает клиент, который только пишет письмо в лог
func NewNopClient(log Logger) *NopClient {
	return &NopClient{log: log}
}

// SendBookingConfirmation пишет в лог адресата вместо отправки
func (c *NopClient) SendBookingConfirmation(_ context.Context, confirmation Confirmation) (string, error) {
	c.log.Warn("Mailer: not configured, confirmation for %s skipped", confirmation.Email)
	return "", nil
}
