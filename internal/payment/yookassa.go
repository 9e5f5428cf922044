package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/kovalyov-valentin/news-portal-bot/internal/model"
)

// Статусы платежа в ЮKassa
type Status string

const (
	StatusPending           Status = "pending"
	StatusWaitingForCapture Status = "waiting_for_capture"
	StatusSucceeded         Status = "succeeded"
	StatusCanceled          Status = "canceled"
)

// Платеж, каким его видит остальной код бота.
// Метаданные позволяют по одному id платежа восстановить,
// кому и какой лимит начислять после оплаты
type Payment struct {
	ID              string
	Status          Status
	ConfirmationURL string
	UserID          int64
	ActionKind      model.ActionKind
	Quantity        int
}

// Клиент REST API ЮKassa. Платежных sdk у нас нет,
// поэтому это тонкая обертка над http клиентом
type YookassaClient struct {
	shopID    string
	secretKey string
	// Куда ЮKassa вернет пользователя после оплаты
	returnURL string
	baseURL   string
	client    *http.Client
}

func NewYookassaClient(shopID, secretKey, returnURL string) *YookassaClient {
	return &YookassaClient{
		shopID:    shopID,
		secretKey: secretKey,
		returnURL: returnURL,
		baseURL:   "https://api.yookassa.ru/v3",
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *YookassaClient) Enabled() bool {
	return c.shopID != "" && c.secretKey != ""
}

// Create создает платеж на покупку лимитов.
// Idempotence-Key защищает от двойного создания при ретраях на стороне сети
func (c *YookassaClient) Create(
	ctx context.Context,
	userID int64,
	kind model.ActionKind,
	quantity int,
	costRUB int,
	description string,
) (Payment, error) {
	body := map[string]interface{}{
		"amount": map[string]string{
			"value":    fmt.Sprintf("%d.00", costRUB),
			"currency": "RUB",
		},
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": c.returnURL,
		},
		"capture":     true,
		"description": description,
		"metadata": map[string]string{
			"user_id":     strconv.FormatInt(userID, 10),
			"action_type": string(kind),
			"quantity":    strconv.Itoa(quantity),
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return Payment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(raw))
	if err != nil {
		return Payment{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotence-Key", uuid.NewString())
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

// Check запрашивает текущий статус платежа
func (c *YookassaClient) Check(ctx context.Context, paymentID string) (Payment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return Payment{}, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.shopID, c.secretKey)

	return c.do(req)
}

func (c *YookassaClient) do(req *http.Request) (Payment, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return Payment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Payment{}, fmt.Errorf("yookassa: unexpected status %d: %s", resp.StatusCode, raw)
	}

	var parsed yookassaPayment
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Payment{}, err
	}

	userID, _ := strconv.ParseInt(parsed.Metadata.UserID, 10, 64)
	quantity, _ := strconv.Atoi(parsed.Metadata.Quantity)

	return Payment{
		ID:              parsed.ID,
		Status:          Status(parsed.Status),
		ConfirmationURL: parsed.Confirmation.ConfirmationURL,
		UserID:          userID,
		ActionKind:      model.ActionKind(parsed.Metadata.ActionType),
		Quantity:        quantity,
	}, nil
}

// Ответ API в том виде, в котором его присылает ЮKassa
type yookassaPayment struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
	Metadata struct {
		UserID     string `json:"user_id"`
		ActionType string `json:"action_type"`
		Quantity   string `json:"quantity"`
	} `json:"metadata"`
}
