package stripepay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

var hundred = decimal.NewFromInt(100)

// Client клиент Stripe Checkout в режиме разовой оплаты
type Client struct {
	api *client.API
	cfg Config
	log Logger
}

// NewClient создает новый экземпляр клиента Stripe
func NewClient(cfg Config, log Logger) *Client {
	backendCfg := &stripe.BackendConfig{
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if cfg.Timeout > 0 {
		backendCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.APIURL != "" {
		backendCfg.URL = stripe.String(cfg.APIURL)
		backendCfg.MaxNetworkRetries = stripe.Int64(0)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)
	api := client.New(cfg.SecretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &Client{api: api, cfg: cfg, log: log}
}

// CreateOrder создает Checkout Session на сумму заказа
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return nil, ErrNotConfigured
	}

	cents := ToCents(req.Amount)
	if cents <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount.String())
	}

	intakeID := strconv.FormatInt(req.IntakeID, 10)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(withIntake(c.cfg.SuccessURL, intakeID)),
		CancelURL:         stripe.String(withIntake(c.cfg.CancelURL, intakeID)),
		ClientReferenceID: stripe.String(intakeID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(cents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Description: stripe.String(req.Description),
		},
	}
	params.Context = ctx
	params.AddMetadata("intake_id", intakeID)
	params.PaymentIntentData.AddMetadata("intake_id", intakeID)
	if req.IdempotencyKey != "" {
		params.IdempotencyKey = stripe.String(req.IdempotencyKey)
	}

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		c.log.Error("Stripe: failed to create checkout session for intake=%s: %v", intakeID, err)
		return nil, fmt.Errorf("%w: create checkout session: %v", ErrProcessor, err)
	}

	c.log.Info("Stripe: checkout session %s created for intake=%s, amount=%d %s", sess.ID, intakeID, cents, req.Currency)
	return &Order{OrderID: sess.ID, CheckoutURL: sess.URL}, nil
}

// Capture получает состояние оплаты Checkout Session
// paid означает completed, истёкшая сессия означает failed
func (c *Client) Capture(ctx context.Context, orderID string) (*Capture, error) {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return nil, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")

	sess, err := c.api.CheckoutSessions.Get(orderID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrOrderNotFound
		}
		c.log.Error("Stripe: failed to get checkout session %s: %v", orderID, err)
		return nil, fmt.Errorf("%w: get checkout session: %v", ErrProcessor, err)
	}

	// Без метаданных IntakeID остаётся нулевым
	intakeID, _ := intakeIDOf(sess)

	return &Capture{
		OrderID:     sess.ID,
		IntakeID:    intakeID,
		ReferenceID: reference(sess),
		Status:      statusOf(sess),
		Amount:      FromCents(sess.AmountTotal),
	}, nil
}

// ExpireOrder закрывает открытую Checkout Session, чтобы по ней больше нельзя было заплатить
func (c *Client) ExpireOrder(ctx context.Context, orderID string) error {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		return ErrNotConfigured
	}

	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	if _, err := c.api.CheckoutSessions.Expire(orderID, params); err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return ErrOrderNotFound
		}
		c.log.Error("Stripe: failed to expire checkout session %s: %v", orderID, err)
		return fmt.Errorf("%w: expire checkout session: %v", ErrProcessor, err)
	}
	return nil
}

// ToCents переводит сумму в минимальные единицы валюты
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents переводит минимальные единицы валюты в сумму
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

func statusOf(sess *stripe.CheckoutSession) CaptureStatus {
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid:
		return CaptureCompleted
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return CaptureFailed
	default:
		return CapturePending
	}
}

// reference ссылка на транзакцию: PaymentIntent, иначе ID сессии
func reference(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		return sess.PaymentIntent.ID
	}
	return sess.ID
}

func withIntake(url, intakeID string) string {
	return strings.ReplaceAll(url, IntakePlaceholder, intakeID)
}
