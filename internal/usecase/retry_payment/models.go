package retry_payment

import "github.com/shopspring/decimal"

// Request входные данные
type Request struct {
	IntakeID int64
}

// Response новый заказ на оплату
type Response struct {
	IntakeID    int64
	OrderID     string
	CheckoutURL string
	Amount      decimal.Decimal
}
