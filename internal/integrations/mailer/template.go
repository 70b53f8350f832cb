package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// ConfirmationSubject тема письма о подтверждении записи
const ConfirmationSubject = "Consultation Booking Confirmation"

const longDateFormat = "Monday, January 2, 2006"

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<html><body style="background-color:#f6f9fc;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif">
<div style="background-color:#ffffff;margin:0 auto;padding:40px 20px">
<h1>Booking Confirmation</h1>
<p>Hi {{.Name}},</p>
<p>Thank you for booking a consultation with us! Your payment has been successfully processed and your booking is confirmed.</p>
<h2>Booking Details</h2>
<p><strong>Date:</strong> {{.Date}}</p>
<p><strong>Time Slots:</strong></p>
{{range .Slots}}<p>&bull; {{.StartTime}} - {{.EndTime}}</p>
{{end}}<p><strong>Total Duration:</strong> {{.Duration}}</p>
<p><strong>Total Amount Paid:</strong> ${{.Price}} USD</p>
<p><strong>Payment ID:</strong> {{.PaymentID}}</p>
<hr>
<h3>What's Next?</h3>
<p>&bull; You will receive a calendar invite shortly</p>
<p>&bull; A meeting link will be sent 24 hours before your consultation</p>
<p>&bull; Please prepare any questions or concerns you'd like to discuss</p>
</div></body></html>`))

type confirmationView struct {
	Name      string
	Date      string
	Slots     []Slot
	Duration  string
	Price     string
	PaymentID string
}

func newConfirmationView(c Confirmation) confirmationView {
	return confirmationView{
		Name:      strings.TrimSpace(c.FirstName + " " + c.LastName),
		Date:      c.BookingDate.Format(longDateFormat),
		Slots:     c.Slots,
		Duration:  formatHours(c),
		Price:     c.TotalPrice.StringFixed(domain.CurrencyPrecision),
		PaymentID: c.PaymentID,
	}
}

// renderConfirmation возвращает HTML и текстовую версию письма
func renderConfirmation(c Confirmation) (string, string, error) {
	view := newConfirmationView(c)

	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, view); err != nil {
		return "", "", fmt.Errorf("%w: failed to render template: %v", ErrInternal, err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\n", view.Name)
	text.WriteString("Your payment has been successfully processed and your booking is confirmed.\n\n")
	fmt.Fprintf(&text, "Date: %s\n", view.Date)
	text.WriteString("Time Slots:\n")
	for _, s := range view.Slots {
		fmt.Fprintf(&text, "  - %s - %s\n", s.StartTime, s.EndTime)
	}
	fmt.Fprintf(&text, "Total Duration: %s\n", view.Duration)
	fmt.Fprintf(&text, "Total Amount Paid: $%s USD\n", view.Price)
	fmt.Fprintf(&text, "Payment ID: %s\n", view.PaymentID)

	return html.String(), text.String(), nil
}

func formatHours(c Confirmation) string {
	if c.TotalDuration.Equal(decimal.NewFromInt(1)) {
		return "1 hour"
	}
	return c.TotalDuration.String() + " hours"
}
