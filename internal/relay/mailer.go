package relay

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer dispatches a formatted confirmation. The SMTP transport is an
// external collaborator; every failure here surfaces as a 500 on the
// relay endpoint.
type Mailer interface {
	SendConfirmation(req *SendEmailRequest) error
	SendAdminCopy(req *SendEmailRequest) error
}

type SMTPMailer struct {
	host       string
	port       string
	user       string
	password   string
	adminEmail string
}

func NewSMTPMailer(host, port, user, password, adminEmail string) *SMTPMailer {
	return &SMTPMailer{
		host:       host,
		port:       port,
		user:       user,
		password:   password,
		adminEmail: adminEmail,
	}
}

func (m *SMTPMailer) SendConfirmation(req *SendEmailRequest) error {
	html, err := renderConfirmation(req)
	if err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("\"Shop Support\" <%s>", m.user)
	e.To = []string{req.Email}
	e.Subject = "Your Order Confirmation"
	e.HTML = html

	return m.send(e)
}

// SendAdminCopy mails a plain-text summary to the shop operator so new
// orders show up without a dashboard.
func (m *SMTPMailer) SendAdminCopy(req *SendEmailRequest) error {
	if m.adminEmail == "" {
		return nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "A new order has been placed.\n\n")
	fmt.Fprintf(&buf, "Transaction ID: %s\n", req.TransactionID)
	fmt.Fprintf(&buf, "Customer: %s <%s>\n", req.CustomerName, req.Email)
	fmt.Fprintf(&buf, "Phone: %s\n", req.Phone)
	fmt.Fprintf(&buf, "Payment Method: %s\n", req.PaymentMethod)
	fmt.Fprintf(&buf, "Total: %.2f\n", req.TotalAmount)
	for _, item := range req.CartItems {
		fmt.Fprintf(&buf, "- %s (Size: %s) x %d\n", item.Name, item.Size, item.Quantity)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("\"Shop Support\" <%s>", m.user)
	e.To = []string{m.adminEmail}
	e.Subject = fmt.Sprintf("New Order: %s", req.TransactionID)
	e.Text = buf.Bytes()

	return m.send(e)
}

func (m *SMTPMailer) send(e *email.Email) error {
	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

func renderConfirmation(req *SendEmailRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := confirmationTemplate.Execute(&buf, req); err != nil {
		return nil, fmt.Errorf("failed to render confirmation email: %w", err)
	}
	return buf.Bytes(), nil
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`
<h2>Order Confirmation</h2>
<p><strong>Transaction ID:</strong> {{.TransactionID}}</p>
<p><strong>Name:</strong> {{.CustomerName}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
<p><strong>Total Amount:</strong> &#8369;{{.TotalAmount}}</p>
{{if eq .OrderType "shop"}}
<p><strong>Order Type:</strong> Shop Purchase</p>
<ul>
{{range .CartItems}}  <li><strong>{{.Name}}</strong> (Size: {{.Size}}) - {{.Quantity}} pcs</li>
{{end}}</ul>
{{if and (eq .PaymentMethod "GCash") .ReceiptURL}}<p><strong>Receipt:</strong> <a href="{{.ReceiptURL}}">View Receipt</a></p>{{end}}
{{end}}
`))
