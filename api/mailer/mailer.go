// Package mailer delivers account emails.
package mailer

import (
	"context"

	"yatube/api/config"
	Logger "yatube/api/utils/log"

	"github.com/matcornic/hermes/v2"
	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const resetSubject = "Сброс пароля на Yatube"

type Mailer interface {
	SendResetPassword(ctx context.Context, to, name, link string) error
}

// New picks SendGrid when an API key is configured and logs mail otherwise.
func New(cfg *config.Config) Mailer {
	product := hermes.Hermes{
		Product: hermes.Product{
			Name:      "Yatube",
			Link:      cfg.SiteURL,
			Copyright: "Yatube",
		},
	}
	if cfg.SendgridAPIKey == "" {
		return &LogMailer{product: product}
	}
	return &SendgridMailer{
		client:  sendgrid.NewSendClient(cfg.SendgridAPIKey),
		from:    mail.NewEmail("Yatube", cfg.MailFrom),
		product: product,
	}
}

func resetPasswordEmail(name, link string) hermes.Email {
	return hermes.Email{
		Body: hermes.Body{
			Greeting:  "Здравствуйте",
			Signature: "С уважением",
			Name:      name,
			Intros: []string{
				"Вы получили это письмо, потому что запросили сброс пароля на Yatube.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Чтобы задать новый пароль, перейдите по ссылке:",
					Button: hermes.Button{
						Color: "#22BC66",
						Text:  "Сбросить пароль",
						Link:  link,
					},
				},
			},
			Outros: []string{
				"Ссылка действует 24 часа. Если вы не запрашивали сброс, просто проигнорируйте письмо.",
			},
		},
	}
}

type SendgridMailer struct {
	client  *sendgrid.Client
	from    *mail.Email
	product hermes.Hermes
}

func (m *SendgridMailer) SendResetPassword(ctx context.Context, to, name, link string) error {
	email := resetPasswordEmail(name, link)
	html, err := m.product.GenerateHTML(email)
	if err != nil {
		return errors.Wrap(err, "render reset email")
	}
	text, err := m.product.GeneratePlainText(email)
	if err != nil {
		return errors.Wrap(err, "render reset email")
	}
	message := mail.NewSingleEmail(m.from, resetSubject, mail.NewEmail(name, to), text, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send")
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer renders the message and writes it to the log.
type LogMailer struct {
	product hermes.Hermes
}

func (m *LogMailer) SendResetPassword(_ context.Context, to, name, link string) error {
	text, err := m.product.GeneratePlainText(resetPasswordEmail(name, link))
	if err != nil {
		return errors.Wrap(err, "render reset email")
	}
	Logger.Log.WithField("to", to).WithField("link", link).Info("password reset email (not sent)")
	Logger.Log.Debug(text)
	return nil
}
