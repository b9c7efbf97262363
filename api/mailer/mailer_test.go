package mailer

import (
	"context"
	"testing"

	"yatube/api/config"

	"github.com/matcornic/hermes/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetPasswordEmailCarriesLink(t *testing.T) {
	h := hermes.Hermes{Product: hermes.Product{Name: "Yatube", Link: "http://yatube.test"}}
	link := "http://yatube.test/auth/reset/abc/"

	html, err := h.GenerateHTML(resetPasswordEmail("Leo", link))
	require.NoError(t, err)
	assert.Contains(t, html, link)

	text, err := h.GeneratePlainText(resetPasswordEmail("Leo", link))
	require.NoError(t, err)
	assert.Contains(t, text, link)
}

func TestNewPicksTransport(t *testing.T) {
	m := New(&config.Config{SiteURL: "http://yatube.test"})
	logMailer, ok := m.(*LogMailer)
	require.True(t, ok)
	assert.NoError(t, logMailer.SendResetPassword(context.Background(), "leo@example.com", "Leo", "http://x/"))

	m = New(&config.Config{SendgridAPIKey: "SG.test", MailFrom: "noreply@yatube.test"})
	_, ok = m.(*SendgridMailer)
	assert.True(t, ok)
}
