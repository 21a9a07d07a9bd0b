package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

func newTestMailer(t *testing.T, cfg SMTPConfig) *SMTPMailer {
	t.Helper()
	m, err := NewSMTPMailer(cfg)
	require.NoError(t, err)
	return m
}

func TestSMTPMailer_Send(t *testing.T) {
	m := newTestMailer(t, SMTPConfig{Host: "smtp.example.com", Port: "587", User: "bot", Password: "secret", From: "forum@example.com"})

	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	err := m.Send(context.Background(), Message{To: "user@example.com", Subject: "Confirm", Body: "click"})
	require.NoError(t, err)
	require.NotNil(t, sent)

	var buf bytes.Buffer
	_, err = sent.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "From: <forum@example.com>")
	assert.Contains(t, raw, "To: <user@example.com>")
	assert.Contains(t, raw, "Subject: Confirm")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "click")
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := newTestMailer(t, SMTPConfig{Host: "localhost", Port: "25", From: "forum@example.com"})
	m.send = func(context.Context, *mail.Msg) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Message{To: "user@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user@example.com")
}

func TestSMTPMailer_InvalidRecipient(t *testing.T) {
	m := newTestMailer(t, SMTPConfig{Host: "localhost", Port: "25", From: "forum@example.com"})
	m.send = func(context.Context, *mail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	err := m.Send(context.Background(), Message{To: "not an address"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid recipient")
}

func TestSMTPMailer_CanceledContext(t *testing.T) {
	m := newTestMailer(t, SMTPConfig{Host: "localhost", Port: "25", From: "forum@example.com"})
	m.send = func(context.Context, *mail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "user@example.com"}), context.Canceled)
}

func TestNewSMTPMailer_BadPort(t *testing.T) {
	_, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: "smtp"})
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLogMailer(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), Message{To: "user@example.com", Subject: "Reset"}))
	assert.Contains(t, buf.String(), "to=user@example.com")
	assert.Contains(t, buf.String(), "subject=Reset")
}
