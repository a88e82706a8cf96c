package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingSender struct {
	titles   []string
	messages []string
	err      error
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return r.err
}

func TestNotifier(t *testing.T) {
	_, stderr := captureOutput(t)
	sender := &recordingSender{}
	n := NewNotifierWithSender(sender)

	n.SendSuccess("fmpd", "3 photos downloaded")
	n.SendError("fmpd failed", "fbid 1: boom")

	assert.Equal(t, []string{"fmpd", "fmpd failed"}, sender.titles)
	assert.Equal(t, []string{"3 photos downloaded", "fbid 1: boom"}, sender.messages)
	assert.Equal(t, "fmpd: 3 photos downloaded\n", stderr.String())
}

func TestNotifierIgnoresSendErrors(t *testing.T) {
	captureOutput(t)
	sender := &recordingSender{err: errors.New("no notification daemon")}

	assert.NotPanics(t, func() {
		NewNotifierWithSender(sender).SendError("fmpd failed", "boom")
	})
	assert.Len(t, sender.titles, 1)
}

func TestNotifierWithoutSender(t *testing.T) {
	captureOutput(t)
	assert.NotPanics(t, func() {
		NewNotifierWithSender(nil).SendSuccess("fmpd", "done")
	})
}

func TestPSQuote(t *testing.T) {
	assert.Equal(t, "it''s", psQuote("it's"))
}
