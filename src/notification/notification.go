// Package notification reports capture outcomes through fyne notifications.
package notification

import (
	"fmt"
	"log"
	"unicode/utf8"

	"fyne.io/fyne/v2"

	"snapshot/src/commit"
)

const maxBody = 200

// Sender posts notifications. fyne.App satisfies it.
type Sender interface {
	SendNotification(*fyne.Notification)
}

// Notifier reports capture results to the user.
type Notifier struct {
	Title  string
	Sender Sender
}

// Saved announces a committed capture.
func (n Notifier) Saved(res commit.Result) {
	body := "Copied to clipboard"
	if res.Path != "" {
		body = fmt.Sprintf("Copied to clipboard and saved to %s", res.Path)
	}
	n.send(body)
}

// Failed announces a capture that could not be completed.
func (n Notifier) Failed(err error) {
	if err == nil {
		return
	}
	n.send("Capture failed: " + err.Error())
}

func (n Notifier) send(body string) {
	body = truncate(body, maxBody)
	log.Printf("Notification: %s", body)
	if n.Sender == nil {
		return
	}
	title := n.Title
	if title == "" {
		title = "Snapshot"
	}
	n.Sender.SendNotification(fyne.NewNotification(title, body))
}

// truncate cuts body to at most max bytes without splitting a UTF-8 sequence.
func truncate(body string, max int) string {
	if len(body) <= max {
		return body
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "..."
}
