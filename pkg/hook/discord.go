package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Discord sends messages to a Discord channel webhook
type Discord struct {
	hookURL string
	client  http.Client
}

func New(hookURL string) *Discord {
	return &Discord{
		hookURL: hookURL,
		client: http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a webhook url is configured
func (d *Discord) Enabled() bool {
	return d.hookURL != ""
}

// Notify sends the message, it does nothing when the hook is disabled
func (d *Discord) Notify(message string) error {
	if !d.Enabled() {
		return nil
	}

	return d.sendWebhook(d.hookURL, message)
}

func (d *Discord) sendWebhook(url, message string) error {
	body := struct {
		Content string `json:"content"`
	}{
		Content: message,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal data for Discord webhook")
	}
	data := bytes.NewBuffer(jsonData)

	resp, err := d.client.Post(url, "application/json", data)
	if err != nil {
		return fmt.Errorf("could not send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("invalid response code from Discord webhook: %d", resp.StatusCode)
	}

	return nil
}
