// Package notify pushes back-office alerts to a Discord webhook. The
// notifier subscribes to store change events and posts a short message when
// a new application or appointment arrives.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/acfortier/garage-backoffice/internal/core/events"
)

type message struct {
	Content string `json:"content"`
}

type Config struct {
	WebhookURL string
	Timeout    time.Duration
	QueueSize  int
}

// Notifier delivers messages from a buffered queue so a slow webhook never
// blocks a store mutation. An empty webhook URL disables delivery entirely.
type Notifier struct {
	webhookURL string
	timeout    time.Duration
	logger     *slog.Logger

	queue  chan message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

func NewNotifier(config Config, logger *slog.Logger) *Notifier {
	ctx, cancel := context.WithCancel(context.Background())

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	queueSize := config.QueueSize
	if queueSize <= 0 {
		queueSize = 100
	}

	n := &Notifier{
		webhookURL: config.WebhookURL,
		timeout:    timeout,
		logger:     logger,
		queue:      make(chan message, queueSize),
		ctx:        ctx,
		cancel:     cancel,
	}

	if n.webhookURL != "" {
		n.start()
	} else {
		n.logger.Info("discord notifier disabled, no webhook url configured")
	}

	return n
}

// Register wires the notifier to the store's change events.
func (n *Notifier) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventApplicationsChanged, n.onApplicationChanged)
	bus.Subscribe(events.EventAppointmentsChanged, n.onAppointmentChanged)
}

func (n *Notifier) Shutdown() {
	n.cancel()
	n.wg.Wait()
}

func (n *Notifier) onApplicationChanged(ctx context.Context, event events.Event) error {
	if action(event) != "create" {
		return nil
	}
	n.enqueue("Nouvelle candidature recue, a traiter dans le back-office.")
	return nil
}

func (n *Notifier) onAppointmentChanged(ctx context.Context, event events.Event) error {
	if action(event) != "create" {
		return nil
	}
	n.enqueue("Nouvelle demande de rendez-vous recue.")
	return nil
}

func action(event events.Event) string {
	data, ok := event.Payload().(map[string]interface{})
	if !ok {
		return ""
	}
	a, _ := data["action"].(string)
	return a
}

func (n *Notifier) enqueue(content string) {
	if n.webhookURL == "" {
		return
	}
	select {
	case n.queue <- message{Content: content}:
	default:
		n.logger.Warn("discord queue full, dropping notification")
	}
}

func (n *Notifier) start() {
	n.once.Do(func() {
		n.wg.Add(1)
		go func() {
			defer n.wg.Done()
			for {
				select {
				case msg := <-n.queue:
					n.deliver(msg)
				case <-n.ctx.Done():
					n.logger.Debug("discord notifier shutting down")
					return
				}
			}
		}()
	})
}

func (n *Notifier) deliver(msg message) {
	body, err := json.Marshal(msg)
	if err != nil {
		n.logger.Error("failed to marshal discord message", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(n.ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		n.logger.Error("failed to create discord request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: n.timeout}
	resp, err := client.Do(req)
	if err != nil {
		n.logger.Error("discord delivery failed", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		n.logger.Warn("discord webhook rejected message", "status_code", resp.StatusCode)
		return
	}
	n.logger.Debug("discord notification delivered")
}
