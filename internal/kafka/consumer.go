// Package kafka ingests externally-created site submissions (contact form,
// booking form) from a Kafka topic into the record store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"

	"vilo-admin/internal/config"
	"vilo-admin/internal/db"
	"vilo-admin/internal/events"
	"vilo-admin/internal/logging"
	"vilo-admin/internal/models"
	"vilo-admin/internal/workflow"
	"vilo-admin/pkg/telegram"
)

// submission is the wire format of one site submission event.
type submission struct {
	Kind        string `json:"kind"` // "contact" or "appointment"
	Name        string `json:"name"`
	Email       string `json:"email"`
	Service     string `json:"service"`
	Message     string `json:"message"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ContactID   *int64 `json:"contact_id"`
}

type Consumer struct {
	reader *kafka.Reader
	db     *db.DB
	hub    *events.Hub
	cfg    config.Config
	logger *logging.Logger
}

func NewConsumer(cfg config.Config, database *db.DB, hub *events.Hub, logger *logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	return &Consumer{reader: reader, db: database, hub: hub, cfg: cfg, logger: logger}
}

// Start consumes submissions until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.cfg.Kafka.Topic)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					c.logger.Infof("Kafka consumer stopped")
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}

			var sub submission
			if err := json.Unmarshal(msg.Value, &sub); err != nil {
				c.logger.Errorf("Unmarshal submission failed: %v", err)
				continue
			}

			if err := c.handle(ctx, sub); err != nil {
				c.logger.Errorf("Submission rejected: %v", err)
			}
		}
	}()
}

func (c *Consumer) handle(ctx context.Context, sub submission) error {
	switch sub.Kind {
	case "contact":
		if sub.Name == "" || sub.Email == "" {
			return fmt.Errorf("contact submission missing name or email")
		}
		id, err := c.db.CreateContact(ctx, models.Contact{
			Name:    sub.Name,
			Email:   sub.Email,
			Service: sub.Service,
			Message: sub.Message,
			Status:  workflow.ContactNew,
		})
		if err != nil {
			return err
		}
		c.hub.Broadcast(events.Event{Kind: string(workflow.KindContact), ID: id, Status: workflow.ContactNew})
		c.alert(ctx, fmt.Sprintf("Nouveau contact: %s (%s) - %s", sub.Name, sub.Email, sub.Service))
		c.logger.Infof("Ingested contact %d from %s", id, sub.Email)
		return nil

	case "appointment":
		if sub.ClientName == "" || sub.ClientEmail == "" || sub.Date == "" {
			return fmt.Errorf("appointment submission missing client_name, client_email or date")
		}
		id, err := c.db.CreateAppointment(ctx, models.Appointment{
			ClientName:  sub.ClientName,
			ClientEmail: sub.ClientEmail,
			Date:        sub.Date,
			Time:        sub.Time,
			Status:      workflow.AppointmentPending,
			ContactID:   sub.ContactID,
		})
		if err != nil {
			return err
		}
		c.hub.Broadcast(events.Event{Kind: string(workflow.KindAppointment), ID: id, Status: workflow.AppointmentPending})
		c.alert(ctx, fmt.Sprintf("Nouveau rendez-vous: %s le %s à %s", sub.ClientName, sub.Date, sub.Time))
		c.logger.Infof("Ingested appointment %d for %s", id, sub.ClientEmail)
		return nil

	default:
		return fmt.Errorf("unknown submission kind %q", sub.Kind)
	}
}

// alert pings the admin Telegram chat; failures are logged, never fatal.
func (c *Consumer) alert(ctx context.Context, text string) {
	if c.cfg.Telegram.BotToken == "" {
		return
	}
	if err := telegram.Notify(ctx, c.cfg.Telegram.BotToken, c.cfg.Telegram.ChatID, text); err != nil {
		c.logger.Errorf("Telegram alert failed: %v", err)
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
