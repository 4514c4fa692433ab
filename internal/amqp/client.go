// Package amqp publishes and consumes payroll events over RabbitMQ. The
// service publishes a month-report event after each successful ingestion
// and a record-errors event when a pay file referenced unknown employees;
// the report worker consumes both and writes the flat output files.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
}

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key matches the queue name on a direct exchange.
	err = c.channel.QueueBind(c.queueName, c.queueName, c.exchangeName, false, nil)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

func (c *Client) publish(ctx context.Context, typ string, payload any) error {
	body, err := newEnvelope(typ, payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", typ, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s event: %w", typ, err)
	}
	return nil
}

// PublishMonthReport publishes the pay table for an ingested month.
func (c *Client) PublishMonthReport(ctx context.Context, msg MonthReportMessage) error {
	if err := c.publish(ctx, TypeMonthReport, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published month report event",
		"month", msg.Month,
		"lines", len(msg.Lines),
		"replaced", msg.Replaced,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

// PublishRecordErrors publishes the unknown-identifier errors from one
// ingestion.
func (c *Client) PublishRecordErrors(ctx context.Context, msg RecordErrorsMessage) error {
	if err := c.publish(ctx, TypeRecordErrors, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published record errors event",
		"source", msg.Source,
		"errors", len(msg.Errors))
	return nil
}

// Consume dispatches queue deliveries to the per-type handlers until the
// context is cancelled. Failed handlers nack with requeue; undecodable
// messages are dropped.
func (c *Client) Consume(
	ctx context.Context,
	onReport func(ctx context.Context, msg MonthReportMessage) error,
	onErrors func(ctx context.Context, msg RecordErrorsMessage) error,
) error {
	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack (manual ack after handling)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming payroll events", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping event consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			var env Envelope
			if err := json.Unmarshal(delivery.Body, &env); err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal event envelope", "error", err)
				delivery.Nack(false, false) // reject and don't requeue
				continue
			}

			if err := c.dispatch(ctx, env, onReport, onErrors); err != nil {
				slog.ErrorContext(ctx, "Failed to handle event",
					"error", err,
					"type", env.Type)
				delivery.Nack(false, true) // reject and requeue
				continue
			}

			delivery.Ack(false)
		}
	}
}

func (c *Client) dispatch(
	ctx context.Context,
	env Envelope,
	onReport func(ctx context.Context, msg MonthReportMessage) error,
	onErrors func(ctx context.Context, msg RecordErrorsMessage) error,
) error {
	switch env.Type {
	case TypeMonthReport:
		var msg MonthReportMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return fmt.Errorf("decode month report payload: %w", err)
		}
		return onReport(ctx, msg)
	case TypeRecordErrors:
		var msg RecordErrorsMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return fmt.Errorf("decode record errors payload: %w", err)
		}
		return onErrors(ctx, msg)
	default:
		return fmt.Errorf("unknown event type %q", env.Type)
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
