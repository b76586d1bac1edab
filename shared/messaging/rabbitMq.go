package messaging

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/kacperborowieckb/gen-records/shared/contracts"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	RecordsExchange = "records_exchange"
)

type RabbitMQ struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
	logger  *zap.Logger
}

func NewRabbitMQ(uri string, logger *zap.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitMQ{
		conn:    conn,
		Channel: ch,
		logger:  logger,
	}, nil
}

func (r *RabbitMQ) DeclareExchange(name, kind string) error {
	return r.Channel.ExchangeDeclare(
		name,  // name
		kind,  // type (e.g., "topic", "direct", "fanout")
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
}

func (r *RabbitMQ) DeclareQueue(name string) (amqp.Queue, error) {
	return r.Channel.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
}

func (r *RabbitMQ) BindQueue(queueName, routingKey, exchangeName string) error {
	return r.Channel.QueueBind(
		queueName,    // queue name
		routingKey,   // routing key
		exchangeName, // exchange
		false,
		nil,
	)
}

func (r *RabbitMQ) PublishMessage(ctx context.Context, exchange, routingKey string, message contracts.AmqpMessage) error {
	r.logger.Debug("publishing message", zap.String("routing_key", routingKey))

	jsonMsg, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         jsonMsg,
	}

	return r.Channel.PublishWithContext(ctx,
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		msg,
	)
}

// PublishRecordsGenerated announces one generation round on the records exchange.
func (r *RabbitMQ) PublishRecordsGenerated(ctx context.Context, event RecordsGeneratedEvent) error {
	msg, err := event.NewAmqpMessage()
	if err != nil {
		return err
	}

	return r.PublishMessage(ctx, RecordsExchange, contracts.RecordsGeneratedRoutingKey, msg)
}

func (r *RabbitMQ) Close() error {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

// SetupAppTopology declares the exchange, queue and binding generated
// records are published through.
func (r *RabbitMQ) SetupAppTopology() error {
	r.logger.Debug("setting up RabbitMQ application topology")

	if err := r.DeclareExchange(RecordsExchange, "topic"); err != nil {
		return err
	}

	if err := r.declareAndBind(GeneratedRecordsQueue, RecordsExchange, contracts.RecordsGeneratedRoutingKey); err != nil {
		return err
	}

	r.logger.Debug("RabbitMQ application topology setup complete")

	return nil
}

func (r *RabbitMQ) declareAndBind(queueName, exchangeName, routingKey string) error {
	q, err := r.DeclareQueue(queueName)
	if err != nil {
		return err
	}

	if err := r.BindQueue(q.Name, routingKey, exchangeName); err != nil {
		return err
	}

	return nil
}
