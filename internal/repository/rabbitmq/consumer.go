package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"floatchat/internal/domain/entity"
	"floatchat/internal/domain/usecase"
)

type ExportConsumer struct {
	channel     *amqp.Channel
	exchange    string
	routingKey  string
	queue       string
	UseCase     *usecase.ExporterUseCase
	log         *zap.SugaredLogger
	prefetchCnt int
}

func NewExportConsumer(conn *amqp.Connection, exchange, routingKey, queue string, uc *usecase.ExporterUseCase, log *zap.SugaredLogger) (*ExportConsumer, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	consumer := &ExportConsumer{
		channel:     ch,
		exchange:    exchange,
		routingKey:  routingKey,
		queue:       queue,
		UseCase:     uc,
		log:         log,
		prefetchCnt: 1,
	}

	_, err = ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}

	if err := ch.QueueBind(
		queue,
		routingKey,
		exchange,
		false,
		nil,
	); err != nil {
		return nil, err
	}

	if err := ch.Qos(consumer.prefetchCnt, 0, false); err != nil {
		return nil, err
	}

	return consumer, nil
}

func (c *ExportConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		c.queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			c.log.Info("export consumer shutting down")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				c.log.Info("rabbitmq channel closed")
				return nil
			}

			var request entity.ExportRequestedMessage
			if err := json.Unmarshal(msg.Body, &request); err != nil {
				c.log.Errorw("unmarshal export request", "error", err)
				msg.Nack(false, false)
				continue
			}

			go func(request entity.ExportRequestedMessage, msg amqp.Delivery) {
				if err := c.UseCase.Process(ctx, &request); err != nil {
					// Generation is deterministic, so a retry would fail the
					// same way; drop instead of requeueing.
					c.log.Errorw("process export", "job_id", request.JobID, "error", err)
					msg.Nack(false, false)
					return
				}
				msg.Ack(false)
			}(request, msg)
		}
	}
}
