package service

import (
	"context"
	"encoding/json"
	"log"

	"survey-bot-be/internal/dto"
	"survey-bot-be/internal/repository/unitofwork"
	"survey-bot-be/pkg/events"
	"survey-bot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains finalized-report events off the internal queue.
// Each event becomes a system log row, and when JetStream is configured the
// event is forwarded there for downstream consumers.
type consumerService struct {
	pubSub        *gochannel.GoChannel
	topicName     string
	uowFactory    unitofwork.RepositoryFactory
	natsPublisher *nats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	natsPublisher *nats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		topicName:     topicName,
		uowFactory:    uowFactory,
		natsPublisher: natsPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishReportFinalizedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing finalized report %s (segment=%s designator=%s)",
		payload.ReportId, payload.Segment, payload.Designator)

	details := map[string]interface{}{
		"report_id":      payload.ReportId.String(),
		"chat_id":        payload.ChatId,
		"segment":        payload.Segment,
		"category":       payload.Category,
		"designator":     payload.Designator,
		"evidence_count": payload.EvidenceCount,
		"total":          payload.Total,
		"finalized_at":   payload.FinalizedAt,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	err = uow.SystemLogRepository().Create(ctx, "INFO", "survey", "report finalized", details)
	if err != nil {
		log.Printf("[ERROR] Failed to write system log for report %s: %v", payload.ReportId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	if cs.natsPublisher != nil {
		evt := events.BaseEvent{
			Type:       "REPORT_FINALIZED",
			Data:       details,
			OccurredAt: payload.FinalizedAt,
		}
		if err := cs.natsPublisher.Publish(ctx, evt); err != nil {
			// JetStream being down should not hold the queue hostage; the
			// audit row above is the durable record.
			log.Printf("[WARN] Failed to forward report %s to NATS: %v", payload.ReportId, err)
		}
	}

	log.Printf("[SUCCESS] Finalized report processed: %s", payload.ReportId)
	msg.Ack()
}
