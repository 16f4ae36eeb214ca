package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"survey-bot-be/internal/constant"
	"survey-bot-be/internal/dto"
	"survey-bot-be/internal/pkg/logger"
	"survey-bot-be/internal/repository/memory"
	"survey-bot-be/pkg/store"
	"survey-bot-be/pkg/survey/flow"
	"survey-bot-be/pkg/survey/prompt"
	"survey-bot-be/pkg/telegram"
)

type IBotService interface {
	ProcessUpdate(ctx context.Context, update *telegram.Update) error
}

// PromptSender is the outbound half of the Bot API that the service needs.
type PromptSender interface {
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) error
	AnswerCallbackQuery(ctx context.Context, callbackQueryID string) error
}

// botService turns raw webhook updates into flow events and runs them through
// the engine under the session registry's exclusivity guarantee.
type botService struct {
	registry       *memory.SessionRegistry
	engine         *flow.Engine
	sender         PromptSender
	deduper        UpdateDeduper
	publisher      IPublisherService
	acquireTimeout time.Duration
	log            logger.ILogger
}

func NewBotService(
	registry *memory.SessionRegistry,
	engine *flow.Engine,
	sender PromptSender,
	deduper UpdateDeduper,
	publisher IPublisherService,
	acquireTimeout time.Duration,
	log logger.ILogger,
) IBotService {
	return &botService{
		registry:       registry,
		engine:         engine,
		sender:         sender,
		deduper:        deduper,
		publisher:      publisher,
		acquireTimeout: acquireTimeout,
		log:            log,
	}
}

func (s *botService) ProcessUpdate(ctx context.Context, update *telegram.Update) error {
	if s.deduper.Seen(ctx, update.UpdateID) {
		s.log.Debug("bot", "Duplicate update dropped", map[string]interface{}{
			"update_id": update.UpdateID,
		})
		return nil
	}

	ev, ok := s.mapUpdate(update)
	if !ok {
		// Joins, edits, stickers and other noise the flow has no use for.
		return nil
	}

	if update.CallbackQuery != nil {
		// Best effort; a failed ack only leaves the client spinner running.
		if err := s.sender.AnswerCallbackQuery(ctx, update.CallbackQuery.ID); err != nil {
			s.log.Warn("bot", "Failed to answer callback query", map[string]interface{}{
				"update_id": update.UpdateID,
				"error":     err.Error(),
			})
		}
	}

	acquireCtx, cancel := context.WithTimeout(ctx, s.acquireTimeout)
	sess, release, err := s.registry.Acquire(acquireCtx, ev.SessionID, ev.ChatID)
	cancel()
	if err != nil {
		// Another event for this chat is still in flight. Report back instead
		// of queueing; a retried update would be dropped by the deduper anyway.
		s.log.Warn("bot", "Session busy, event rejected", map[string]interface{}{
			"session_id": ev.SessionID,
			"update_id":  update.UpdateID,
		})
		return s.sender.SendMessage(ctx, ev.ChatID, constant.MsgBusy, nil)
	}
	defer release()

	result := s.engine.Handle(ctx, sess, ev)

	if result.Terminal {
		s.registry.Remove(sess.ID)
	} else {
		s.registry.Save(sess)
	}
	release()

	if result.Finalized != nil {
		s.publishFinalized(ctx, result.Finalized)
	}

	for _, p := range result.Prompts {
		if err := s.sender.SendMessage(ctx, ev.ChatID, p.Text, keyboardFor(p)); err != nil {
			// The transition is committed; redelivery would be deduped, so a
			// lost prompt is logged rather than turned into a webhook error.
			s.log.Error("bot", "Failed to send prompt", map[string]interface{}{
				"session_id": ev.SessionID,
				"error":      err.Error(),
			})
			return nil
		}
	}
	return nil
}

// mapUpdate classifies one webhook update into a flow event. Updates that
// carry nothing the flow understands are dropped.
func (s *botService) mapUpdate(update *telegram.Update) (flow.Event, bool) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil || cq.Data == "" {
			return flow.Event{}, false
		}
		chatID := cq.Message.Chat.ID
		return flow.Event{
			SessionID: strconv.FormatInt(chatID, 10),
			ChatID:    chatID,
			Kind:      flow.EventChoice,
			Token:     cq.Data,
		}, true
	}

	msg := update.Message
	if msg == nil {
		return flow.Event{}, false
	}
	chatID := msg.Chat.ID
	ev := flow.Event{
		SessionID: strconv.FormatInt(chatID, 10),
		ChatID:    chatID,
	}

	switch {
	case len(msg.Photo) > 0:
		ev.Kind = flow.EventPhoto
		ev.FileID = msg.Photo[len(msg.Photo)-1].FileID // largest resolution
	case msg.Location != nil:
		ev.Kind = flow.EventLocation
		ev.Location = &store.LatLng{
			Latitude:  msg.Location.Latitude,
			Longitude: msg.Location.Longitude,
		}
	case msg.Text == "/start":
		ev.Kind = flow.EventStart
	case msg.Text != "":
		ev.Kind = flow.EventText
		ev.Text = msg.Text
	default:
		return flow.Event{}, false
	}
	return ev, true
}

func (s *botService) publishFinalized(ctx context.Context, report *flow.FinalizedReport) {
	payload := dto.PublishReportFinalizedMessage{
		ReportId:      report.DraftID,
		ChatId:        report.ChatID,
		Segment:       report.Segment,
		Category:      report.Category,
		Designator:    report.Designator,
		EvidenceCount: report.EvidenceCount,
		Total:         report.Total,
		FinalizedAt:   time.Now(),
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("bot", "Failed to marshal finalized report event", map[string]interface{}{
			"report_id": report.DraftID.String(),
			"error":     err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(ctx, payloadJson); err != nil {
		s.log.Error("bot", "Failed to publish finalized report event", map[string]interface{}{
			"report_id": report.DraftID.String(),
			"error":     err.Error(),
		})
	}
}

func keyboardFor(p prompt.Prompt) *telegram.InlineKeyboardMarkup {
	if len(p.Choices) == 0 {
		return nil
	}
	rows := make([][]telegram.InlineKeyboardButton, 0, len(p.Choices))
	for _, row := range p.Choices {
		buttons := make([]telegram.InlineKeyboardButton, 0, len(row))
		for _, c := range row {
			buttons = append(buttons, telegram.InlineKeyboardButton{
				Text:         c.Label,
				CallbackData: c.Token,
			})
		}
		rows = append(rows, buttons)
	}
	return &telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}
