package service

import (
	"context"
	"encoding/json"
	"strings"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/entity"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService archives uploaded notes off the request path.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	notesFiles contract.NotesFileRepository
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	notesFiles contract.NotesFileRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		notesFiles: notesFiles,
		logger:     log,
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

// processMessage always acks: gochannel redelivers a nacked message at once,
// so a persistent failure would spin forever.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.NotesUploadedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ARCHIVE", "Failed to unmarshal notes message", map[string]interface{}{"error": err.Error()})
		return
	}

	if path, err := cs.notesFiles.Save(payload.Content); err != nil {
		cs.logger.Error("ARCHIVE", "Failed to save latest notes file", map[string]interface{}{"error": err.Error()})
	} else {
		cs.logger.Debug("ARCHIVE", "Latest notes file written", map[string]interface{}{"path": path})
	}

	archive := &entity.NotesArchive{
		SessionId: payload.SessionId,
		Source:    payload.Source,
		Content:   payload.Content,
		CharCount: len([]rune(payload.Content)),
		WordCount: len(strings.Fields(payload.Content)),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		cs.logger.Error("ARCHIVE", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		return
	}
	defer uow.Rollback()

	if err := uow.NotesArchiveRepository().Create(ctx, archive); err != nil {
		cs.logger.Error("ARCHIVE", "Failed to archive notes", map[string]interface{}{
			"session_id": payload.SessionId.String(),
			"error":      err.Error(),
		})
		return
	}

	if err := uow.Commit(); err != nil {
		cs.logger.Error("ARCHIVE", "Failed to commit notes archive", map[string]interface{}{"error": err.Error()})
		return
	}

	cs.logger.Info("ARCHIVE", "Notes archived", map[string]interface{}{
		"session_id": payload.SessionId.String(),
		"archive_id": archive.Id.String(),
		"chars":      archive.CharCount,
	})
}
