package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"study-assistant-be/internal/dto"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/contract"
	"study-assistant-be/internal/repository/specification"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/pkg/events"
	"study-assistant-be/pkg/extract"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/rag/prompt"
	"study-assistant-be/pkg/rag/search"
	"study-assistant-be/pkg/store"

	"github.com/google/uuid"
)

const (
	maxArchivePage = 50
	previewChars   = 800
	textSource     = "text"
	restoreSource  = "latest_notes.txt"
)

var (
	ErrEmptyNotes   = errors.New("notes are empty")
	ErrNoSavedNotes = errors.New("no saved notes found")
)

type INotesService interface {
	Upload(ctx context.Context, sessionId string, req *dto.UploadNotesRequest) (*dto.NotesInfoResponse, error)
	UploadFile(ctx context.Context, sessionId string, filename string, data []byte) (*dto.NotesInfoResponse, error)
	Info(ctx context.Context, sessionId string) (*dto.NotesInfoResponse, error)
	Clear(ctx context.Context, sessionId string) error
	Restore(ctx context.Context, sessionId string, req *dto.RestoreNotesRequest) (*dto.NotesInfoResponse, error)
	Archives(ctx context.Context, sessionId string, limit, offset int) (*dto.NotesArchiveListResponse, error)
	Ask(ctx context.Context, sessionId string, question string, onFragment func(string)) (*dto.AskNotesResponse, error)
	Summarize(ctx context.Context, sessionId string, req *dto.SummarizeNotesRequest) (*dto.SummarizeNotesResponse, error)
}

type notesService struct {
	access           *SessionAccess
	client           *llm.Client
	selector         *search.Selector
	publisherService IPublisherService
	eventPublisher   events.Publisher
	notesFiles       contract.NotesFileRepository
	uowFactory       unitofwork.RepositoryFactory
	logger           logger.ILogger
}

func NewNotesService(
	access *SessionAccess,
	client *llm.Client,
	selector *search.Selector,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	notesFiles contract.NotesFileRepository,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) INotesService {
	return &notesService{
		access:           access,
		client:           client,
		selector:         selector,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		notesFiles:       notesFiles,
		uowFactory:       uowFactory,
		logger:           log,
	}
}

func (s *notesService) Upload(ctx context.Context, sessionId string, req *dto.UploadNotesRequest) (*dto.NotesInfoResponse, error) {
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = textSource
	}
	return s.replaceNotes(ctx, sessionId, extract.Normalize(req.Content), source)
}

func (s *notesService) UploadFile(ctx context.Context, sessionId string, filename string, data []byte) (*dto.NotesInfoResponse, error) {
	content, err := extract.FromFile(filename, data)
	if err != nil {
		if errors.Is(err, extract.ErrUnsupportedType) {
			return nil, serverutils.BadRequest("Unsupported file type, upload a .pdf or .txt file", err)
		}
		s.logger.Warn("NOTES", "Failed to extract notes file", map[string]interface{}{
			"session_id": sessionId,
			"file":       filename,
			"error":      err.Error(),
		})
		return nil, serverutils.BadRequest("Could not read the uploaded file", err)
	}
	return s.replaceNotes(ctx, sessionId, extract.Normalize(content), filename)
}

func (s *notesService) replaceNotes(ctx context.Context, sessionId, content, source string) (*dto.NotesInfoResponse, error) {
	if content == "" {
		return nil, serverutils.BadRequest("Notes are empty", ErrEmptyNotes)
	}

	var res *dto.NotesInfoResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		session.SetNotes(content, source)
		res = notesInfo(session)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("NOTES", "Notes uploaded", map[string]interface{}{
		"session_id": sessionId,
		"source":     source,
		"chars":      res.CharCount,
	})

	s.archive(ctx, sessionId, source, content)
	return res, nil
}

// archive hands the notes to the archive consumer and announces the upload.
// Neither step can fail the upload.
func (s *notesService) archive(ctx context.Context, sessionId, source, content string) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		s.logger.Warn("NOTES", "Session id is not a uuid, skipping archive", map[string]interface{}{"session_id": sessionId})
		return
	}

	payload, err := json.Marshal(dto.NotesUploadedMessage{
		SessionId: id,
		Source:    source,
		Content:   content,
	})
	if err == nil {
		err = s.publisherService.Publish(ctx, payload)
	}
	if err != nil {
		s.logger.Warn("NOTES", "Failed to queue notes archive", map[string]interface{}{"error": err.Error()})
	}

	evt := events.New(events.NotesUploaded, map[string]interface{}{
		"session_id": sessionId,
		"source":     source,
		"chars":      len([]rune(content)),
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("NOTES", "Failed to publish NOTES_UPLOADED event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *notesService) Info(ctx context.Context, sessionId string) (*dto.NotesInfoResponse, error) {
	var res *dto.NotesInfoResponse
	err := s.access.read(ctx, sessionId, func(session *store.StudySession) error {
		res = notesInfo(session)
		return nil
	})
	return res, err
}

func (s *notesService) Clear(ctx context.Context, sessionId string) error {
	return s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		session.ClearNotes()
		return nil
	})
}

// Restore loads an archived upload of this session when an archive id is
// given, otherwise the latest notes file.
func (s *notesService) Restore(ctx context.Context, sessionId string, req *dto.RestoreNotesRequest) (*dto.NotesInfoResponse, error) {
	content, source, err := s.loadSaved(ctx, sessionId, req.ArchiveId)
	if err != nil {
		return nil, err
	}

	var res *dto.NotesInfoResponse
	err = s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		session.SetNotes(content, source)
		res = notesInfo(session)
		return nil
	})
	return res, err
}

func (s *notesService) loadSaved(ctx context.Context, sessionId, archiveId string) (string, string, error) {
	if archiveId == "" {
		content, err := s.notesFiles.LoadLatest()
		if err != nil {
			return "", "", serverutils.Internal("Failed to read saved notes", err)
		}
		content = extract.Normalize(content)
		if content == "" {
			return "", "", serverutils.NotFound("No saved notes found", ErrNoSavedNotes)
		}
		return content, restoreSource, nil
	}

	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return "", "", serverutils.BadRequest("Invalid session id", err)
	}
	aid, err := uuid.Parse(archiveId)
	if err != nil {
		return "", "", serverutils.BadRequest("Invalid archive id", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	archive, err := uow.NotesArchiveRepository().FindOne(ctx,
		specification.ByID{ID: aid},
		specification.BySessionID{SessionID: sid},
	)
	if err != nil {
		return "", "", serverutils.Internal("Failed to load archived notes", err)
	}
	if archive == nil {
		return "", "", serverutils.NotFound("Archived notes not found", ErrNoSavedNotes)
	}
	return archive.Content, archive.Source, nil
}

func (s *notesService) Archives(ctx context.Context, sessionId string, limit, offset int) (*dto.NotesArchiveListResponse, error) {
	sid, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, serverutils.BadRequest("Invalid session id", err)
	}
	if limit <= 0 || limit > maxArchivePage {
		limit = maxArchivePage
	}
	if offset < 0 {
		offset = 0
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bySession := specification.BySessionID{SessionID: sid}

	total, err := uow.NotesArchiveRepository().Count(ctx, bySession)
	if err != nil {
		return nil, serverutils.Internal("Failed to count archived notes", err)
	}
	archives, err := uow.NotesArchiveRepository().FindAll(ctx,
		bySession,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, serverutils.Internal("Failed to list archived notes", err)
	}

	items := make([]dto.NotesArchiveResponse, len(archives))
	for i, a := range archives {
		items[i] = dto.NotesArchiveResponse{
			Id:        a.Id,
			Source:    a.Source,
			CharCount: a.CharCount,
			WordCount: a.WordCount,
			CreatedAt: a.CreatedAt,
		}
	}
	return &dto.NotesArchiveListResponse{Items: items, Total: total}, nil
}

// Ask answers a question grounded in the most relevant chunks of the notes.
// The question is kept in the notes conversation even when the model fails.
func (s *notesService) Ask(ctx context.Context, sessionId string, question string, onFragment func(string)) (*dto.AskNotesResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, serverutils.BadRequest("Question is required", nil)
	}

	var res *dto.AskNotesResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		if err := requireNotes(session); err != nil {
			return err
		}

		selected := s.selector.Select(session.Notes, question)
		grounded := prompt.NewNotesBuilder(search.Texts(selected), question).Build()

		// Earlier turns give the model conversational context; the new turn
		// carries the grounded prompt instead of the bare question.
		history := append(cloneMessages(session.NotesHistory), llm.Message{Role: llm.RoleUser, Content: grounded})
		session.NotesHistory = append(session.NotesHistory, llm.Message{Role: llm.RoleUser, Content: question})

		result := s.client.Chat(ctx, session.LastCallAt, history, onFragment)
		session.LastCallAt = result.CalledAt
		if result.Failed() {
			s.logModelFailure("Notes question failed", sessionId, result)
		}
		if result.Text != "" {
			session.NotesHistory = append(session.NotesHistory, llm.Message{Role: llm.RoleAssistant, Content: result.Text})
		}

		res = &dto.AskNotesResponse{
			Answer:     result.Text,
			ChunksUsed: len(selected),
			Notice:     string(result.Notice),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *notesService) Summarize(ctx context.Context, sessionId string, req *dto.SummarizeNotesRequest) (*dto.SummarizeNotesResponse, error) {
	level := prompt.DetailLevel(req.DetailLevel)
	if level == "" {
		level = prompt.DetailShort
	}

	var res *dto.SummarizeNotesResponse
	err := s.access.update(ctx, sessionId, func(session *store.StudySession) error {
		if err := requireNotes(session); err != nil {
			return err
		}

		p, err := prompt.SummaryPrompt(session.Notes, level)
		if err != nil {
			return serverutils.BadRequest("Unknown detail level", err)
		}

		result := s.client.Generate(ctx, session.LastCallAt, p)
		session.LastCallAt = result.CalledAt
		if result.Failed() {
			s.logModelFailure("Summary failed", sessionId, result)
		}

		res = &dto.SummarizeNotesResponse{
			Summary: result.Text,
			Notice:  string(result.Notice),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *notesService) logModelFailure(message, sessionId string, result llm.Result) {
	s.logger.Warn("NOTES", message, map[string]interface{}{
		"session_id": sessionId,
		"notice":     string(result.Notice),
		"error":      result.Err.Error(),
	})
}

func notesInfo(session *store.StudySession) *dto.NotesInfoResponse {
	stats := session.Stats()
	preview := []rune(session.Notes)
	if len(preview) > previewChars {
		preview = preview[:previewChars]
	}
	return &dto.NotesInfoResponse{
		HasNotes:  session.HasNotes(),
		Source:    session.NotesSource,
		CharCount: stats.CharCount,
		WordCount: stats.WordCount,
		Preview:   string(preview),
	}
}

func cloneMessages(messages []llm.Message) []llm.Message {
	out := make([]llm.Message, len(messages), len(messages)+1)
	copy(out, messages)
	return out
}
