package service

import (
	"context"
	"iter"
	"slices"
	"sync"
	"testing"

	"study-assistant-be/internal/model"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/file"
	"study-assistant-be/internal/repository/memory"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/pkg/events"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/rag/search"
	"study-assistant-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeProvider struct {
	mu        sync.Mutex
	reply     string
	err       error
	histories [][]llm.Message
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return llm.Accumulate(f.Stream(ctx, history, opts...))
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (f *fakeProvider) Stream(_ context.Context, history []llm.Message, _ ...llm.Option) iter.Seq2[string, error] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, slices.Clone(history))
	return llm.Single(f.reply, f.err)
}

func (f *fakeProvider) respond(reply string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply, f.err = reply, err
}

func (f *fakeProvider) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.histories)
}

func (f *fakeProvider) lastHistory() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.histories) == 0 {
		return nil
	}
	return f.histories[len(f.histories)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	provider   *fakeProvider
	repo       *memory.SessionRepository
	access     *SessionAccess
	client     *llm.Client
	uowFactory unitofwork.RepositoryFactory
	events     *recordingPublisher
	pubSub     *gochannel.GoChannel
	notesFiles *file.NotesFileRepository
	log        logger.ILogger
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	provider := &fakeProvider{}
	repo := memory.NewSessionRepository(0)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	return &fixture{
		provider:   provider,
		repo:       repo,
		access:     NewSessionAccess(repo, memory.NewSessionLocker()),
		client:     llm.NewClient(provider, llm.NewPacer(0)),
		uowFactory: unitofwork.NewRepositoryFactory(newTestDB(t)),
		events:     &recordingPublisher{},
		pubSub:     pubSub,
		notesFiles: file.NewNotesFileRepository(t.TempDir()),
		log:        logger.NewNopLogger(),
	}
}

func (f *fixture) newSession(t *testing.T) string {
	t.Helper()
	session := store.NewStudySession(uuid.NewString())
	require.NoError(t, f.repo.Save(context.Background(), session))
	return session.ID
}

func (f *fixture) session(t *testing.T, id string) *store.StudySession {
	t.Helper()
	session, ok, err := f.repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.True(t, ok)
	return session
}

func (f *fixture) withNotes(t *testing.T, notes string) string {
	t.Helper()
	id := f.newSession(t)
	f.session(t, id).SetNotes(notes, "text")
	return id
}

func (f *fixture) notesService(t *testing.T) INotesService {
	t.Helper()
	selector, err := search.NewSelector(search.DefaultConfig())
	require.NoError(t, err)
	return NewNotesService(
		f.access,
		f.client,
		selector,
		NewPublisherService(f.pubSub, "notes-test"),
		f.events,
		f.notesFiles,
		f.uowFactory,
		f.log,
	)
}

func (f *fixture) chatService() IChatService {
	return NewChatService(f.access, f.client, f.uowFactory, f.log)
}

func (f *fixture) quizService() IQuizService {
	return NewQuizService(f.access, f.client, f.events, f.log)
}

func requireAppError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := serverutils.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}
