package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"iter"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"study-assistant-be/internal/controller"
	"study-assistant-be/internal/model"
	"study-assistant-be/internal/pkg/logger"
	"study-assistant-be/internal/pkg/serverutils"
	"study-assistant-be/internal/repository/file"
	"study-assistant-be/internal/repository/memory"
	"study-assistant-be/internal/repository/unitofwork"
	"study-assistant-be/internal/service"
	"study-assistant-be/pkg/llm"
	"study-assistant-be/pkg/rag/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const quizReply = `Q1. Which organelle makes ATP?
A) Nucleus
B) Mitochondrion
C) Ribosome
D) Golgi body
Answer: B

Q2. What carries oxygen in blood?
A) Hemoglobin
B) Insulin
C) Keratin
D) Collagen
Answer: A`

// scriptedProvider answers with the quiz layout when asked for a quiz and
// echoes a fixed reply otherwise.
type scriptedProvider struct{}

func (scriptedProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return llm.Accumulate(scriptedProvider{}.Stream(ctx, history, opts...))
}

func (p scriptedProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (scriptedProvider) Stream(_ context.Context, history []llm.Message, _ ...llm.Option) iter.Seq2[string, error] {
	last := history[len(history)-1].Content
	if strings.Contains(last, "multiple-choice") {
		return llm.Single(quizReply, nil)
	}
	return llm.Single("Mitochondria make ATP.", nil)
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testAPI struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	serverutils.ConfigureJwt("controller-test-secret")

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(model.All()...))

	log := logger.NewNopLogger()
	uowFactory := unitofwork.NewRepositoryFactory(db)
	access := service.NewSessionAccess(memory.NewSessionRepository(0), memory.NewSessionLocker())
	client := llm.NewClient(scriptedProvider{}, llm.NewPacer(0))
	selector, err := search.NewSelector(search.DefaultConfig())
	require.NoError(t, err)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	dispatcher := service.NewLocalEventDispatcher()
	quizResults := service.NewQuizResultService(uowFactory, nil, nil, log)
	dispatcher.Handle("QUIZ_COMPLETED", quizResults.Record)

	notesService := service.NewNotesService(
		access, client, selector,
		service.NewPublisherService(pubSub, "notes"),
		dispatcher,
		file.NewNotesFileRepository(t.TempDir()),
		uowFactory, log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandlerMiddleware(log)})
	api := app.Group("/api")
	controller.NewSessionController(service.NewSessionService(access, log)).RegisterRoutes(api)
	controller.NewNotesController(notesService).RegisterRoutes(api)
	controller.NewChatController(service.NewChatService(access, client, uowFactory, log)).RegisterRoutes(api)
	controller.NewQuizController(service.NewQuizService(access, client, dispatcher, log), quizResults).RegisterRoutes(api)

	return &testAPI{t: t, app: app}
}

func (a *testAPI) do(method, path string, body interface{}) (*http.Response, envelope) {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req)
}

func (a *testAPI) send(req *http.Request) (*http.Response, envelope) {
	a.t.Helper()
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	_ = json.Unmarshal(raw, &env)
	if env.Data == nil {
		env.Data = raw
	}
	return resp, env
}

func (a *testAPI) login() {
	a.t.Helper()
	resp, env := a.do(http.MethodPost, "/api/session/v1", nil)
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &created))
	a.token = created.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestRoutes_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/notes/v1", "/api/chat/v1/general", "/api/quiz/v1", "/api/session/v1/stats"} {
		resp, _ := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	api.token = "garbage"
	resp, _ := api.do(http.MethodGet, "/api/notes/v1", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotesController_Flow(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp, env := api.do(http.MethodPost, "/api/notes/v1/ask", map[string]string{"question": "What makes ATP?"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Upload notes first", env.Message)

	resp, _ = api.do(http.MethodPost, "/api/notes/v1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/api/notes/v1", map[string]string{"content": "Mitochondria make ATP."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = api.do(http.MethodGet, "/api/notes/v1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := decode[struct {
		HasNotes  bool `json:"has_notes"`
		WordCount int  `json:"word_count"`
	}](t, env)
	assert.True(t, info.HasNotes)
	assert.Equal(t, 3, info.WordCount)

	resp, env = api.do(http.MethodPost, "/api/notes/v1/ask", map[string]string{"question": "What makes ATP?"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	answer := decode[struct {
		Answer string `json:"answer"`
	}](t, env)
	assert.Equal(t, "Mitochondria make ATP.", answer.Answer)

	resp, _ = api.do(http.MethodPost, "/api/notes/v1/summary", map[string]string{"detail_level": "huge"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/api/notes/v1/summary", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodDelete, "/api/notes/v1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, env = api.do(http.MethodGet, "/api/notes/v1", nil)
	assert.False(t, decode[struct {
		HasNotes bool `json:"has_notes"`
	}](t, env).HasNotes)
}

func TestNotesController_UploadFile(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	tests := []struct {
		name     string
		filename string
		wantCode int
	}{
		{name: "text file", filename: "lecture.txt", wantCode: http.StatusOK},
		{name: "unsupported type", filename: "lecture.docx", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body bytes.Buffer
			w := multipart.NewWriter(&body)
			part, err := w.CreateFormFile("file", tt.filename)
			require.NoError(t, err)
			_, err = part.Write([]byte("Plants convert light into energy."))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			req := httptest.NewRequest(http.MethodPost, "/api/notes/v1/file", &body)
			req.Header.Set("Content-Type", w.FormDataContentType())
			resp, _ := api.send(req)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/notes/v1/file", nil)
	resp, _ := api.send(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatController_ExportImport(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp, env := api.do(http.MethodPost, "/api/chat/v1", map[string]string{"message": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Mitochondria make ATP.", decode[struct {
		Reply string `json:"reply"`
	}](t, env).Reply)

	resp, env = api.do(http.MethodGet, "/api/chat/v1/general/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="general_chat.json"`, resp.Header.Get("Content-Disposition"))

	var exported []map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &exported))
	require.Len(t, exported, 2)

	resp, _ = api.do(http.MethodPost, "/api/chat/v1/notes/import", exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/api/chat/v1/notes/import", map[string]interface{}{
		"messages": []map[string]string{{"role": "system", "content": "x"}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, env = api.do(http.MethodGet, "/api/chat/v1/notes", nil)
	history := decode[struct {
		Messages []map[string]string `json:"messages"`
	}](t, env)
	assert.Len(t, history.Messages, 2)

	resp, _ = api.do(http.MethodGet, "/api/chat/v1/other", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestQuizController_Flow(t *testing.T) {
	api := newTestAPI(t)
	api.login()

	resp, _ := api.do(http.MethodPost, "/api/notes/v1", map[string]string{"content": "Cells and blood."})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodPost, "/api/quiz/v1", map[string]interface{}{"num_questions": 50})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env := api.do(http.MethodPost, "/api/quiz/v1", map[string]interface{}{"num_questions": 3, "difficulty": "Easy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	generated := decode[struct {
		Quiz struct {
			Total int `json:"total"`
		} `json:"quiz"`
	}](t, env)
	assert.Equal(t, 2, generated.Quiz.Total)

	resp, _ = api.do(http.MethodPost, "/api/quiz/v1/next", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	for _, choice := range []string{"Mitochondrion", "Insulin"} {
		resp, _ = api.do(http.MethodPost, "/api/quiz/v1/answer", map[string]string{"choice": choice})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = api.do(http.MethodPost, "/api/quiz/v1/next", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, env = api.do(http.MethodGet, "/api/quiz/v1/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]struct {
		Score      int    `json:"score"`
		Total      int    `json:"total"`
		Difficulty string `json:"difficulty"`
	}](t, env)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Score)
	assert.Equal(t, "Easy", history[0].Difficulty)

	resp, env = api.do(http.MethodGet, "/api/session/v1/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode[struct {
		QuizState string `json:"quiz_state"`
		QuizScore int    `json:"quiz_score"`
	}](t, env)
	assert.Equal(t, "COMPLETED", stats.QuizState)
	assert.Equal(t, 1, stats.QuizScore)

	resp, _ = api.do(http.MethodPost, "/api/quiz/v1/restart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = api.do(http.MethodDelete, "/api/session/v1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(http.MethodGet, "/api/quiz/v1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
