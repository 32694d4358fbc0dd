package controller

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trailhunt_backend/internal/model"
	"trailhunt_backend/internal/service"
	"trailhunt_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type recordingProvider struct {
	uploads []string
	deletes []string
}

func (p *recordingProvider) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	p.uploads = append(p.uploads, filename)
	return "/uploads/" + filename, nil
}

func (p *recordingProvider) Delete(ctx context.Context, filename string) error {
	p.deletes = append(p.deletes, filename)
	return nil
}

func (p *recordingProvider) GetURL(filename string) string {
	return "/uploads/" + filename
}

type stubQuestions struct{}

func (stubQuestions) FindByID(id uint) (*model.Question, error) {
	q := &model.Question{Points: 10}
	q.ID = id
	return q, nil
}

type stubAssignments struct{}

func (stubAssignments) Exists(userID, questionID uint) (bool, error) { return true, nil }

type stubLedger struct {
	answered bool
}

func (s *stubLedger) FindByUserAndQuestion(userID, questionID uint) (*model.Answer, error) {
	if s.answered {
		return &model.Answer{}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLedger) FindByIDForUser(answerID, userID uint) (*model.Answer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLedger) ListByUser(userID uint) ([]model.Answer, error) { return nil, nil }

func (s *stubLedger) SubmitWithEvent(answer *model.Answer) error {
	answer.ID = 1
	return nil
}

func (s *stubLedger) ReviewWithEvent(answer *model.Answer, state model.ReviewState, reviewerID uint, reviewedAt time.Time, feedback string) error {
	return nil
}

func newSubmitRouter(ledger *stubLedger, provider *recordingProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	answerService := service.NewAnswerService(ledger, stubAssignments{}, stubQuestions{}, nil)
	storageService := &service.StorageService{Provider: provider}
	hc := NewHuntController(nil, nil, answerService, storageService)

	r.POST("/hunt/submit/:questionId", func(c *gin.Context) {
		c.Set("user", &util.Claims{UserID: 1, Username: "runner", Role: model.Participant})
	}, hc.Submit)
	return r
}

// 最小合法 PNG 头，足够让 MIME 深度校验识别为 image/png
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func submitWithImage(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("build multipart: %v", err)
	}
	part.Write(pngHeader)
	writer.WriteField("text_answer", "found it")
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/hunt/submit/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitCleansUpImageOnRejection(t *testing.T) {
	provider := &recordingProvider{}
	r := newSubmitRouter(&stubLedger{answered: true}, provider)

	w := submitWithImage(t, r)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for resubmission, got %d: %s", w.Code, w.Body.String())
	}
	if len(provider.uploads) != 1 {
		t.Fatalf("expected one upload, got %d", len(provider.uploads))
	}
	if len(provider.deletes) != 1 || provider.deletes[0] != provider.uploads[0] {
		t.Fatalf("rejected submission must delete its upload; uploads=%v deletes=%v", provider.uploads, provider.deletes)
	}
}

func TestSubmitKeepsImageOnSuccess(t *testing.T) {
	provider := &recordingProvider{}
	r := newSubmitRouter(&stubLedger{}, provider)

	w := submitWithImage(t, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(provider.uploads) != 1 || len(provider.deletes) != 0 {
		t.Fatalf("accepted submission must keep its upload; uploads=%v deletes=%v", provider.uploads, provider.deletes)
	}
}
