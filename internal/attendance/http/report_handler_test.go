package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	httpMocks "github.com/allisson/attendance/internal/attendance/http/mocks"
	attendanceUsecase "github.com/allisson/attendance/internal/attendance/usecase"
	usecaseMocks "github.com/allisson/attendance/internal/attendance/usecase/mocks"
	keysDomain "github.com/allisson/attendance/internal/keys/domain"
	ledgerDomain "github.com/allisson/attendance/internal/ledger/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type handlerFixture struct {
	decryptor *httpMocks.MockDecryptor
	ledger    *usecaseMocks.MockLedger
	router    *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{
		decryptor: &httpMocks.MockDecryptor{},
		ledger:    &usecaseMocks.MockLedger{},
	}

	handler := NewReportHandler(f.decryptor, f.ledger, testLogger())

	f.router = gin.New()
	reports := f.router.Group("/v1/reports")
	{
		reports.GET("/:course/registrations", handler.RegistrationsHandler)
		reports.GET("/:course/registrations/count", handler.RegistrationsCountHandler)
		reports.GET("/:course/lessons/:lesson", handler.LessonHandler)
		reports.GET("/:course/lessons/:lesson/count", handler.LessonCountHandler)
		reports.GET("/:course/exams/:date", handler.ExamHandler)
		reports.GET("/:course/exams/:date/count", handler.ExamCountHandler)
	}
	return f
}

func (f *handlerFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	f.router.ServeHTTP(w, req)
	return w
}

func decryptedResult(cardID string) attendanceUsecase.DecryptedRecord {
	return attendanceUsecase.DecryptedRecord{
		Record: &ledgerDomain.Record{
			ID:            uuid.Must(uuid.NewV7()),
			Kind:          keysDomain.KindLesson,
			Course:        "CS101",
			Qualifier:     "Lecture 5",
			FirstName:     "Maria",
			LastName:      "Rossi",
			Matriculation: "M001",
			Annotation:    "10:30:00",
			Position:      1,
			CreatedAt:     time.Now().UTC(),
		},
		CardID: cardID,
	}
}

func TestReportHandler_Registrations(t *testing.T) {
	f := newHandlerFixture()
	op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: "CS101"}

	f.decryptor.On("DecryptBatch", mock.Anything, op).
		Return([]attendanceUsecase.DecryptedRecord{decryptedResult("42")}, nil)

	w := f.get(t, "/v1/reports/CS101/registrations")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CS101", body["course"])
	assert.Equal(t, "Registrazione", body["label"])

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	record := data[0].(map[string]interface{})
	assert.Equal(t, "42", record["card_id"])
	assert.Equal(t, "M001", record["matriculation"])
}

func TestReportHandler_Lesson_PerRecordFailure(t *testing.T) {
	f := newHandlerFixture()
	op := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: "CS101", Qualifier: "Lecture 5"}

	failed := decryptedResult("")
	failed.Err = keysDomain.ErrInvalidPadding

	f.decryptor.On("DecryptBatch", mock.Anything, op).
		Return([]attendanceUsecase.DecryptedRecord{decryptedResult("42"), failed}, nil)

	w := f.get(t, "/v1/reports/CS101/lessons/Lecture%205")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	data := body["data"].([]interface{})
	require.Len(t, data, 2)

	good := data[0].(map[string]interface{})
	assert.Equal(t, "42", good["card_id"])

	bad := data[1].(map[string]interface{})
	assert.Nil(t, bad["card_id"], "failed records report a null card id")
	assert.Contains(t, bad["error"], "invalid padding")
}

func TestReportHandler_MissingKey(t *testing.T) {
	f := newHandlerFixture()
	op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: "CS999"}

	f.decryptor.On("DecryptBatch", mock.Anything, op).
		Return(nil, keysDomain.ErrKeyMissing)

	w := f.get(t, "/v1/reports/CS999/registrations")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_ExamDateValidation(t *testing.T) {
	f := newHandlerFixture()

	w := f.get(t, "/v1/reports/CS101/exams/not-a-date")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	f.decryptor.AssertNotCalled(t, "DecryptBatch", mock.Anything, mock.Anything)
}

func TestReportHandler_Counts(t *testing.T) {
	f := newHandlerFixture()

	t.Run("lesson count", func(t *testing.T) {
		op := keysDomain.Operation{Kind: keysDomain.KindLesson, Course: "CS101", Qualifier: "Lecture 5"}
		f.ledger.On("CountByOperation", mock.Anything, op).Return(int64(23), nil).Once()

		w := f.get(t, "/v1/reports/CS101/lessons/Lecture%205/count")
		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(23), body["count"])
		assert.Equal(t, "Lecture 5", body["label"])
	})

	t.Run("exam count", func(t *testing.T) {
		op := keysDomain.Operation{Kind: keysDomain.KindExam, Course: "CS101", Qualifier: "15-06-2026"}
		f.ledger.On("CountByOperation", mock.Anything, op).Return(int64(7), nil).Once()

		w := f.get(t, "/v1/reports/CS101/exams/15-06-2026/count")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ledger failure maps to service unavailable", func(t *testing.T) {
		op := keysDomain.Operation{Kind: keysDomain.KindRegistration, Course: "CS101"}
		f.ledger.On("CountByOperation", mock.Anything, op).
			Return(int64(0), ledgerDomain.ErrLedgerUnavailable).Once()

		w := f.get(t, "/v1/reports/CS101/registrations/count")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
