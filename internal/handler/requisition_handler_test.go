package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqtrack/internal/apperror"
	"reqtrack/internal/handler"
	"reqtrack/internal/middleware"
	"reqtrack/internal/model"
	"reqtrack/internal/service"
	"reqtrack/internal/storage"
)

type fakeRequisitionService struct {
	CreateFn          func(ctx context.Context, actorID uuid.UUID, req service.CreateRequisitionDTO) (*model.Requisition, error)
	UpdateFn          func(ctx context.Context, actorID, id uuid.UUID, req service.CreateRequisitionDTO) (*model.Requisition, error)
	GetFn             func(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	ListFn            func(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error)
	SubmitFn          func(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	DecideFn          func(ctx context.Context, actorID, id uuid.UUID, req service.ApprovalActionDTO) (*model.Requisition, error)
	UpdatePaymentFn   func(ctx context.Context, actorID, id uuid.UUID, req service.PaymentUpdateDTO) (*model.Requisition, error)
	MaterialReceiptFn func(ctx context.Context, actorID, id uuid.UUID, req service.MaterialReceiptDTO) (*model.Requisition, error)
	DispatchFn        func(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error)
	AttachFileFn      func(ctx context.Context, actorID, id uuid.UUID, req service.AttachFileDTO) (*model.Requisition, error)
	DeleteFn          func(ctx context.Context, actorID, id uuid.UUID) error
	BulkDeleteFn      func(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error
	ListApprovalsFn   func(ctx context.Context, actorID, id uuid.UUID) ([]model.Approval, error)
	CreateTypeFn      func(ctx context.Context, actorID uuid.UUID, req service.CreateTypeDTO) (*model.RequisitionType, error)
	ListTypesFn       func(ctx context.Context) ([]model.RequisitionType, error)
}

func (f *fakeRequisitionService) Create(ctx context.Context, actorID uuid.UUID, req service.CreateRequisitionDTO) (*model.Requisition, error) {
	return f.CreateFn(ctx, actorID, req)
}
func (f *fakeRequisitionService) Update(ctx context.Context, actorID, id uuid.UUID, req service.CreateRequisitionDTO) (*model.Requisition, error) {
	return f.UpdateFn(ctx, actorID, id, req)
}
func (f *fakeRequisitionService) Get(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	return f.GetFn(ctx, actorID, id)
}
func (f *fakeRequisitionService) List(ctx context.Context, actorID uuid.UUID, offset, limit int) ([]model.Requisition, int64, error) {
	return f.ListFn(ctx, actorID, offset, limit)
}
func (f *fakeRequisitionService) Submit(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	return f.SubmitFn(ctx, actorID, id)
}
func (f *fakeRequisitionService) Decide(ctx context.Context, actorID, id uuid.UUID, req service.ApprovalActionDTO) (*model.Requisition, error) {
	return f.DecideFn(ctx, actorID, id, req)
}
func (f *fakeRequisitionService) UpdatePayment(ctx context.Context, actorID, id uuid.UUID, req service.PaymentUpdateDTO) (*model.Requisition, error) {
	return f.UpdatePaymentFn(ctx, actorID, id, req)
}
func (f *fakeRequisitionService) MaterialReceipt(ctx context.Context, actorID, id uuid.UUID, req service.MaterialReceiptDTO) (*model.Requisition, error) {
	return f.MaterialReceiptFn(ctx, actorID, id, req)
}
func (f *fakeRequisitionService) Dispatch(ctx context.Context, actorID, id uuid.UUID) (*model.Requisition, error) {
	return f.DispatchFn(ctx, actorID, id)
}
func (f *fakeRequisitionService) AttachFile(ctx context.Context, actorID, id uuid.UUID, req service.AttachFileDTO) (*model.Requisition, error) {
	return f.AttachFileFn(ctx, actorID, id, req)
}
func (f *fakeRequisitionService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	return f.DeleteFn(ctx, actorID, id)
}
func (f *fakeRequisitionService) BulkDelete(ctx context.Context, actorID uuid.UUID, ids []uuid.UUID) error {
	return f.BulkDeleteFn(ctx, actorID, ids)
}
func (f *fakeRequisitionService) ListApprovals(ctx context.Context, actorID, id uuid.UUID) ([]model.Approval, error) {
	return f.ListApprovalsFn(ctx, actorID, id)
}
func (f *fakeRequisitionService) CreateType(ctx context.Context, actorID uuid.UUID, req service.CreateTypeDTO) (*model.RequisitionType, error) {
	return f.CreateTypeFn(ctx, actorID, req)
}
func (f *fakeRequisitionService) ListTypes(ctx context.Context) ([]model.RequisitionType, error) {
	return f.ListTypesFn(ctx)
}

// newMultipart builds a multipart body with a file_type field and one file
// part, returning the content type to set on the request.
func newMultipart(t *testing.T, buf *bytes.Buffer, fileType, fileName, content string) string {
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("file_type", fileType))
	part, err := w.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return w.FormDataContentType()
}

type fakeStore struct{}

func (fakeStore) Save(originalName string, r io.Reader) (*storage.StoredFile, error) {
	return &storage.StoredFile{Name: "deadbeef.pdf", URL: "/uploads/deadbeef.pdf", Size: 4}, nil
}

func newRouter(svc service.RequisitionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.NewRequisitionHandler(svc, fakeStore{}).RegisterRoutes(router.Group(""))
	return router
}

func bearerToken(t *testing.T, userID, orgID uuid.UUID) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"org":  orgID.String(),
		"role": model.RolePurchaser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestCreateRequisitionEndpoint(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := &fakeRequisitionService{
			CreateFn: func(_ context.Context, actorID uuid.UUID, req service.CreateRequisitionDTO) (*model.Requisition, error) {
				assert.Equal(t, userID, actorID)
				return &model.Requisition{ID: uuid.New(), RequestID: "ORB/25/P00001", Status: model.StatusDraft}, nil
			},
		}
		router := newRouter(svc)

		body, _ := json.Marshal(map[string]string{"type_id": uuid.New().String(), "description": "steel"})
		req := httptest.NewRequest(http.MethodPost, "/api/requisitions", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "ORB/25/P00001")
	})

	t.Run("invalid payload", func(t *testing.T) {
		router := newRouter(&fakeRequisitionService{})

		req := httptest.NewRequest(http.MethodPost, "/api/requisitions", strings.NewReader(`{"type_id":"not-a-uuid"}`))
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		router := newRouter(&fakeRequisitionService{})

		req := httptest.NewRequest(http.MethodPost, "/api/requisitions", strings.NewReader(`{}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetRequisitionEndpoint(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeRequisitionService{
			GetFn: func(_ context.Context, _, _ uuid.UUID) (*model.Requisition, error) {
				return nil, apperror.NotFound("requisition not found")
			},
		}
		router := newRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/api/requisitions/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		router := newRouter(&fakeRequisitionService{})

		req := httptest.NewRequest(http.MethodGet, "/api/requisitions/banana", nil)
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDecideEndpointMapsForbidden(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	svc := &fakeRequisitionService{
		DecideFn: func(_ context.Context, _, _ uuid.UUID, _ service.ApprovalActionDTO) (*model.Requisition, error) {
			return nil, apperror.Forbidden("role PURCHASER may not perform this operation")
		},
	}
	router := newRouter(svc)

	body := `{"approval_status":"APPROVED"}`
	req := httptest.NewRequest(http.MethodPost, "/api/requisitions/"+uuid.NewString()+"/approval", strings.NewReader(body))
	req.Header.Set("Authorization", bearerToken(t, userID, orgID))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBulkDeleteEndpoint(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	t.Run("conflict maps to 409", func(t *testing.T) {
		svc := &fakeRequisitionService{
			BulkDeleteFn: func(_ context.Context, _ uuid.UUID, ids []uuid.UUID) error {
				assert.Len(t, ids, 2)
				return apperror.Conflict("can only delete requisitions in DRAFT status")
			},
		}
		router := newRouter(svc)

		body, _ := json.Marshal(map[string][]string{"ids": {uuid.NewString(), uuid.NewString()}})
		req := httptest.NewRequest(http.MethodPost, "/api/requisitions/bulk-delete", bytes.NewReader(body))
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("empty id list is rejected", func(t *testing.T) {
		router := newRouter(&fakeRequisitionService{})

		req := httptest.NewRequest(http.MethodPost, "/api/requisitions/bulk-delete", strings.NewReader(`{"ids":[]}`))
		req.Header.Set("Authorization", bearerToken(t, userID, orgID))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUploadFileEndpoint(t *testing.T) {
	userID := uuid.New()
	orgID := uuid.New()

	svc := &fakeRequisitionService{
		AttachFileFn: func(_ context.Context, _, _ uuid.UUID, dto service.AttachFileDTO) (*model.Requisition, error) {
			assert.Equal(t, "bill", dto.FileType)
			assert.Equal(t, "/uploads/deadbeef.pdf", dto.FileURL)
			return &model.Requisition{BillPhotoURL: dto.FileURL}, nil
		},
	}
	router := newRouter(svc)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "bill", "invoice.pdf", "data")

	req := httptest.NewRequest(http.MethodPost, "/api/requisitions/"+uuid.NewString()+"/files", &buf)
	req.Header.Set("Authorization", bearerToken(t, userID, orgID))
	req.Header.Set("Content-Type", mw)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/uploads/deadbeef.pdf")
}
