package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/travelport/order-approval/internal/application/service"
	"github.com/travelport/order-approval/internal/domain/approval"
	"github.com/travelport/order-approval/internal/domain/entity"
	"github.com/travelport/order-approval/internal/infrastructure/mirror"
)

type mockSubmissionService struct {
	createFunc         func(ctx context.Context, req service.CreateSubmission) (*entity.Submission, error)
	getFunc            func(ctx context.Context, id string) (*service.SubmissionDetail, error)
	updateProductsFunc func(ctx context.Context, id, products, updatedBy string) error
}

func (m *mockSubmissionService) Create(ctx context.Context, req service.CreateSubmission) (*entity.Submission, error) {
	return m.createFunc(ctx, req)
}

func (m *mockSubmissionService) Get(ctx context.Context, id string) (*service.SubmissionDetail, error) {
	return m.getFunc(ctx, id)
}

func (m *mockSubmissionService) UpdateProducts(ctx context.Context, id, products, updatedBy string) error {
	return m.updateProductsFunc(ctx, id, products, updatedBy)
}

type mockApprovalService struct {
	applyFunc func(ctx context.Context, cmd service.ApprovalCommand) (*service.ApprovalResult, error)
}

func (m *mockApprovalService) Apply(ctx context.Context, cmd service.ApprovalCommand) (*service.ApprovalResult, error) {
	return m.applyFunc(ctx, cmd)
}

type mockProjectionService struct {
	listViewsFunc func(ctx context.Context, viewer string) ([]approval.View, error)
	getViewFunc   func(ctx context.Context, id, viewer string) (*approval.View, error)
}

func (m *mockProjectionService) ListViews(ctx context.Context, viewer string) ([]approval.View, error) {
	return m.listViewsFunc(ctx, viewer)
}

func (m *mockProjectionService) GetView(ctx context.Context, id, viewer string) (*approval.View, error) {
	return m.getViewFunc(ctx, id, viewer)
}

type mockProductService struct {
	listFunc func(ctx context.Context, location string) ([]*entity.Product, error)
}

func (m *mockProductService) ListByLocation(ctx context.Context, location string) ([]*entity.Product, error) {
	return m.listFunc(ctx, location)
}

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

func newTestServer(
	t *testing.T,
	submissions *mockSubmissionService,
	approvals *mockApprovalService,
	projections *mockProjectionService,
	products *mockProductService,
	mirrorClient *mirror.Client,
) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewServer(DefaultServerConfig(), submissions, approvals, projections, products, mirrorClient, testLogger{})
}

func doRequest(server *Server, method, path, user string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)
	return w
}

func TestCreateForm(t *testing.T) {
	submissions := &mockSubmissionService{
		createFunc: func(ctx context.Context, req service.CreateSubmission) (*entity.Submission, error) {
			assert.Equal(t, "alice", req.Initiator)
			assert.Equal(t, "/content/forms/order-1", req.PagePath)
			return &entity.Submission{ID: "S1", Status: "PENDING_APPROVER1", Initiator: req.Initiator}, nil
		},
	}
	server := newTestServer(t, submissions, nil, nil, nil, nil)

	body, _ := json.Marshal(CreateFormRequest{
		PagePath: "/content/forms/order-1",
		Products: `[{"product_name":"City Tour"}]`,
	})
	w := doRequest(server, http.MethodPost, "/api/forms", "alice", body)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestCreateForm_ValidationError(t *testing.T) {
	submissions := &mockSubmissionService{
		createFunc: func(ctx context.Context, req service.CreateSubmission) (*entity.Submission, error) {
			return nil, service.ErrMissingPagePath
		},
	}
	server := newTestServer(t, submissions, nil, nil, nil, nil)

	w := doRequest(server, http.MethodPost, "/api/forms", "alice", []byte(`{"products":"[]"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListForms_UsesCallerIdentity(t *testing.T) {
	var gotViewer string
	projections := &mockProjectionService{
		listViewsFunc: func(ctx context.Context, viewer string) ([]approval.View, error) {
			gotViewer = viewer
			return []approval.View{{ID: "S1"}}, nil
		},
	}
	server := newTestServer(t, nil, nil, projections, nil, nil)

	w := doRequest(server, http.MethodGet, "/api/forms", "bob", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", gotViewer)

	doRequest(server, http.MethodGet, "/api/forms", "", nil)
	assert.Equal(t, "anonymous", gotViewer)
}

func TestGetForm_NotFound(t *testing.T) {
	submissions := &mockSubmissionService{
		getFunc: func(ctx context.Context, id string) (*service.SubmissionDetail, error) {
			return nil, approval.ErrNotFound
		},
	}
	server := newTestServer(t, submissions, nil, nil, nil, nil)

	w := doRequest(server, http.MethodGet, "/api/forms/nope", "alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplyApproval(t *testing.T) {
	approvals := &mockApprovalService{
		applyFunc: func(ctx context.Context, cmd service.ApprovalCommand) (*service.ApprovalResult, error) {
			assert.Equal(t, "S1", cmd.SubmissionID)
			assert.Equal(t, "approver1", cmd.Role)
			assert.Equal(t, "APPROVE", cmd.Action)
			return &service.ApprovalResult{SubmissionStatus: "PENDING_APPROVER2", Notifications: 2}, nil
		},
	}
	server := newTestServer(t, nil, approvals, nil, nil, nil)

	body, _ := json.Marshal(ApprovalRequest{Role: "approver1", Action: "APPROVE"})
	w := doRequest(server, http.MethodPost, "/api/forms/S1/approval", "bob", body)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestApplyApproval_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"conflict", approval.ErrConflict, http.StatusConflict},
		{"terminal", approval.ErrTerminalState, http.StatusBadRequest},
		{"not pending", approval.ErrNotPending, http.StatusBadRequest},
		{"invalid role", approval.ErrInvalidRole, http.StatusBadRequest},
		{"not found", approval.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approvals := &mockApprovalService{
				applyFunc: func(ctx context.Context, cmd service.ApprovalCommand) (*service.ApprovalResult, error) {
					return nil, tt.err
				},
			}
			server := newTestServer(t, nil, approvals, nil, nil, nil)

			body, _ := json.Marshal(ApprovalRequest{Role: "approver1", Action: "APPROVE"})
			w := doRequest(server, http.MethodPost, "/api/forms/S1/approval", "bob", body)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestListProducts(t *testing.T) {
	var gotLocation string
	products := &mockProductService{
		listFunc: func(ctx context.Context, location string) ([]*entity.Product, error) {
			gotLocation = location
			return []*entity.Product{{Name: "City Tour", LocationApplicable: "GOA"}}, nil
		},
	}
	server := newTestServer(t, nil, nil, nil, products, nil)

	w := doRequest(server, http.MethodGet, "/api/products?location=goa", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "goa", gotLocation)
}

func TestListProducts_MissingLocation(t *testing.T) {
	products := &mockProductService{
		listFunc: func(ctx context.Context, location string) ([]*entity.Product, error) {
			if location == "" {
				return nil, service.ErrMissingLocation
			}
			return nil, nil
		},
	}
	server := newTestServer(t, nil, nil, nil, products, nil)

	w := doRequest(server, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFormView(t *testing.T) {
	projections := &mockProjectionService{
		getViewFunc: func(ctx context.Context, id, viewer string) (*approval.View, error) {
			assert.Equal(t, "S1", id)
			assert.Equal(t, "bob", viewer)
			return &approval.View{ID: "S1", PendingApprovalFrom: "bob"}, nil
		},
	}
	server := newTestServer(t, nil, nil, projections, nil, nil)

	w := doRequest(server, http.MethodGet, "/api/forms/S1/view", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestGetFormView_NotFound(t *testing.T) {
	projections := &mockProjectionService{
		getViewFunc: func(ctx context.Context, id, viewer string) (*approval.View, error) {
			return nil, approval.ErrNotFound
		},
	}
	server := newTestServer(t, nil, nil, projections, nil, nil)

	w := doRequest(server, http.MethodGet, "/api/forms/nope/view", "bob", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserData_Proxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"alice":{}}`))
			return
		}
		w.Write([]byte(`{"name":"key1"}`))
	}))
	defer upstream.Close()

	client := mirror.NewClient(upstream.URL, "/userdata.json", time.Second, zap.NewNop())
	server := newTestServer(t, nil, nil, nil, nil, client)

	w := doRequest(server, http.MethodGet, "/api/user-data", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alice":{}}`, w.Body.String())

	w = doRequest(server, http.MethodPost, "/api/user-data", "", []byte(`{"bob":{}}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"key1"}`, w.Body.String())
}

func TestUserData_UpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := mirror.NewClient(upstream.URL, "/userdata.json", time.Second, zap.NewNop())
	server := newTestServer(t, nil, nil, nil, nil, client)

	w := doRequest(server, http.MethodGet, "/api/user-data", "", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestStoreUserData_PayloadTooLarge(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	client := mirror.NewClient(upstream.URL, "/userdata.json", time.Second, zap.NewNop())
	server := newTestServer(t, nil, nil, nil, nil, client)

	payload := bytes.Repeat([]byte("x"), maxUserDataBytes+1)
	w := doRequest(server, http.MethodPost, "/api/user-data", "", payload)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, upstreamCalled, "oversized payload must not reach the upstream store")
}

func TestHealthCheck(t *testing.T) {
	server := newTestServer(t, nil, nil, nil, nil, nil)

	w := doRequest(server, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}
