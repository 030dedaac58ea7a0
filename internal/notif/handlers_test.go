package notif

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fabtrak/internal/common"
)

func newTestRouter(t *testing.T, repo common.NotificationRepository, prefRepo common.PreferenceRepository) (*mux.Router, *NotificationService) {
	t.Helper()

	svc := newTestService(repo, prefRepo)
	t.Cleanup(svc.Shutdown)

	handler := NewNotificationHandler(svc)
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(common.AuthMiddleware)
	handler.Register(api)

	return router, svc
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()

	token, err := common.GenerateToken("u1")
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHandler_Unauthorized(t *testing.T) {
	router, _ := newTestRouter(t, new(MockNotificationRepository), new(MockPreferenceRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_List(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	var captured common.NotificationQuery
	repo.On("List", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(common.NotificationQuery)
		}).
		Return([]*common.Notification{{ID: 1, UserID: "u1"}}, nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/notifications?type=unread&limit=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result []*common.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Len(t, result, 1)

	assert.Equal(t, "u1", captured.UserID)
	assert.Equal(t, 10, captured.Limit)
	require.NotNil(t, captured.Read)
	assert.False(t, *captured.Read)
}

func TestHandler_List_InvalidFilter(t *testing.T) {
	router, _ := newTestRouter(t, new(MockNotificationRepository), new(MockPreferenceRepository))

	req := authedRequest(t, http.MethodGet, "/api/v1/notifications?priority=extreme", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Create(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*common.Notification).ID = 5
		}).
		Return(nil)

	body, _ := json.Marshal(common.NotificationInput{
		UserID:  "u2",
		Title:   "Shipment arrived",
		Message: "Shipment SH-7 received at laydown yard",
		Type:    common.TypeSuccess,
	})

	req := authedRequest(t, http.MethodPost, "/api/v1/notifications", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result common.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, uint64(5), result.ID)
	assert.False(t, result.Read)
	assert.Equal(t, common.PriorityNormal, result.Priority)
}

func TestHandler_Create_MissingFields(t *testing.T) {
	router, _ := newTestRouter(t, new(MockNotificationRepository), new(MockPreferenceRepository))

	body, _ := json.Marshal(common.NotificationInput{UserID: "u2", Type: common.TypeInfo})

	req := authedRequest(t, http.MethodPost, "/api/v1/notifications", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CreateSystem(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(systemNotificationRequest{
		EntityType: common.EntityProject,
		EntityID:   "p1",
		Action:     common.ActionCreated,
		EntityName: "Project A",
		UserIDs:    []string{"u1", "u2"},
	})

	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/system", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestHandler_CreateSystem_InvalidAction(t *testing.T) {
	router, _ := newTestRouter(t, new(MockNotificationRepository), new(MockPreferenceRepository))

	body, _ := json.Marshal(systemNotificationRequest{
		EntityType: common.EntityProject,
		EntityID:   "p1",
		Action:     common.EntityAction("renamed"),
		EntityName: "Project A",
		UserIDs:    []string{"u1"},
	})

	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/system", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MarkRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("MarkAsRead", mock.Anything, uint64(12)).Return(nil)

	req := authedRequest(t, http.MethodPut, "/api/v1/notifications/12/read", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestHandler_MarkAllRead(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("MarkAllAsRead", mock.Anything, "u1").Return(nil)

	req := authedRequest(t, http.MethodPut, "/api/v1/notifications/read-all", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
	repo.AssertExpectations(t)
}

func TestHandler_UnreadCount(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("CountUnread", mock.Anything, "u1").Return(int64(5), nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/notifications/unread/count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count": 5}`, rec.Body.String())
}

func TestHandler_DeleteMany(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("DeleteMany", mock.Anything, []uint64{3, 4}).Return(nil)

	body, _ := json.Marshal(idsRequest{IDs: []uint64{3, 4}})
	req := authedRequest(t, http.MethodDelete, "/api/v1/notifications", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestHandler_Cleanup(t *testing.T) {
	repo := new(MockNotificationRepository)
	router, _ := newTestRouter(t, repo, new(MockPreferenceRepository))

	repo.On("DeleteExpired", mock.Anything, mock.Anything).Return(int64(2), nil)

	req := authedRequest(t, http.MethodPost, "/api/v1/notifications/cleanup", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted": 2}`, rec.Body.String())
}

func TestHandler_GetPreferences_NullWhenMissing(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	router, _ := newTestRouter(t, new(MockNotificationRepository), prefRepo)

	prefRepo.On("ByUserID", mock.Anything, "u1").
		Return((*common.NotificationPreferences)(nil), nil)

	req := authedRequest(t, http.MethodGet, "/api/v1/preferences", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `null`, rec.Body.String())
}

func TestHandler_UpdatePreferences_UsesTokenIdentity(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	router, _ := newTestRouter(t, new(MockNotificationRepository), prefRepo)

	var captured *common.NotificationPreferences
	prefRepo.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*common.NotificationPreferences)
		}).
		Return(nil)

	body, _ := json.Marshal(common.NotificationPreferences{
		UserID:            "someone-else",
		PushNotifications: true,
		SpoolUpdates:      false,
	})

	req := authedRequest(t, http.MethodPut, "/api/v1/preferences", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "u1", captured.UserID)
	assert.False(t, captured.SpoolUpdates)
}
