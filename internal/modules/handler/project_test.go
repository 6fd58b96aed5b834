package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gigmarket/gigmarket/internal/middleware"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidations()
	return gin.New()
}

// asUser injects an authenticated viewer ahead of h.
func asUser(u *model.User, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if u != nil {
			c.Set(middleware.UserKey, u)
		}
		h(c)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) serializer.Response {
	t.Helper()
	var res serializer.Response
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestHandleErr(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{"unauthorized", &service.Error{Kind: service.ErrUnauthorized, Msg: "you must be logged in"}, http.StatusUnauthorized, "you must be logged in"},
		{"forbidden", &service.Error{Kind: service.ErrForbidden, Msg: "only the seller can change this project"}, http.StatusForbidden, "only the seller can change this project"},
		{"not found", &service.Error{Kind: service.ErrNotFound, Msg: "project not found"}, http.StatusNotFound, "project not found"},
		{"validation", &service.Error{Kind: service.ErrValidation, Msg: "title is required"}, http.StatusBadRequest, "title is required"},
		{"conflict", &service.Error{Kind: service.ErrConflict, Msg: "project is already favorited"}, http.StatusConflict, "project is already favorited"},
		{"publish gate", &service.PublishGateError{Unmet: []string{"a", "b"}}, http.StatusBadRequest, "cannot publish: a; b"},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, "database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter()
			router.GET("/", func(c *gin.Context) { handleErr(c, tt.err) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedMsg, decode(t, w).Msg)
		})
	}
}

func TestProjectHandler_CreateProject(t *testing.T) {
	seller := &model.User{ID: uuid.New(), Username: "seller"}
	subID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"title":"I will design a minimalist logo","description":"vector","subcategory_id":"` + subID.String() + `"}`,
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, seller, service.CreateProjectInput{
					Title:         "I will design a minimalist logo",
					Description:   "vector",
					SubcategoryID: subID,
				}).Return(&model.Project{ID: uuid.New()}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title",
			body:           `{"subcategory_id":"` + subID.String() + `"}`,
			setup:          func(*MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad subcategory id",
			body:           `{"title":"I will design a minimalist logo","subcategory_id":"nope"}`,
			setup:          func(*MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown subcategory",
			body: `{"title":"I will design a minimalist logo","subcategory_id":"` + subID.String() + `"}`,
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, seller, mock.Anything).
					Return(nil, &service.Error{Kind: service.ErrNotFound, Msg: "subcategory not found"})
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProjectService{}
			tt.setup(svc)
			h := NewProjectHandler(svc)
			router := setupRouter()
			router.POST("/projects", asUser(seller, h.CreateProject))

			req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_ListProjects(t *testing.T) {
	viewer := &model.User{ID: uuid.New()}
	svc := &MockProjectService{}
	cards := []*service.ProjectCard{{Project: &model.Project{ID: uuid.New(), Title: "Minimalist logo design"}, Favorited: true}}
	svc.On("List", mock.Anything, service.ListProjectsInput{
		Search:    "logo",
		Filter:    "Logo Design",
		Favorites: true,
		Viewer:    viewer,
	}).Return(cards, nil)

	h := NewProjectHandler(svc)
	router := setupRouter()
	router.GET("/projects", asUser(viewer, h.ListProjects))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects?search=logo&filter=Logo+Design&favorites=true", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"favorited":true`)
	assert.Contains(t, w.Body.String(), "Minimalist logo design")
	svc.AssertExpectations(t)
}

func TestProjectHandler_GetProject(t *testing.T) {
	id := uuid.New()

	t.Run("anonymous viewer", func(t *testing.T) {
		svc := &MockProjectService{}
		svc.On("Get", mock.Anything, id, (*model.User)(nil)).
			Return(&service.ProjectDetail{Project: &model.Project{ID: id}}, nil)
		h := NewProjectHandler(svc)
		router := setupRouter()
		router.GET("/projects/:id", h.GetProject)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"last_fulfillment":null`)
		svc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := &MockProjectService{}
		h := NewProjectHandler(svc)
		router := setupRouter()
		router.GET("/projects/:id", h.GetProject)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProjectHandler_PublishProject(t *testing.T) {
	seller := &model.User{ID: uuid.New()}
	id := uuid.New()
	svc := &MockProjectService{}
	svc.On("Publish", mock.Anything, seller, id).Return(nil, &service.PublishGateError{Unmet: []string{
		"project needs at least one image to be published",
		"project description is required",
	}})

	h := NewProjectHandler(svc)
	router := setupRouter()
	router.POST("/projects/:id/publish", asUser(seller, h.PublishProject))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/"+id.String()+"/publish", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	res := decode(t, w)
	assert.Contains(t, res.Msg, "at least one image")
	data, ok := res.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data["unmet"], 2)
}

func TestProjectHandler_Mutations(t *testing.T) {
	seller := &model.User{ID: uuid.New()}
	id := uuid.New()

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		route          func(*ProjectHandler) gin.HandlerFunc
		pattern        string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name:    "rename",
			method:  http.MethodPatch,
			path:    "/projects/" + id.String() + "/title",
			body:    `{"title":"Minimalist logo design"}`,
			pattern: "/projects/:id/title",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.RenameProject },
			setup: func(svc *MockProjectService) {
				svc.On("Rename", mock.Anything, seller, id, "Minimalist logo design").Return(&model.Project{ID: id}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "rename by non-owner",
			method:  http.MethodPatch,
			path:    "/projects/" + id.String() + "/title",
			body:    `{"title":"Minimalist logo design"}`,
			pattern: "/projects/:id/title",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.RenameProject },
			setup: func(svc *MockProjectService) {
				svc.On("Rename", mock.Anything, seller, id, mock.Anything).
					Return(nil, &service.Error{Kind: service.ErrForbidden, Msg: "forbidden"})
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:    "update description",
			method:  http.MethodPatch,
			path:    "/projects/" + id.String() + "/description",
			body:    `{"description":"Clean vector logo"}`,
			pattern: "/projects/:id/description",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.UpdateDescription },
			setup: func(svc *MockProjectService) {
				svc.On("UpdateDescription", mock.Anything, seller, id, "Clean vector logo").Return(&model.Project{ID: id}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "unpublish",
			method:  http.MethodPost,
			path:    "/projects/" + id.String() + "/unpublish",
			pattern: "/projects/:id/unpublish",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.UnpublishProject },
			setup: func(svc *MockProjectService) {
				svc.On("Unpublish", mock.Anything, seller, id).Return(&model.Project{ID: id}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "delete",
			method:  http.MethodDelete,
			path:    "/projects/" + id.String(),
			pattern: "/projects/:id",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.DeleteProject },
			setup: func(svc *MockProjectService) {
				svc.On("Remove", mock.Anything, seller, id).Return(nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "click",
			method:  http.MethodPost,
			path:    "/projects/" + id.String() + "/click",
			pattern: "/projects/:id/click",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.RecordClick },
			setup: func(svc *MockProjectService) {
				svc.On("RecordClick", mock.Anything, id).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:    "published flag",
			method:  http.MethodGet,
			path:    "/projects/" + id.String() + "/published",
			pattern: "/projects/:id/published",
			route:   func(h *ProjectHandler) gin.HandlerFunc { return h.IsPublished },
			setup: func(svc *MockProjectService) {
				svc.On("IsPublished", mock.Anything, id).Return(true, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockProjectService{}
			tt.setup(svc)
			h := NewProjectHandler(svc)
			router := setupRouter()
			router.Handle(tt.method, tt.pattern, asUser(seller, tt.route(h)))

			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_SellerStatsAnonymous(t *testing.T) {
	svc := &MockProjectService{}
	svc.On("ListSellerStats", mock.Anything, (*model.User)(nil)).
		Return(nil, &service.Error{Kind: service.ErrUnauthorized, Msg: "you must be logged in"})
	h := NewProjectHandler(svc)
	router := setupRouter()
	router.GET("/projects/stats", h.GetSellerStats)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/stats", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
