package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/devinpereira/Flexin/internal/catalog"
	"github.com/devinpereira/Flexin/internal/domain"
	"github.com/devinpereira/Flexin/internal/engine"
	"github.com/devinpereira/Flexin/internal/jobs"
	"github.com/devinpereira/Flexin/internal/service"
)

const testSecret = "test-secret"

type fakeScheduleService struct {
	got    []domain.UserProfile
	latest *domain.ScheduleRecord
}

func (s *fakeScheduleService) GenerateSchedule(ctx context.Context, userID string, p domain.UserProfile) (*domain.ScheduleRecord, error) {
	s.got = append(s.got, p)
	e := engine.New(engine.DefaultVocabulary(), engine.DefaultFocusTable(), nil, nil)
	return &domain.ScheduleRecord{
		UserID:            userID,
		RequestID:         engine.RequestIDFromContext(ctx),
		VocabularyVersion: engine.VocabularyVersion,
		Strategy:          "default",
		Schedule:          e.Assemble(ctx, p, nil, nil, nil),
	}, nil
}

func (s *fakeScheduleService) GetLatestSchedule(context.Context, string) (*domain.ScheduleRecord, error) {
	if s.latest == nil {
		return nil, service.ErrScheduleNotFound
	}
	return s.latest, nil
}

func (s *fakeScheduleService) RegenerateAll(context.Context) (service.RegenerateSummary, error) {
	return service.RegenerateSummary{Profiles: 2, Generated: 2}, nil
}

type fakeProfileService struct {
	stored map[string]domain.StoredProfile
}

func (s *fakeProfileService) SaveProfile(_ context.Context, userID string, p domain.UserProfile) (*domain.StoredProfile, error) {
	stored := domain.StoredProfile{UserID: userID, Profile: p}
	s.stored[userID] = stored
	return &stored, nil
}

func (s *fakeProfileService) GetProfile(_ context.Context, userID string) (*domain.StoredProfile, error) {
	stored, ok := s.stored[userID]
	if !ok {
		return nil, service.ErrProfileNotFound
	}
	return &stored, nil
}

type testServer struct {
	router    *gin.Engine
	schedules *fakeScheduleService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, err := catalog.New([]domain.CatalogEntry{
		{ID: "bench", Name: "Bench Press", BodyPart: "chest", Difficulty: "medium"},
		{ID: "plank", Name: "Plank", BodyPart: "core", Difficulty: "low"},
	})
	if err != nil {
		t.Fatal(err)
	}
	schedules := &fakeScheduleService{}
	router := gin.New()
	SetupRoutes(router, RouteDeps{
		JWTSecret:          testSecret,
		Vocabulary:         engine.DefaultVocabulary(),
		ScheduleService:    schedules,
		ProfileService:     &fakeProfileService{stored: map[string]domain.StoredProfile{}},
		CatalogService:     service.NewCatalogService(c, nil, nil),
		DiagnosticsService: service.NewDiagnosticsService(nil, 4, nil),
	})
	return &testServer{router: router, schedules: schedules}
}

func token(t *testing.T, role domain.Role) string {
	t.Helper()
	tok, err := service.NewTokenService(testSecret, time.Minute).IssueToken("user-1", role)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/ping", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Error("response has no request id")
	}
}

func TestGenerateSchedule(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"goal": "Muscle_Gain", "experience": "beginner", "age": 30, "days_per_week": 3}

	w := s.do(t, http.MethodPost, "/api/v1/schedules", token(t, domain.RoleUser), body, HeaderRequestID, "req-abc")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	var resp ScheduleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.RequestID != "req-abc" {
		t.Errorf("requestId = %q, want the caller's id", resp.RequestID)
	}
	var days []domain.Weekday
	for _, d := range resp.Schedule {
		days = append(days, d.Day)
	}
	if diff := cmp.Diff([]domain.Weekday{domain.Monday, domain.Thursday, domain.Sunday}, days); diff != "" {
		t.Errorf("days mismatch (-want +got):\n%s", diff)
	}
	if got := s.schedules.got[0].Goal; got != domain.GoalMuscleGain {
		t.Errorf("goal passed to service = %q, want normalized", got)
	}
}

func TestGenerateScheduleValidation(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name string
		body any
	}{
		{name: "too many days", body: map[string]any{"goal": "endurance", "experience": "beginner", "days_per_week": 8}},
		{name: "zero days", body: map[string]any{"goal": "endurance", "experience": "beginner", "days_per_week": 0}},
		{name: "unknown goal", body: map[string]any{"goal": "bulk", "experience": "beginner", "days_per_week": 3}},
		{name: "missing experience", body: map[string]any{"goal": "endurance", "days_per_week": 3}},
		{name: "not an object", body: []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/v1/schedules", token(t, domain.RoleUser), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
	if len(s.schedules.got) != 0 {
		t.Errorf("service called %d times for invalid input", len(s.schedules.got))
	}
}

func TestAuthAndRoles(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		bearer string
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/schedules/latest", want: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/v1/schedules/latest", bearer: "garbage", want: http.StatusUnauthorized},
		{name: "no schedule yet", method: http.MethodGet, path: "/api/v1/schedules/latest", bearer: token(t, domain.RoleUser), want: http.StatusNotFound},
		{name: "user on admin route", method: http.MethodGet, path: "/api/v1/admin/diagnostics", bearer: token(t, domain.RoleUser), want: http.StatusForbidden},
		{name: "admin diagnostics", method: http.MethodGet, path: "/api/v1/admin/diagnostics", bearer: token(t, domain.RoleAdmin), want: http.StatusOK},
		{name: "admin bad limit", method: http.MethodGet, path: "/api/v1/admin/diagnostics?limit=-3", bearer: token(t, domain.RoleAdmin), want: http.StatusBadRequest},
		{name: "admin regenerate", method: http.MethodPost, path: "/api/v1/admin/schedules/regenerate", bearer: token(t, domain.RoleAdmin), want: http.StatusOK},
		{name: "reload without database", method: http.MethodPost, path: "/api/v1/admin/catalog/reload", bearer: token(t, domain.RoleAdmin), want: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := s.do(t, tt.method, tt.path, tt.bearer, nil); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body)
			}
		})
	}
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestServer(t)
	tok := token(t, domain.RoleUser)

	if w := s.do(t, http.MethodGet, "/api/v1/profile", tok, nil); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	body := map[string]any{"goal": "flexibility", "experience": "advanced", "age": 50, "days_per_week": 2, "equipment": []string{"bench"}}
	if w := s.do(t, http.MethodPut, "/api/v1/profile", tok, body); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}

	w := s.do(t, http.MethodGet, "/api/v1/profile", tok, nil)
	var resp ProfileResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	want := domain.UserProfile{Goal: domain.GoalFlexibility, Experience: domain.ExperienceAdvanced, Age: 50, DaysPerWeek: 2, Equipment: []string{"bench"}}
	if diff := cmp.Diff(want, resp.Profile); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestExercisesAndVocabulary(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/v1/exercises", "", nil)
	var exercises []ExerciseResponse
	if err := json.Unmarshal(w.Body.Bytes(), &exercises); err != nil {
		t.Fatal(err)
	}
	if len(exercises) != 2 || exercises[0].ID != "bench" {
		t.Errorf("unexpected exercises %+v", exercises)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/exercises/nope", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/v1/vocabulary", "", nil)
	var vocab VocabularyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &vocab); err != nil {
		t.Fatal(err)
	}
	if vocab.Version != engine.VocabularyVersion || vocab.Fingerprint != engine.DefaultVocabulary().Fingerprint() {
		t.Errorf("unexpected vocabulary %+v", vocab)
	}

	etag := w.Header().Get("ETag")
	if w := s.do(t, http.MethodGet, "/api/v1/vocabulary", "", nil, "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/v1/vocabulary/artifact", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without storage", w.Code)
	}
}

type busyRegenerator struct{}

func (busyRegenerator) RegenerateAll(context.Context) (service.RegenerateSummary, error) {
	return service.RegenerateSummary{}, jobs.ErrAlreadyRunning
}

func TestRegenerateConflictWhileRunning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(busyRegenerator{}, service.NewDiagnosticsService(nil, 1, nil))
	router := gin.New()
	router.POST("/regenerate", h.RegenerateSchedules)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/regenerate", nil))
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}
