package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	_ "clinicrbac/docs"
	"clinicrbac/internal/auth"
	"clinicrbac/internal/config"
	"clinicrbac/internal/db"
	"clinicrbac/internal/repository"
	"clinicrbac/internal/service"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormDB, err := db.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	seeder := service.NewSeedService(repository.NewUserRepository(gormDB), auth.NewPasswordHasher(bcrypt.MinCost))
	_, err = seeder.SeedUsers(context.Background(), service.DefaultSeedUsers)
	require.NoError(t, err)

	cfg := &config.Config{Env: config.EnvTest, JWTSecret: "e2e-secret"}
	e := NewServer(cfg, gormDB, nil, zerolog.New(io.Discard), WithBcryptCost(bcrypt.MinCost))
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	code, raw := s.raw(method, path, token, body)
	out := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return code, out
}

func (s *testServer) raw(method, path, token string, body interface{}) (int, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, body := s.do(http.MethodPost, "/auth/login", "", echo.Map{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code, body)
	token, ok := body["token"].(string)
	require.True(s.t, ok)
	require.NotEmpty(s.t, token)
	return token
}

func (s *testServer) userID(adminToken, email string) string {
	s.t.Helper()
	code, body := s.do(http.MethodGet, "/admin/users/email/"+email, adminToken, nil)
	require.Equal(s.t, http.StatusOK, code, body)
	return body["id"].(string)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	code, raw := s.raw(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", string(raw))
}

func TestAPIDocs(t *testing.T) {
	s := newTestServer(t)
	code, raw := s.raw(http.MethodGet, "/api-docs/doc.json", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), "Clinic RBAC API")
	assert.Contains(t, string(raw), "/doctor/patients/{id}/assign-nurse")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name           string
		body           echo.Map
		expectedStatus int
		expectedMsg    string
	}{
		{"valid credentials", echo.Map{"email": "admin@example.com", "password": "admin@123"}, http.StatusOK, ""},
		{"wrong password", echo.Map{"email": "admin@example.com", "password": "nope"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown email", echo.Map{"email": "ghost@example.com", "password": "admin@123"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", echo.Map{"email": "admin@example.com"}, http.StatusBadRequest, "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(http.MethodPost, "/auth/login", "", tt.body)
			assert.Equal(t, tt.expectedStatus, code)
			if tt.expectedMsg != "" {
				assert.Equal(t, tt.expectedMsg, body["message"])
				assert.NotContains(t, body, "token")
			} else {
				assert.NotEmpty(t, body["token"])
			}
		})
	}
}

func TestAdminProvisioningFlow(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin@example.com", "admin@123")

	code, created := s.do(http.MethodPost, "/admin/users", adminToken,
		echo.Map{"email": "d@x.com", "password": "p", "role": "doctor"})
	require.Equal(t, http.StatusCreated, code, created)
	assert.Equal(t, "d@x.com", created["email"])
	assert.Equal(t, "doctor", created["role"])
	assert.NotEmpty(t, created["id"])
	assert.Len(t, created, 3)

	s.login("d@x.com", "p")

	code, found := s.do(http.MethodGet, "/admin/users/email/d@x.com", adminToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, created["id"], found["id"])

	code, body := s.do(http.MethodPost, "/admin/users", adminToken,
		echo.Map{"email": "d@x.com", "password": "other", "role": "nurse"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", body["message"])

	code, body = s.do(http.MethodPost, "/admin/users", adminToken,
		echo.Map{"email": "boss@x.com", "password": "p", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid role", body["message"])

	code, body = s.do(http.MethodGet, "/admin/users/email/missing@x.com", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["message"])

	code, body = s.do(http.MethodDelete, "/admin/users/not-a-uuid", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", body["message"])
}

func TestRoleGates(t *testing.T) {
	s := newTestServer(t)
	doctorToken := s.login("doctor@example.com", "doctor@123")
	nurseToken := s.login("nurse@example.com", "nurse@123")

	code, body := s.do(http.MethodPost, "/admin/users", doctorToken,
		echo.Map{"email": "x@x.com", "password": "p", "role": "nurse"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not allowed", body["message"])

	code, _ = s.do(http.MethodPost, "/doctor/patients", nurseToken, echo.Map{"name": "P"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(http.MethodGet, "/nurse/patients", doctorToken, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = s.do(http.MethodGet, "/nurse/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", body["message"])
}

func TestPatientLifecycle(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin@example.com", "admin@123")
	doctorToken := s.login("doctor@example.com", "doctor@123")
	otherDoctorToken := s.login("doctor2@example.com", "doctor@123")
	nurseToken := s.login("nurse@example.com", "nurse@123")

	doctorID := s.userID(adminToken, "doctor@example.com")
	nurseID := s.userID(adminToken, "nurse@example.com")
	otherDoctorID := s.userID(adminToken, "doctor2@example.com")

	code, body := s.do(http.MethodPost, "/doctor/patients", doctorToken, echo.Map{"diagnosis": "A"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Name is required", body["message"])

	code, patient := s.do(http.MethodPost, "/doctor/patients", doctorToken, echo.Map{"name": "P", "diagnosis": "A"})
	require.Equal(t, http.StatusCreated, code, patient)
	patientID := patient["id"].(string)
	assert.Equal(t, "A", patient["diagnosis"])
	assert.Equal(t, map[string]interface{}{"id": doctorID}, patient["doctor"])
	assert.Nil(t, patient["nurse"])

	code, body = s.do(http.MethodPut, "/doctor/patients/"+patientID, otherDoctorToken, echo.Map{"diagnosis": "X"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Not allowed", body["message"])

	code, body = s.do(http.MethodPut, "/doctor/patients/"+uuid.NewString(), doctorToken, echo.Map{"name": "Q"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Patient not found", body["message"])

	code, body = s.do(http.MethodPut, "/doctor/patients/"+patientID, doctorToken, echo.Map{"diagnosis": "B"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"id": patientID, "name": "P"}, body)

	path := "/doctor/patients/" + patientID + "/assign-nurse"
	code, body = s.do(http.MethodPost, path, doctorToken, echo.Map{"nurseId": otherDoctorID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Nurse not found", body["message"])

	code, body = s.do(http.MethodPost, path, doctorToken, echo.Map{"nurseId": "garbage"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Nurse not found", body["message"])

	code, body = s.do(http.MethodPost, path, doctorToken, echo.Map{"nurseId": nurseID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"id": patientID}, body)

	code, raw := s.raw(http.MethodGet, "/nurse/patients", nurseToken, nil)
	require.Equal(t, http.StatusOK, code)
	var assigned []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &assigned))
	require.Len(t, assigned, 1)
	assert.Equal(t, "P", assigned[0]["name"])
	assert.Equal(t, "B", assigned[0]["diagnosis"])
	assert.Equal(t, map[string]interface{}{"id": nurseID}, assigned[0]["nurse"])
	assert.Equal(t, map[string]interface{}{"id": doctorID}, assigned[0]["doctor"])

	code, _ = s.do(http.MethodDelete, "/admin/users/"+nurseID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, body = s.do(http.MethodGet, "/nurse/patients", nurseToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", body["message"])

	// patient survives with its nurse cleared, then goes with its doctor
	code, _ = s.do(http.MethodPut, "/doctor/patients/"+patientID, doctorToken, echo.Map{"name": "P2"})
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(http.MethodDelete, "/admin/users/"+doctorID, adminToken, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, body = s.do(http.MethodDelete, "/admin/patients/"+patientID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Patient not found", body["message"])
}

func TestNurseWithoutPatients(t *testing.T) {
	s := newTestServer(t)
	nurseToken := s.login("nurse@example.com", "nurse@123")

	code, raw := s.raw(http.MethodGet, "/nurse/patients", nurseToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, "[]", string(raw))
}

func TestDeletePatient(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin@example.com", "admin@123")
	doctorToken := s.login("doctor@example.com", "doctor@123")

	code, patient := s.do(http.MethodPost, "/doctor/patients", doctorToken, echo.Map{"name": "P"})
	require.Equal(t, http.StatusCreated, code)
	assert.Nil(t, patient["diagnosis"])

	path := "/admin/patients/" + patient["id"].(string)
	code, _ = s.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = s.do(http.MethodDelete, path, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpdatePatientClearsDiagnosis(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.login("admin@example.com", "admin@123")
	doctorToken := s.login("doctor@example.com", "doctor@123")
	nurseToken := s.login("nurse@example.com", "nurse@123")
	nurseID := s.userID(adminToken, "nurse@example.com")

	code, patient := s.do(http.MethodPost, "/doctor/patients", doctorToken, echo.Map{"name": "P", "diagnosis": "A"})
	require.Equal(t, http.StatusCreated, code)
	patientID := patient["id"].(string)

	code, _ = s.do(http.MethodPost, "/doctor/patients/"+patientID+"/assign-nurse", doctorToken, echo.Map{"nurseId": nurseID})
	require.Equal(t, http.StatusOK, code)

	assigned := func() map[string]interface{} {
		code, raw := s.raw(http.MethodGet, "/nurse/patients", nurseToken, nil)
		require.Equal(t, http.StatusOK, code)
		var patients []map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &patients))
		require.Len(t, patients, 1)
		return patients[0]
	}

	// an absent diagnosis field leaves the stored value alone
	code, _ = s.do(http.MethodPut, "/doctor/patients/"+patientID, doctorToken, echo.Map{"name": "P2"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "A", assigned()["diagnosis"])

	code, body := s.do(http.MethodPut, "/doctor/patients/"+patientID, doctorToken, echo.Map{"diagnosis": nil})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"id": patientID, "name": "P2"}, body)

	current := assigned()
	assert.Contains(t, current, "diagnosis")
	assert.Nil(t, current["diagnosis"])
	assert.Equal(t, "P2", current["name"])
}
