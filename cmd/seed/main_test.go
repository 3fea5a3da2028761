package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicrbac/internal/model"
	"clinicrbac/internal/service"
)

func logLines(t *testing.T, out string) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestReportSeed_LogsPersistedUsersOnly(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	requested := []service.SeedUser{
		{Email: "admin@example.com", Password: "admin@123", Role: model.RoleAdmin},
		{Email: "doctor@example.com", Password: "doctor@123", Role: model.RoleDoctor},
	}
	// second user failed to persist
	result := &service.SeedResult{Created: []model.UserView{
		{ID: uuid.New(), Email: "admin@example.com", Role: model.RoleAdmin},
	}}

	reportSeed(log, requested, result)

	lines := logLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "created user", lines[0]["message"])
	assert.Equal(t, "admin@example.com", lines[0]["email"])
	assert.Equal(t, "admin@123", lines[0]["password"])
	assert.Equal(t, "admin", lines[0]["role"])
	assert.Equal(t, "seed completed", lines[1]["message"])
	assert.EqualValues(t, 1, lines[1]["users"])
	assert.NotContains(t, buf.String(), "doctor@example.com")
}

func TestReportSeed_Skipped(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	result := &service.SeedResult{Skipped: true, Existing: []model.UserView{
		{ID: uuid.New(), Email: "someone@example.com", Role: model.RoleNurse},
	}}

	reportSeed(log, service.DefaultSeedUsers, result)

	lines := logLines(t, buf.String())
	require.Len(t, lines, 2)
	assert.Equal(t, "users already exist, skipping seed", lines[0]["message"])
	assert.Equal(t, "someone@example.com", lines[1]["email"])
	assert.NotContains(t, lines[1], "password")
}
