package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEvent(t *testing.T) {
	api := NewEventAPI(discardLogger(), testProvider(t), "studiegroepeu@gmail.com")

	e := echo.New()
	api.Setup(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/event", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp BaseResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)

	var info EventInfo
	require.NoError(t, json.Unmarshal(raw, &info))

	assert.Equal(t, "🇪🇺 Studiegroep ❄️ Januari 2026", info.PageTitle)
	assert.Equal(t, "Donderdag 15 januari 2026", info.DateLine)
	assert.Equal(t, "Robert de Groot", info.SpeakerName)
	assert.Equal(t, "Lucca Due", info.DinnerVenue.Name)
	assert.Equal(t, "De Piramide", info.LectureVenue.Name)
	assert.True(t, info.VideoConfigured)
	assert.Equal(t,
		"mailto:studiegroepeu@gmail.com?subject=Vraag%20lezing%20januari%20-%20Robert%20de%20Groot",
		info.ContactMailto)
}
