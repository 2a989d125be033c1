package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/berrik/realmwar/internal/entropy"
	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/orchestrator"
	"github.com/berrik/realmwar/internal/persistence"
	"github.com/berrik/realmwar/internal/rules"
)

func newTestServer(t *testing.T) (*Server, []*kingdom.Kingdom) {
	t.Helper()

	db, err := persistence.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	kingdoms := []*kingdom.Kingdom{
		{
			ID:   uuid.New(),
			Name: "Ashvale",
			Race: rules.RaceHuman,
			Resources: kingdom.Resources{
				Gold: 100000, Land: 1000, Turns: 100,
			},
			Army:       rules.Army{"knight": 200},
			Structures: 250,
			QuarryPct:  50,
			ScumCount:  500,
			CreatedAt:  start,
		},
		{
			ID:   uuid.New(),
			Name: "Crowmoor",
			Race: rules.RaceDwarven,
			Resources: kingdom.Resources{
				Gold: 80000, Land: 2000, Turns: 100,
			},
			Army:       rules.Army{"soldier": 300},
			Structures: 500,
			QuarryPct:  40,
			CreatedAt:  start,
		},
	}
	require.NoError(t, db.SaveKingdoms(kingdoms))

	orch := orchestrator.New(db, entropy.NewFixed(0.5), start)
	orch.SetClock(func() time.Time { return start.Add(300 * time.Hour) })

	return &Server{Orch: orch, DB: db, AdminKey: "secret"}, kingdoms
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "middle", body["age"])
	require.EqualValues(t, 2, body["kingdoms"])
	require.EqualValues(t, 3000, body["total_land"])
}

func TestHandleKingdoms(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handleKingdoms(rec, httptest.NewRequest(http.MethodGet, "/api/v1/kingdoms", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	require.Equal(t, "Crowmoor", body[0]["name"], "largest landholder lists first")
	require.Equal(t, "80,000", body[0]["gold"], "gold renders with separators")
}

func TestHandleKingdomDetail(t *testing.T) {
	s, kingdoms := newTestServer(t)

	t.Run("known kingdom", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/kingdom/"+kingdoms[0].ID.String(), nil)
		s.handleKingdomDetail(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "Ashvale", body["name"])
		require.EqualValues(t, 20, body["brt"], "50%% quarry allocation")
		require.EqualValues(t, 1200, body["offense"], "neutral middle-age multipliers")
	})

	t.Run("unknown kingdom is a 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/kingdom/"+uuid.NewString(), nil)
		s.handleKingdomDetail(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/kingdom/not-a-uuid", nil)
		s.handleKingdomDetail(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	s, kingdoms := newTestServer(t)

	attackBody := func() *bytes.Buffer {
		b, _ := json.Marshal(map[string]any{
			"attacker":    kingdoms[0].ID,
			"defender":    kingdoms[1].ID,
			"attack_type": "full_attack",
		})
		return bytes.NewBuffer(b)
	}
	handler := s.adminOnly(s.handleAttack)

	t.Run("GET is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/attack", nil))
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("missing token is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/v1/attack", attackBody()))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong token is unauthorized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attack", attackBody())
		req.Header.Set("Authorization", "Bearer wrong")
		handler(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token resolves the attack", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attack", attackBody())
		req.Header.Set("Authorization", "Bearer secret")
		handler(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var outcome orchestrator.AttackOutcome
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
		require.True(t, outcome.Resolved)
	})

	t.Run("no admin key disables actions entirely", func(t *testing.T) {
		s.AdminKey = ""
		defer func() { s.AdminKey = "secret" }()

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/attack", attackBody())
		handler(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestHandleEvents(t *testing.T) {
	s, _ := newTestServer(t)
	require.NoError(t, s.DB.AppendEvent(orchestrator.Event{Turn: 1, Description: "a war has been declared", Category: "combat"}))

	rec := httptest.NewRecorder()
	s.handleEvents(rec, httptest.NewRequest(http.MethodGet, "/api/v1/events", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var events []orchestrator.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	require.Equal(t, "combat", events[0].Category)
}

func TestHandleBounties(t *testing.T) {
	s, kingdoms := newTestServer(t)

	t.Run("prices every rival for the hunter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/v1/bounties?hunter="+kingdoms[0].ID.String()+"&guilds_engaged=2", nil)
		s.handleBounties(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Environment rules.BountyEnvironment       `json:"environment"`
			Listings    []orchestrator.BountyListing `json:"listings"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.True(t, body.Environment.Safe)
		require.Len(t, body.Listings, 1)
		require.Equal(t, kingdoms[1].ID, body.Listings[0].TargetID)
	})

	t.Run("missing hunter is a 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleBounties(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bounties", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
