// Package api serves game state and action resolution over HTTP.
// GET endpoints are public (read-only observation). POST endpoints
// resolve actions and require a bearer token.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/berrik/realmwar/internal/kingdom"
	"github.com/berrik/realmwar/internal/orchestrator"
	"github.com/berrik/realmwar/internal/persistence"
	"github.com/berrik/realmwar/internal/rules"
)

// Server serves the game over HTTP.
type Server struct {
	Orch     *orchestrator.Orchestrator
	DB       *persistence.DB
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	// Action endpoints are rate limited per IP; resolution is cheap
	// but write-heavy.
	actionLimiter := NewRateLimiter(60, time.Minute)

	mux := http.NewServeMux()

	// Public endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/age", s.handleAge)
	mux.HandleFunc("/api/v1/kingdoms", s.handleKingdoms)
	mux.HandleFunc("/api/v1/kingdom/", s.handleKingdomDetail)
	mux.HandleFunc("/api/v1/bounties", s.handleBounties)
	mux.HandleFunc("/api/v1/events", s.handleEvents)

	// Action endpoints (POST, bearer token).
	mux.HandleFunc("/api/v1/attack", s.adminOnly(RateLimitMiddleware(actionLimiter, s.handleAttack)))
	mux.HandleFunc("/api/v1/espionage", s.adminOnly(RateLimitMiddleware(actionLimiter, s.handleEspionage)))
	mux.HandleFunc("/api/v1/build", s.adminOnly(s.handleBuild))
	mux.HandleFunc("/api/v1/summon", s.adminOnly(s.handleSummon))
	mux.HandleFunc("/api/v1/focus", s.adminOnly(s.handleFocus))
	mux.HandleFunc("/api/v1/alignment", s.adminOnly(s.handleAlignment))
	mux.HandleFunc("/api/v1/war", s.adminOnly(s.handleWar))
	mux.HandleFunc("/api/v1/ambush", s.adminOnly(s.handleAmbush))
	mux.HandleFunc("/api/v1/bounty/claim", s.adminOnly(RateLimitMiddleware(actionLimiter, s.handleBountyClaim)))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// REALMWAR_CORS_ORIGINS to a comma-separated allowlist; localhost dev
// servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("REALMWAR_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true when the request carries the admin
// bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly requires bearer token auth on POST requests.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if s.AdminKey == "" {
			http.Error(w, "action endpoints disabled (no admin key set)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	kingdoms, err := s.DB.Kingdoms()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var totalLand, totalGold int64
	for _, k := range kingdoms {
		totalLand += k.Resources.Land
		totalGold += k.Resources.Gold
	}

	age := s.Orch.Age()
	writeJSON(w, map[string]any{
		"name":       "Realmwar",
		"turn":       s.Orch.Turn(),
		"age":        age.CurrentAge.String(),
		"kingdoms":   len(kingdoms),
		"total_land": totalLand,
		"total_gold": humanize.Comma(totalGold),
	})
}

func (s *Server) handleAge(w http.ResponseWriter, r *http.Request) {
	age := s.Orch.Age()
	warning := rules.GetAgeTransitionWarning(age)
	writeJSON(w, map[string]any{
		"current_age":    age.CurrentAge.String(),
		"age_start":      age.AgeStartTime,
		"age_end":        age.AgeEndTime,
		"remaining":      age.RemainingTime.String(),
		"warning":        warning.Level.String(),
		"next_age":       warning.NextAge.String(),
		"final_age":      warning.FinalAge,
		"effects":        rules.CalculateAgeEffects(age.CurrentAge),
	})
}

func (s *Server) handleKingdoms(w http.ResponseWriter, r *http.Request) {
	kingdoms, err := s.DB.Kingdoms()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type kingdomSummary struct {
		ID       uuid.UUID `json:"id"`
		Name     string    `json:"name"`
		Race     string    `json:"race"`
		Land     int64     `json:"land"`
		Gold     string    `json:"gold"`
		Networth int64     `json:"networth"`
		Turns    int64     `json:"turns"`
	}

	result := make([]kingdomSummary, 0, len(kingdoms))
	for _, k := range kingdoms {
		result = append(result, kingdomSummary{
			ID:       k.ID,
			Name:     k.Name,
			Race:     k.Race.String(),
			Land:     k.Resources.Land,
			Gold:     humanize.Comma(k.Resources.Gold),
			Networth: k.Networth(),
			Turns:    k.Resources.Turns,
		})
	}
	writeJSON(w, result)
}

func (s *Server) handleKingdomDetail(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/kingdom/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid kingdom id", http.StatusBadRequest)
		return
	}

	k, err := s.DB.Kingdom(id)
	if err != nil {
		status := http.StatusInternalServerError
		if err == persistence.ErrNotFound {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, s.kingdomDetail(k))
}

func (s *Server) kingdomDetail(k *kingdom.Kingdom) map[string]any {
	age := s.Orch.Age()
	effects := rules.CalculateAgeEffects(age.CurrentAge)
	racial := rules.CalculateRacialModifiers(k.Race, age.CurrentAge)

	return map[string]any{
		"id":           k.ID,
		"name":         k.Name,
		"race":         k.Race.String(),
		"resources":    k.Resources,
		"army":         k.Army,
		"forts":        k.Forts,
		"structures":   k.Structures,
		"quarry_pct":   k.QuarryPct,
		"brt":          rules.CalculateBRT(k.QuarryPct),
		"scum":         k.ScumCount,
		"scum_tier":    k.ScumTier.String(),
		"alignment":    k.Faith.Alignment.String(),
		"faith_level":  k.Faith.Level(),
		"faith_bonus":  rules.GetFaithBonuses(k.Faith.Alignment, k.Faith.Level()),
		"focus":        k.Focus,
		"networth":     k.Networth(),
		"offense":      k.OffensePower(effects, racial),
		"defense":      k.DefensePower(effects),
		"ambush":       k.AmbushActive,
	}
}

func (s *Server) handleBounties(w http.ResponseWriter, r *http.Request) {
	hunterID, err := uuid.Parse(r.URL.Query().Get("hunter"))
	if err != nil {
		http.Error(w, "hunter query parameter must be a kingdom id", http.StatusBadRequest)
		return
	}
	guilds := 0
	fmt.Sscanf(r.URL.Query().Get("guilds_engaged"), "%d", &guilds)

	listings, env, err := s.Orch.BountyBoard(hunterID, guilds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{
		"environment": env,
		"listings":    listings,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.DB.RecentEvents(50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, events)
}

// decodeBody parses a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attacker   uuid.UUID `json:"attacker"`
		Defender   uuid.UUID `json:"defender"`
		AttackType string    `json:"attack_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.ResolveAttack(req.Attacker, req.Defender, rules.ParseAttackType(req.AttackType))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleEspionage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attacker  uuid.UUID `json:"attacker"`
		Defender  uuid.UUID `json:"defender"`
		Operation string    `json:"operation"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.ResolveEspionage(req.Attacker, req.Defender, rules.ParseOperation(req.Operation))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kingdom uuid.UUID `json:"kingdom"`
		Count   int64     `json:"count"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.Build(req.Kingdom, req.Count)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleSummon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kingdom        uuid.UUID `json:"kingdom"`
		CashMultiplier float64   `json:"cash_multiplier"`
		GuildhallBonus int64     `json:"guildhall_bonus"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.SummonTroops(req.Kingdom, req.CashMultiplier, req.GuildhallBonus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kingdom uuid.UUID `json:"kingdom"`
		Ability string    `json:"ability"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.UseFocusAbility(req.Kingdom, rules.ParseAbilityType(req.Ability))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleAlignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kingdom   uuid.UUID `json:"kingdom"`
		Alignment string    `json:"alignment"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.ChooseAlignment(req.Kingdom, rules.ParseAlignment(req.Alignment))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleWar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Attacker uuid.UUID `json:"attacker"`
		Target   uuid.UUID `json:"target"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.Orch.DeclareWar(req.Attacker, req.Target); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"declared": true})
}

func (s *Server) handleAmbush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kingdom uuid.UUID `json:"kingdom"`
		Active  bool      `json:"active"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.Orch.SetAmbush(req.Kingdom, req.Active); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"ambush": req.Active})
}

func (s *Server) handleBountyClaim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hunter        uuid.UUID `json:"hunter"`
		Target        uuid.UUID `json:"target"`
		GuildsEngaged int       `json:"guilds_engaged"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	outcome, err := s.Orch.ClaimBounty(req.Hunter, req.Target, req.GuildsEngaged)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, outcome)
}
