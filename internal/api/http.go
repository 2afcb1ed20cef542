package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/showmtmn-cloud/richgo/internal/affix"
	crafterr "github.com/showmtmn-cloud/richgo/internal/errors"
	"github.com/showmtmn-cloud/richgo/internal/odds"
	"github.com/showmtmn-cloud/richgo/internal/pricing"
	"github.com/showmtmn-cloud/richgo/internal/ranking"
	"github.com/showmtmn-cloud/richgo/internal/uuid"
)

// PassReader is the read side of the pass store.
type PassReader interface {
	GetPass(ctx context.Context, id string) (ranking.Pass, error)
	LatestPass(ctx context.Context, league string) (ranking.Pass, error)
	TopOpportunities(ctx context.Context, league string, limit int) ([]ranking.Opportunity, error)
	History(ctx context.Context, league string) ([]string, error)
}

// Server serves read-only views of ranked passes and affix pools.
type Server struct {
	Store PassReader
	// Catalog returns the catalog currently in use; nil disables the pool
	// endpoints.
	Catalog func() *affix.Catalog
	// Market returns the price snapshot currently in use; nil disables the
	// market endpoints.
	Market func() *pricing.Market
	// Recipes returns the number of loaded recipes.
	Recipes  func() int
	Resolver affix.Resolver
	// League is used when a request does not name one.
	League string
}

type errorResp struct {
	Error string        `json:"error"`
	Code  crafterr.Code `json:"code"`
}

type opportunitiesResp struct {
	League        string                `json:"league"`
	Count         int                   `json:"count"`
	Opportunities []ranking.Opportunity `json:"opportunities"`
}

type poolMember struct {
	Name         string        `json:"name"`
	ModType      affix.ModType `json:"mod_type"`
	Tier         int           `json:"tier"`
	MinItemLevel int           `json:"min_ilvl"`
	Weight       int           `json:"weight"`
	Probability  float64       `json:"probability"`
}

type poolResp struct {
	ItemType    string       `json:"item_type"`
	ItemLevel   int          `json:"ilvl"`
	ModType     string       `json:"mod_type,omitempty"`
	Desecrated  bool         `json:"desecrated"`
	TotalWeight int          `json:"total_weight"`
	Members     []poolMember `json:"members"`
}

type probabilityResp struct {
	ItemType    string        `json:"item_type"`
	ItemLevel   int           `json:"ilvl"`
	Affix       string        `json:"affix"`
	ModType     affix.ModType `json:"mod_type"`
	Tier        int           `json:"tier"`
	Weight      int           `json:"weight"`
	TotalWeight int           `json:"total_weight"`
	Probability float64       `json:"probability"`
	AvgAttempts float64       `json:"avg_attempts"`
}

type ratesResp struct {
	Reference string             `json:"reference"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type basePrice struct {
	Name  string        `json:"name"`
	Price pricing.Money `json:"price"`
	Value pricing.Money `json:"value"`
}

type basesResp struct {
	Currency  string      `json:"currency"`
	UpdatedAt time.Time   `json:"updated_at"`
	Bases     []basePrice `json:"bases"`
}

type catalogStats struct {
	Version   string   `json:"version"`
	Rows      int      `json:"rows"`
	ItemTypes []string `json:"item_types"`
}

type passStats struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Ranked      int       `json:"ranked"`
	Excluded    int       `json:"excluded"`
	GroupErrors int       `json:"group_errors"`
}

type statsResp struct {
	League     string        `json:"league"`
	Catalog    *catalogStats `json:"catalog,omitempty"`
	Recipes    int           `json:"recipes"`
	Bases      int           `json:"bases"`
	LatestPass *passStats    `json:"latest_pass,omitempty"`
	Passes     int           `json:"passes"`
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/opportunities", s.handleOpportunities)
	mux.HandleFunc("GET /api/passes/latest", s.handleLatestPass)
	mux.HandleFunc("GET /api/passes/{id}", s.handlePass)
	mux.HandleFunc("GET /api/passes", s.handleHistory)
	mux.HandleFunc("GET /api/pool", s.handlePool)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/probability", s.handleProbability)
	mux.HandleFunc("GET /api/exchange-rates", s.handleRates)
	mux.HandleFunc("GET /api/bases", s.handleBases)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) league(r *http.Request) string {
	if l := strings.TrimSpace(r.URL.Query().Get("league")); l != "" {
		return l
	}
	return s.League
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	limit, ok, msg := parseInt(r, "limit")
	if msg != "" || (ok && limit < 0) {
		writeError(w, crafterr.InvalidArgument("invalid limit"))
		return
	}
	league := s.league(r)
	opps, err := s.Store.TopOpportunities(r.Context(), league, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if opps == nil {
		opps = []ranking.Opportunity{}
	}
	writeJSON(w, http.StatusOK, opportunitiesResp{League: league, Count: len(opps), Opportunities: opps})
}

func (s *Server) handleLatestPass(w http.ResponseWriter, r *http.Request) {
	p, err := s.Store.LatestPass(r.Context(), s.league(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePass(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !uuid.Valid(id) {
		writeError(w, crafterr.InvalidArgumentf("invalid pass id %q", id))
		return
	}
	p, err := s.Store.GetPass(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	league := s.league(r)
	ids, err := s.Store.History(r.Context(), league)
	if err != nil {
		writeError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"league": league, "passes": ids})
}

// poolQuery reads item_type, ilvl, mod_type and desecrated.
func (s *Server) poolQuery(r *http.Request) (affix.Query, error) {
	q := affix.Query{ItemType: r.URL.Query().Get("item_type")}
	if q.ItemType == "" {
		return q, crafterr.InvalidArgument("missing param item_type")
	}
	ilvl, ok, msg := parseInt(r, "ilvl")
	if !ok || msg != "" {
		return q, crafterr.InvalidArgument("missing/invalid param ilvl")
	}
	q.ItemLevel = ilvl
	mt, err := affix.ParseModType(r.URL.Query().Get("mod_type"))
	if err != nil {
		return q, err
	}
	q.ModType = mt
	if d := r.URL.Query().Get("desecrated"); d != "" {
		b, err := strconv.ParseBool(d)
		if err != nil {
			return q, crafterr.InvalidArgument("invalid desecrated")
		}
		q.IncludeDesecrated = b
	}
	return q, nil
}

func (s *Server) resolver() affix.Resolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return affix.Direct
}

func (s *Server) catalog() (*affix.Catalog, error) {
	if s.Catalog == nil {
		return nil, crafterr.New(crafterr.CodeEmptySnapshot, "no catalog loaded")
	}
	c := s.Catalog()
	if c == nil || c.Len() == 0 {
		return nil, crafterr.New(crafterr.CodeEmptySnapshot, "no catalog loaded")
	}
	return c, nil
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	q, err := s.poolQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	c, err := s.catalog()
	if err != nil {
		writeError(w, err)
		return
	}
	pool, err := s.resolver().Resolve(c, q)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := poolResp{
		ItemType:    q.ItemType,
		ItemLevel:   q.ItemLevel,
		ModType:     string(q.ModType),
		Desecrated:  q.IncludeDesecrated,
		TotalWeight: pool.TotalWeight(),
		Members:     make([]poolMember, 0, pool.Len()),
	}
	for _, t := range pool.Members() {
		m := poolMember{Name: t.Name(), ModType: t.ModType(), Tier: t.Rank, MinItemLevel: t.MinItemLevel, Weight: t.Weight}
		if pool.TotalWeight() > 0 {
			m.Probability = float64(t.Weight) / float64(pool.TotalWeight())
		}
		resp.Members = append(resp.Members, m)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	itemType := r.URL.Query().Get("item_type")
	ilvl, ok, msg := parseInt(r, "ilvl")
	if itemType == "" || !ok || msg != "" {
		writeError(w, crafterr.InvalidArgument("missing/invalid params item_type, ilvl"))
		return
	}
	c, err := s.catalog()
	if err != nil {
		writeError(w, err)
		return
	}
	sum, err := affix.Summarize(s.resolver(), c, itemType, ilvl)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleProbability(w http.ResponseWriter, r *http.Request) {
	q, err := s.poolQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	name := r.URL.Query().Get("affix")
	if name == "" {
		writeError(w, crafterr.InvalidArgument("missing param affix"))
		return
	}
	c, err := s.catalog()
	if err != nil {
		writeError(w, err)
		return
	}
	pool, err := s.resolver().Resolve(c, q)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := odds.Single(pool, name)
	if err != nil {
		writeError(w, err)
		return
	}
	attempts, err := odds.AvgAttempts(p)
	if err != nil {
		writeError(w, err)
		return
	}
	t, _ := pool.Lookup(name)
	writeJSON(w, http.StatusOK, probabilityResp{
		ItemType:    q.ItemType,
		ItemLevel:   q.ItemLevel,
		Affix:       name,
		ModType:     t.ModType(),
		Tier:        t.Rank,
		Weight:      t.Weight,
		TotalWeight: pool.TotalWeight(),
		Probability: p,
		AvgAttempts: attempts,
	})
}

func (s *Server) market() (*pricing.Market, error) {
	if s.Market == nil {
		return nil, crafterr.New(crafterr.CodeEmptySnapshot, "no market loaded")
	}
	m := s.Market()
	if m == nil {
		return nil, crafterr.New(crafterr.CodeEmptySnapshot, "no market loaded")
	}
	return m, nil
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	m, err := s.market()
	if err != nil {
		writeError(w, err)
		return
	}
	rates := m.Rates()
	resp := ratesResp{Reference: rates.Reference(), Rates: make(map[string]float64), UpdatedAt: m.UpdatedAt()}
	for _, c := range rates.Currencies() {
		resp.Rates[c], _ = rates.Value(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleBases lists base prices, also expressed in ?currency (default the
// reference currency).
func (s *Server) handleBases(w http.ResponseWriter, r *http.Request) {
	m, err := s.market()
	if err != nil {
		writeError(w, err)
		return
	}
	rates := m.Rates()
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = rates.Reference()
	}
	if _, ok := rates.Value(currency); !ok {
		writeError(w, crafterr.InvalidArgumentf("unknown currency %q", currency))
		return
	}
	names := m.BaseNames()
	resp := basesResp{Currency: strings.ToLower(strings.TrimSpace(currency)), UpdatedAt: m.UpdatedAt(), Bases: make([]basePrice, 0, len(names))}
	for _, name := range names {
		price, _ := m.Base(name)
		v, err := rates.ConvertTo(price, currency)
		if err != nil {
			writeError(w, crafterr.Wrapf(err, "base %q", name))
			return
		}
		resp.Bases = append(resp.Bases, basePrice{Name: name, Price: price, Value: v})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := statsResp{League: s.league(r)}
	if c, err := s.catalog(); err == nil {
		resp.Catalog = &catalogStats{Version: c.Version(), Rows: c.Len(), ItemTypes: c.ItemTypes()}
	}
	if s.Recipes != nil {
		resp.Recipes = s.Recipes()
	}
	if m, err := s.market(); err == nil {
		resp.Bases = len(m.BaseNames())
	}

	p, err := s.Store.LatestPass(ctx, resp.League)
	switch {
	case err == nil:
		resp.LatestPass = &passStats{
			ID:          p.ID,
			StartedAt:   p.StartedAt,
			Ranked:      len(p.Opportunities),
			Excluded:    len(p.Excluded),
			GroupErrors: len(p.GroupErrors),
		}
	case !crafterr.IsNotFound(err):
		writeError(w, err)
		return
	}
	ids, err := s.Store.History(ctx, resp.League)
	if err != nil {
		writeError(w, err)
		return
	}
	resp.Passes = len(ids)
	writeJSON(w, http.StatusOK, resp)
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

// StatusOf maps an error code to an HTTP status.
func StatusOf(err error) int {
	switch crafterr.GetCode(err) {
	case crafterr.CodeInvalidArgument, crafterr.CodeValidation, crafterr.CodeSlotCapacity:
		return http.StatusBadRequest
	case crafterr.CodeNotFound, crafterr.CodeUnknownItemType, crafterr.CodeAffixNotInPool:
		return http.StatusNotFound
	case crafterr.CodeNoAffixAvailable, crafterr.CodeUnreachable, crafterr.CodeAffixUnreachable:
		return http.StatusUnprocessableEntity
	case crafterr.CodeEmptySnapshot, crafterr.CodeStaleSnapshot:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api] %v", err)
	}
	writeJSON(w, status, errorResp{Error: err.Error(), Code: crafterr.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
