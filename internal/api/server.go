package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/z-marketing/zcoin/internal/logger"
	"github.com/z-marketing/zcoin/internal/market"
	"github.com/z-marketing/zcoin/internal/prices"
	"github.com/z-marketing/zcoin/internal/widget"
)

const (
	msgMissingSlug     = "Missing slug parameter"
	msgQuoteFailed     = "Failed to fetch crypto data"
	msgListingsFailed  = "Failed to fetch coins list"
	msgRenderFailed    = "Failed to render widget"
	htmlContentType    = "text/html; charset=utf-8"
	jsonContentType    = "application/json"
	forwardedProtoHead = "X-Forwarded-Proto"
)

type PriceService interface {
	Quote(ctx context.Context, slug string) (market.Quote, error)
	Listings(ctx context.Context) ([]market.Listing, error)
}

type Server struct {
	Prices       PriceService
	PublicOrigin string
	log          *logger.Entry
}

func NewServer(svc PriceService, publicOrigin string, log *logger.Log) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Server{
		Prices:       svc,
		PublicOrigin: strings.TrimRight(publicOrigin, "/"),
		log:          log.WithComponent("api"),
	}
}

func (s *Server) Mount(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			MaxAge:         300,
		}))
		r.Get("/crypto-data", s.handleCryptoData)
		r.Get("/coins-list", s.handleCoinsList)
		r.Get("/builder/coins", s.handleBuilderCoins)
		r.Get("/builder/embed", s.handleBuilderEmbed)
	})
	r.Get("/widget/{coinId}", s.handleWidget)
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", jsonContentType)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

func (s *Server) handleCryptoData(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	quote, err := s.Prices.Quote(r.Context(), slug)
	if err != nil {
		if errors.Is(err, prices.ErrMissingSlug) {
			writeError(w, http.StatusBadRequest, msgMissingSlug)
			return
		}
		s.log.WithError(err).WithFields(logger.Fields{"slug": slug}).Error("crypto data request failed")
		writeError(w, http.StatusInternalServerError, msgQuoteFailed)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleCoinsList(w http.ResponseWriter, r *http.Request) {
	listings, err := s.Prices.Listings(r.Context())
	if err != nil {
		s.log.WithError(err).Error("coins list request failed")
		writeError(w, http.StatusInternalServerError, msgListingsFailed)
		return
	}
	writeJSON(w, http.StatusOK, listings)
}

func (s *Server) handleBuilderCoins(w http.ResponseWriter, r *http.Request) {
	listings, err := s.Prices.Listings(r.Context())
	if err != nil {
		s.log.WithError(err).Error("builder coins request failed")
		writeError(w, http.StatusInternalServerError, msgListingsFailed)
		return
	}
	writeJSON(w, http.StatusOK, widget.FilterListings(listings, r.URL.Query().Get("q")))
}

func (s *Server) handleBuilderEmbed(w http.ResponseWriter, r *http.Request) {
	req := widget.ParseEmbedRequest(r.URL.Query())
	writeJSON(w, http.StatusOK, widget.BuildEmbed(s.origin(r), req))
}

func (s *Server) handleWidget(w http.ResponseWriter, r *http.Request) {
	params := widget.ParseParams(chi.URLParam(r, "coinId"), r.URL.Query())
	stream := widget.StreamPath(params.Coin)

	view := widget.ErrorView(params, stream)
	quote, err := s.Prices.Quote(r.Context(), params.Coin)
	if err != nil {
		s.log.WithError(err).WithFields(logger.Fields{"coin": params.Coin}).Warn("widget quote unavailable")
	} else {
		view = widget.LoadedView(params, quote, stream)
	}

	var buf bytes.Buffer
	if err := widget.Render(&buf, view); err != nil {
		s.log.WithError(err).Error("widget render failed")
		http.Error(w, msgRenderFailed, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// origin prefers the configured public origin and otherwise rebuilds one
// from the request, honoring a proxy's X-Forwarded-Proto.
func (s *Server) origin(r *http.Request) string {
	if s.PublicOrigin != "" {
		return s.PublicOrigin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := strings.TrimSpace(r.Header.Get(forwardedProtoHead)); proto != "" {
		scheme = strings.ToLower(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}
