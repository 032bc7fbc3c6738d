package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/z-marketing/zcoin/internal/logger"
	"github.com/z-marketing/zcoin/internal/market"
	"github.com/z-marketing/zcoin/internal/prices"
	"github.com/z-marketing/zcoin/internal/telemetry"
	"github.com/z-marketing/zcoin/internal/widget"
)

const writeTimeout = 5 * time.Second

type QuoteSource interface {
	Quote(ctx context.Context, slug string) (market.Quote, error)
}

type serverMessage struct {
	Type    string       `json:"type"`
	Data    *widget.Card `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Server pushes a formatted quote card to each widget stream once per interval.
type Server struct {
	Hub      *Hub
	quotes   QuoteSource
	interval time.Duration
	log      *logger.Entry
}

func NewServer(hub *Hub, quotes QuoteSource, interval time.Duration, log *logger.Log) *Server {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Server{
		Hub:      hub,
		quotes:   quotes,
		interval: interval,
		log:      log.WithComponent("ws"),
	}
}

// Handler serves /widget/{coinId}/stream.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		coin := strings.TrimSpace(chi.URLParam(r, "coinId"))
		if coin == "" {
			http.Error(w, "missing coin", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			s.log.WithError(err).Warn("websocket accept failed")
			return
		}
		defer conn.Close(websocket.StatusInternalError, "server error")

		session := Session{ID: uuid.NewString(), Coin: coin, OpenedAt: time.Now().UTC()}
		if err := s.Hub.Add(session); err != nil {
			conn.Close(websocket.StatusInternalError, "session init failed")
			return
		}
		telemetry.WSConnectionOpened()
		defer func() {
			s.Hub.Remove(session.ID)
			telemetry.WSConnectionClosed()
		}()

		entry := s.log.WithFields(logger.Fields{"session_id": session.ID, "coin": coin})
		entry.Debug("stream opened")

		// Client messages are ignored; ctx ends when the peer goes away.
		ctx := conn.CloseRead(r.Context())

		scheduler := prices.NewScheduler(s.interval, func(ctx context.Context) error {
			return s.push(ctx, conn, coin)
		}).OnError(func(err error) {
			entry.WithError(err).Warn("stream tick failed")
		})
		scheduler.Start(ctx)

		<-ctx.Done()
		scheduler.Stop()
		entry.Debug("stream closed")

		conn.Close(websocket.StatusNormalClosure, "bye")
	}
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn, coin string) error {
	msg := serverMessage{Type: "quote"}
	q, fetchErr := s.quotes.Quote(ctx, coin)
	if fetchErr != nil {
		msg = serverMessage{Type: "error", Message: widget.ErrorMessage}
	} else {
		card := widget.NewCard(q)
		msg.Data = &card
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(writeCtx, conn, msg); err != nil {
		return err
	}
	return fetchErr
}
