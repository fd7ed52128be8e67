// Package server publishes the birthday calendar over HTTP for calendar
// clients that subscribe to a URL.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// snapshot is one published calendar with its HTTP validators.
type snapshot struct {
	body         []byte
	etag         string
	lastModified time.Time
}

// CalendarServer serves the most recent calendar published by the session.
// Readers never block: Update swaps the whole snapshot atomically.
type CalendarServer struct {
	current atomic.Pointer[snapshot]
	metrics *feedMetrics
	Port    int
}

// NewCalendarServer builds a server listening on the loopback interface.
func NewCalendarServer(port int) *CalendarServer {
	return &CalendarServer{
		Port:    port,
		metrics: newFeedMetrics(),
	}
}

// Handler returns the routes of the feed: the calendar on the root and the metrics endpoint.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.metrics.instrument(s.serveFeed))
	mux.Handle(config.RouteMetrics, s.metrics.handler())
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port <= 0 {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + strconv.Itoa(s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	failed := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	case <-ctx.Done():
	}

	slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
	}
	return nil
}

// Update publishes a new calendar. The slice must not be modified afterwards.
func (s *CalendarServer) Update(data []byte) {
	sum := sha256.Sum256(data)
	snap := &snapshot{
		body: data,
		etag: fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:])),
		// HTTP dates carry whole seconds only.
		lastModified: time.Now().UTC().Truncate(time.Second),
	}
	s.current.Store(snap)
	s.metrics.ObservePublish(len(data))

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, snap.etag,
	)
}

func (s *CalendarServer) serveFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	snap := s.current.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified.Format(http.TimeFormat))

	if notModified(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, bytes.NewReader(snap.body)); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// notModified applies If-None-Match first and falls back to If-Modified-Since.
func notModified(r *http.Request, snap *snapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == snap.etag
	}
	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !snap.lastModified.After(t)
}
