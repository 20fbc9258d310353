// Package randd implements the randkit daemon: one shared seeded generator
// exposed over a small HTTP API, with counters and seed retrieval available
// both over HTTP and over the management socket. The daemon exists so that
// several local consumers can draw from a single reproducible stream; the
// seed shown by /v1/seed replays everything the daemon ever served.
package randd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"randkit-go/pkg/bitrand"
	"randkit-go/pkg/buffers"
	"randkit-go/pkg/management"
	"randkit-go/pkg/quality"
	"randkit-go/pkg/sample"
)

// maxWordsPerRequest caps /v1/words so one request cannot hold the
// generator lock for an unbounded stretch.
const maxWordsPerRequest = 1 << 16

// defaultQualityBytes is the sample size /v1/quality analyzes when the
// caller does not pick one.
const defaultQualityBytes = 1 << 20

// Server serves one generator over HTTP.
type Server struct {
	cfg       *Config
	gen       bitrand.Repeatable
	api       *echo.Echo
	startTime time.Time

	stats serviceCounters
}

// NewServer wires the API routes around cfg and gen. The generator is
// shared by all requests; its own locking keeps the stream gap-free.
func NewServer(cfg *Config, gen bitrand.Repeatable) *Server {
	api := echo.New()
	api.HideBanner = true
	api.HidePort = true

	s := &Server{
		cfg:       cfg,
		gen:       gen,
		api:       api,
		startTime: time.Now(),
	}
	api.GET("/v1/status", s.handleStatus)
	api.GET("/v1/seed", s.handleSeed)
	api.GET("/v1/words", s.handleWords)
	api.GET("/v1/bytes", s.handleBytes)
	api.GET("/v1/quality", s.handleQuality)
	return s
}

// Run starts the HTTP listener and blocks until Shutdown is called.
func (s *Server) Run() error {
	if err := s.api.Start(s.cfg.APIListenAddr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.api.Shutdown(ctx)
}

func (s *Server) maxBytes() int {
	if s.cfg.MaxRequestBytes > 0 {
		return s.cfg.MaxRequestBytes
	}
	return DefaultConfig().MaxRequestBytes
}

type statusResponse struct {
	Generator   string `json:"generator"`
	SeedSize    int    `json:"seed_size"`
	Uptime      string `json:"uptime"`
	Requests    uint64 `json:"requests"`
	WordsServed uint64 `json:"words_served"`
	BytesServed uint64 `json:"bytes_served"`
}

func (s *Server) handleStatus(c echo.Context) error {
	s.stats.Requests.Add(1)
	st := s.GetStats()
	return c.JSON(http.StatusOK, statusResponse{
		Generator:   s.cfg.Generator,
		SeedSize:    len(s.gen.Seed()),
		Uptime:      time.Since(s.startTime).Round(time.Second).String(),
		Requests:    st.Requests,
		WordsServed: st.WordsServed,
		BytesServed: st.BytesServed,
	})
}

type seedResponse struct {
	Generator string `json:"generator"`
	Seed      string `json:"seed"`
}

// handleSeed is the pull-based seed exposure: nothing in the daemon logs
// the seed unasked, but any caller can fetch it here to reproduce a run.
func (s *Server) handleSeed(c echo.Context) error {
	s.stats.Requests.Add(1)
	return c.JSON(http.StatusOK, seedResponse{
		Generator: s.cfg.Generator,
		Seed:      hex.EncodeToString(s.gen.Seed()),
	})
}

type wordsResponse struct {
	Bits  uint     `json:"bits"`
	Words []uint32 `json:"words"`
}

func (s *Server) handleWords(c echo.Context) error {
	s.stats.Requests.Add(1)

	bits := uint(32)
	if raw := c.QueryParam("bits"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 32 {
			return echo.NewHTTPError(http.StatusBadRequest, "bits must be an integer in [1,32]")
		}
		bits = uint(n)
	}
	count := 1
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxWordsPerRequest {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("count must be an integer in [1,%d]", maxWordsPerRequest))
		}
		count = n
	}

	words := make([]uint32, count)
	for i := range words {
		words[i] = s.gen.NextBits(bits)
	}
	s.stats.WordsServed.Add(uint64(count))
	return c.JSON(http.StatusOK, wordsResponse{Bits: bits, Words: words})
}

// handleBytes streams raw keystream. Output is chunked through the shared
// buffer pool so large requests do not hold one allocation per request.
func (s *Server) handleBytes(c echo.Context) error {
	s.stats.Requests.Add(1)

	n, err := strconv.Atoi(c.QueryParam("n"))
	if err != nil || n < 1 || n > s.maxBytes() {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("n must be an integer in [1,%d]", s.maxBytes()))
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, echo.MIMEOctetStream)
	resp.Header().Set(echo.HeaderContentLength, strconv.Itoa(n))
	resp.WriteHeader(http.StatusOK)

	buf := buffers.StreamBufferPool.Get()
	defer buffers.StreamBufferPool.Put(buf)

	for remaining := n; remaining > 0; {
		chunk := buf
		if remaining < len(chunk) {
			chunk = chunk[:remaining]
		}
		sample.Fill(s.gen, chunk)
		if _, err := resp.Write(chunk); err != nil {
			return fmt.Errorf("randd: stream bytes: %w", err)
		}
		s.stats.BytesServed.Add(uint64(len(chunk)))
		remaining -= len(chunk)
	}
	return nil
}

func (s *Server) handleQuality(c echo.Context) error {
	s.stats.Requests.Add(1)

	n := defaultQualityBytes
	if raw := c.QueryParam("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > s.maxBytes() {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("n must be an integer in [1,%d]", s.maxBytes()))
		}
		n = v
	}

	data := sample.Bytes(s.gen, n)
	s.stats.BytesServed.Add(uint64(n))
	return c.JSON(http.StatusOK, quality.Analyze(data))
}

// RegisterManagement adds the daemon's own commands to a management server,
// next to the built-in status/ping/logs/help set.
func (s *Server) RegisterManagement(m *management.Server) {
	m.RegisterHandler("seed", "Show the generator seed as hex", func(args []string) (string, error) {
		return fmt.Sprintf("OK: %s %s", s.cfg.Generator, hex.EncodeToString(s.gen.Seed())), nil
	})
	m.RegisterHandler("stats", "Show service counters", func(args []string) (string, error) {
		st := s.GetStats()
		return fmt.Sprintf("OK: requests=%d words=%d bytes=%d uptime=%s",
			st.Requests, st.WordsServed, st.BytesServed,
			time.Since(s.startTime).Round(time.Second)), nil
	})
}
