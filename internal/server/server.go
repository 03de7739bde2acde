// Package server exposes the explorer over HTTP.
package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/nbastats-cli/internal/analysis"
	"github.com/KaramelBytes/nbastats-cli/internal/explorer"
	"github.com/KaramelBytes/nbastats-cli/internal/heatmap"
	"github.com/KaramelBytes/nbastats-cli/internal/metrics"
)

// Options configures the router.
type Options struct {
	// Registry receives the nbastats collectors and backs /metrics. Defaults to
	// the Prometheus default registry.
	Registry *prometheus.Registry
	Filename string // CSV download name
}

// Handler serves season queries.
type Handler struct {
	ex       *explorer.Explorer
	logger   *logrus.Logger
	filename string
	started  time.Time
}

// NewHandler creates a new season handler
func NewHandler(ex *explorer.Explorer, logger *logrus.Logger, filename string) *Handler {
	if filename == "" {
		filename = "playerstats.csv"
	}
	return &Handler{ex: ex, logger: logger, filename: filename, started: time.Now()}
}

// NewRouter wires routes, middleware and metrics.
func NewRouter(ex *explorer.Explorer, logger *logrus.Logger, opts Options) (*gin.Engine, error) {
	var (
		reg      prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		reg, gatherer = opts.Registry, opts.Registry
	}
	if err := metrics.Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	h := NewHandler(ex, logger, opts.Filename)
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(logger))

	router.GET("/healthz", h.Health)
	router.HEAD("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	seasons := router.Group("/api/seasons/:season")
	{
		seasons.GET("/teams", h.Teams)
		seasons.GET("/players", h.Players)
		seasons.GET("/players.csv", h.PlayersCSV)
		seasons.GET("/download", h.Download)
		seasons.GET("/correlation", h.Correlation)
		seasons.GET("/heatmap.svg", h.Heatmap)
		seasons.DELETE("/cache", h.Invalidate)
	}
	return router, nil
}

// Health returns liveness and the cached seasons.
func (h *Handler) Health(c *gin.Context) {
	lo, hi := h.ex.Loader().SeasonRange()
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"cached_seasons": h.ex.Loader().Cache().Seasons(),
		"season_range":   []int{lo, hi},
	})
}

// Teams lists the distinct team codes of a season.
func (h *Handler) Teams(c *gin.Context) {
	season, ok := seasonParam(c)
	if !ok {
		return
	}
	teams, err := h.ex.Teams(c.Request.Context(), season)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"season": season, "teams": teams})
}

type tableResponse struct {
	Season    int        `json:"season"`
	Teams     []string   `json:"teams"`
	Positions []string   `json:"positions"`
	Shape     [2]int     `json:"shape"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
}

// Players returns the filtered table as JSON.
func (h *Handler) Players(c *gin.Context) {
	q, ok := queryParams(c)
	if !ok {
		return
	}
	res, err := h.ex.Filter(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	rows, cols := res.Shape()
	out := tableResponse{
		Season:    res.Season,
		Teams:     res.Criteria.Teams,
		Positions: res.Criteria.Positions,
		Shape:     [2]int{rows, cols},
		Columns:   res.Table.Columns,
		Rows:      res.Table.Rows,
	}
	if out.Rows == nil {
		out.Rows = [][]string{}
	}
	c.JSON(http.StatusOK, out)
}

// PlayersCSV streams the filtered table as a CSV attachment with an ETag.
func (h *Handler) PlayersCSV(c *gin.Context) {
	q, ok := queryParams(c)
	if !ok {
		return
	}
	b, err := h.ex.CSV(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	etag := fmt.Sprintf("%q", strconv.FormatUint(xxhash.Sum64(b), 16))
	c.Header("ETag", etag)
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", b)
}

// Download returns the data-URI download link for the filtered table.
func (h *Handler) Download(c *gin.Context) {
	q, ok := queryParams(c)
	if !ok {
		return
	}
	b, err := h.ex.CSV(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"filename": h.filename,
		"href":     analysis.DataURI(b),
		"html":     analysis.DownloadLink(b, h.filename),
	})
}

// Correlation returns the correlation matrix of the filtered table.
func (h *Handler) Correlation(c *gin.Context) {
	q, ok := queryParams(c)
	if !ok {
		return
	}
	m, err := h.ex.Correlation(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"season": q.Season, "matrix": m})
}

// Heatmap renders the correlation matrix as SVG.
func (h *Handler) Heatmap(c *gin.Context) {
	q, ok := queryParams(c)
	if !ok {
		return
	}
	m, err := h.ex.Correlation(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	var buf bytes.Buffer
	opts := heatmap.Options{Title: fmt.Sprintf("Intercorrelation Matrix, %d", q.Season)}
	if err := heatmap.Render(&buf, m, opts); err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

// Invalidate drops the cached table of a season.
func (h *Handler) Invalidate(c *gin.Context) {
	season, ok := seasonParam(c)
	if !ok {
		return
	}
	if err := h.ex.Loader().ValidateSeason(season); err != nil {
		fail(c, err)
		return
	}
	dropped := h.ex.Loader().Cache().Invalidate(season)
	h.logger.WithFields(logrus.Fields{"season": season, "dropped": dropped, requestIDKey: c.GetString(requestIDKey)}).Info("season cache invalidated")
	c.JSON(http.StatusOK, gin.H{"season": season, "invalidated": dropped})
}

func seasonParam(c *gin.Context) (int, bool) {
	raw := c.Param("season")
	season, err := strconv.Atoi(raw)
	if err != nil {
		sendBadRequest(c, fmt.Sprintf("season %q is not a year", raw))
		return 0, false
	}
	return season, true
}

func queryParams(c *gin.Context) (explorer.Query, bool) {
	season, ok := seasonParam(c)
	if !ok {
		return explorer.Query{}, false
	}
	return explorer.Query{
		Season:    season,
		Teams:     selection(c, "team"),
		Positions: selection(c, "pos"),
	}, true
}

// selection reads a repeatable, comma-separable query parameter. An absent
// parameter yields nil ("all"); a present but blank one yields an empty set.
func selection(c *gin.Context, key string) []string {
	vals, ok := c.GetQueryArray(key)
	if !ok {
		return nil
	}
	out := []string{}
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
