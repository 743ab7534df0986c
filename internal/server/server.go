// Package server exposes the catalog façade as a small JSON API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jmiller/grimoire/internal/config"
	"github.com/jmiller/grimoire/internal/metadata"
	"github.com/jmiller/grimoire/internal/source"
)

// Catalog is the façade surface the server needs. *source.Catalog implements it.
type Catalog interface {
	Identify(ctx context.Context, query source.Query) (<-chan *metadata.Record, error)
	DownloadCover(ctx context.Context, site, productID string) ([]byte, error)
}

// CatalogProvider builds a catalog for one request. A fresh catalog per
// request picks up cookie changes made while the server is running.
type CatalogProvider func() Catalog

// Handler holds the HTTP handlers for the metadata API.
type Handler struct {
	newCatalog CatalogProvider
}

// NewHandler creates a Handler backed by the given catalog provider.
func NewHandler(provider CatalogProvider) *Handler {
	return &Handler{newCatalog: provider}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/identify", handler.Identify)
		api.GET("/cover/:site/:id", handler.Cover)
	}

	return router
}

// Identify handles GET /api/v1/identify?title=&author=&identifier=site:id
func (h *Handler) Identify(c *gin.Context) {
	query := source.Query{
		Title: c.Query("title"),
	}

	for _, author := range c.QueryArray("author") {
		if author != "" {
			query.Authors = append(query.Authors, author)
		}
	}

	if identifier := c.Query("identifier"); identifier != "" {
		site, id, ok := splitIdentifier(identifier)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "identifier must be site:id"})
			return
		}
		query.Identifiers = map[string]string{site: id}
	}

	if query.Title == "" && len(query.Identifiers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or identifier is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.Timeout())
	defer cancel()

	results, err := h.newCatalog().Identify(ctx, query)
	if err != nil {
		slog.Error("Identify failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	records := make([]*metadata.Record, 0)
	for record := range results {
		records = append(records, record)
	}

	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"results": records,
	})
}

// Cover handles GET /api/v1/cover/:site/:id and answers with raw image bytes.
func (h *Handler) Cover(c *gin.Context) {
	site := c.Param("site")
	id := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), config.Timeout())
	defer cancel()

	data, err := h.newCatalog().DownloadCover(ctx, site, id)
	if err != nil {
		if errors.Is(err, source.ErrCoverNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cover not found"})
			return
		}
		slog.Error("Cover download failed", "site", site, "id", id, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

// Run starts the HTTP server on addr and blocks until it exits.
func Run(addr string, provider CatalogProvider) error {
	router := NewRouter(NewHandler(provider))
	slog.Info("Listening", "addr", addr)
	return router.Run(addr)
}

func splitIdentifier(identifier string) (site, id string, ok bool) {
	parts := strings.SplitN(identifier, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
