// Package api exposes the engine over HTTP and WebSocket.
package api

import (
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/posline/escpos-engine/internal/builder"
	"github.com/posline/escpos-engine/internal/command"
	"github.com/posline/escpos-engine/internal/config"
	"github.com/posline/escpos-engine/internal/encoder"
	"github.com/posline/escpos-engine/internal/preview"
	"github.com/posline/escpos-engine/internal/printer"
	"github.com/posline/escpos-engine/internal/template"
	"github.com/posline/escpos-engine/pkg/receipt"
)

// Server is the HTTP and WebSocket API server.
type Server struct {
	router   *gin.Engine
	cfg      *config.Config
	manager  *printer.Manager
	pool     *printer.Pool
	queue    *printer.Queue
	executor *command.Executor
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewServer wires the API around the printer stack.
func NewServer(cfg *config.Config, manager *printer.Manager, pool *printer.Pool, queue *printer.Queue, log *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	s := &Server{
		router:   router,
		cfg:      cfg,
		manager:  manager,
		pool:     pool,
		queue:    queue,
		executor: command.NewExecutor(manager, pool, queue, log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/printers", s.handleGetPrinters)
	s.router.POST("/printer/:id/name", s.handleRenamePrinter)
	s.router.POST("/printer/network", s.handleAddNetworkPrinter)

	s.router.POST("/print", s.handlePrint)
	s.router.POST("/encode", s.handleEncode)
	s.router.POST("/preview", s.handlePreview)

	s.router.GET("/jobs", s.handleGetJobs)
	s.router.GET("/job/:id", s.handleGetJob)

	s.router.POST("/command", s.handleCommand)
	s.router.GET("/ws", s.handleWebSocket)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (s *Server) handleGetPrinters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"printers": s.manager.All()})
}

func (s *Server) handleRenamePrinter(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	if err := s.manager.Rename(c.Param("id"), req.Name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "printer not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleAddNetworkPrinter(c *gin.Context) {
	var req struct {
		Host        string `json:"host" binding:"required"`
		Port        int    `json:"port"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "host is required"})
		return
	}

	if req.Port == 0 {
		req.Port = 9100
	}

	id := s.manager.AddNetwork(req.Host, req.Port, req.Description)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"printer_id": id,
		"printer":    s.manager.Get(id),
	})
}

// renderRequest carries the content of a print, encode, or preview call.
// Exactly one content source must be present: an inline document, a
// document path or URL, or template data.
type renderRequest struct {
	Document     *receipt.Document  `json:"document"`
	DocumentPath string             `json:"document_path"`
	DocumentURL  string             `json:"document_url"`
	Data         *receipt.Data      `json:"data"`
	Variables    map[string]string  `json:"variables"`
	PaperWidth   receipt.PaperWidth `json:"paper_width"`
}

// resolve turns a render request into a content sequence, the paper
// width to encode for, and the document's chars-per-line override
// (zero when absent).
func (s *Server) resolve(req *renderRequest) ([]receipt.Item, receipt.PaperWidth, int, error) {
	paper := req.PaperWidth
	if paper == "" {
		paper = receipt.PaperWidth(s.cfg.Receipt.PaperWidth)
	}

	var doc *receipt.Document
	var err error

	switch {
	case req.DocumentURL != "":
		doc, err = loadDocument(req.DocumentURL)
	case req.DocumentPath != "":
		doc, err = loadDocument(req.DocumentPath)
	case req.Document != nil:
		doc = req.Document
	case req.Data != nil:
		currency := receipt.CurrencyFormat{
			Symbol:   s.cfg.Receipt.CurrencySymbol,
			Position: s.cfg.Receipt.CurrencyPosition,
		}
		items := builder.New(paper).WithCurrency(currency).FromData(req.Data).Items()
		return items, paper, 0, nil
	default:
		return nil, "", 0, fmt.Errorf("document, document_path, document_url, or data is required")
	}
	if err != nil {
		return nil, "", 0, err
	}

	if err := receipt.Validate(doc); err != nil {
		return nil, "", 0, fmt.Errorf("invalid document: %w", err)
	}
	if doc.PaperWidth != "" {
		paper = doc.PaperWidth
	}

	return template.Apply(doc, req.Variables), paper, doc.CharsPerLine, nil
}

// loadDocument reads a receipt document from a local path or an HTTP(S)
// URL.
func loadDocument(pathOrURL string) (*receipt.Document, error) {
	var data []byte

	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		resp, err := http.Get(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch document: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to fetch document: HTTP %d", resp.StatusCode)
		}

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read document: %w", err)
		}
	} else {
		var err error
		data, err = os.ReadFile(pathOrURL)
		if err != nil {
			return nil, fmt.Errorf("failed to read document file: %w", err)
		}
	}

	return receipt.Parse(data)
}

func (s *Server) handlePrint(c *gin.Context) {
	var req struct {
		renderRequest
		PrinterID string `json:"printer_id" binding:"required"`
		Raster    bool   `json:"raster"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, paper, chars, err := s.resolve(&req.renderRequest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var payload []byte
	if req.Raster {
		// Render to an image and ship it as raster graphics, for
		// printers with missing or broken text command support
		img, err := preview.RenderItemsWidth(items, paper, chars)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to render: %v", err)})
			return
		}
		payload = printer.Rasterize(img)
	} else {
		payload = encoder.EncodeWidth(items, paper, chars)
	}

	jobID := s.queue.Enqueue(req.PrinterID, payload)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job_id":  jobID,
	})
}

func (s *Server) handleEncode(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, paper, chars, err := s.resolve(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload := encoder.EncodeWidth(items, paper, chars)

	c.JSON(http.StatusOK, gin.H{
		"paper_width": paper,
		"size":        len(payload),
		"payload":     base64.StdEncoding.EncodeToString(payload),
	})
}

func (s *Server) handlePreview(c *gin.Context) {
	var req renderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, paper, chars, err := s.resolve(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	img, err := preview.RenderItemsWidth(items, paper, chars)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("failed to render: %v", err)})
		return
	}

	c.Header("Content-Type", "image/png")
	c.Status(http.StatusOK)
	if err := png.Encode(c.Writer, img); err != nil {
		s.log.Warn("failed to stream preview", zap.Error(err))
	}
}

func (s *Server) handleGetJobs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": s.queue.Jobs()})
}

func (s *Server) handleGetJob(c *gin.Context) {
	job := s.queue.Job(c.Param("id"))
	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

func (s *Server) handleCommand(c *gin.Context) {
	var req struct {
		Command string `json:"command" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "command is required"})
		return
	}

	result := s.executor.Execute(req.Command)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": result.Error})
		return
	}

	response := gin.H{"success": true}
	if result.Message != "" {
		response["message"] = result.Message
	}
	for k, v := range result.Data {
		response[k] = v
	}
	c.JSON(http.StatusOK, response)
}

// Run starts the API server on addr with the configured timeouts.
func (s *Server) Run(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.log.Info("api listening", zap.String("addr", addr))
	return srv.ListenAndServe()
}
