package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/agenthands/mathgraph/internal/config"
	"github.com/agenthands/mathgraph/internal/core"
	"github.com/agenthands/mathgraph/internal/driver"
	"github.com/agenthands/mathgraph/internal/llm"
	"github.com/agenthands/mathgraph/internal/logger"
	"github.com/agenthands/mathgraph/internal/ocr"
)

type Server struct {
	Analyzer *core.Analyzer
	OCR      ocr.TextExtractor
	Log      *logger.Logger
	CORS     []string
}

func NewServer(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	d, err := driver.NewMemgraphDriver(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, log)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	analyzer := core.NewAnalyzer(d, llmClient, cfg, log)
	if err := analyzer.BuildIndices(ctx); err != nil {
		log.Warn("failed to build indices", "error", err)
	}

	var textExtractor ocr.TextExtractor
	if cfg.OCR.APIKey != "" {
		textExtractor, err = ocr.NewExtractor(ctx, cfg.OCR, cfg.Prompts.OCR)
		if err != nil {
			return nil, err
		}
	} else {
		log.Warn("no OCR api key configured, image uploads disabled")
	}

	return &Server{
		Analyzer: analyzer,
		OCR:      textExtractor,
		Log:      log,
		CORS:     cfg.Server.CORSOrigins,
	}, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.CORS) > 0 {
		corsCfg.AllowOrigins = s.CORS
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:8501"}
	}
	corsCfg.AllowCredentials = true
	r.Use(cors.New(corsCfg))

	api := r.Group("/api/v1")
	api.POST("/questions", s.AnalyzeQuestion)

	kg := api.Group("/knowledge-graph")
	kg.GET("/concepts", s.GetConcepts)
	kg.GET("/questions", s.GetQuestions)
	kg.GET("/concepts/:name/related", s.GetRelatedConcepts)
	kg.GET("/concepts/:name/prerequisites", s.GetConceptPrerequisites)
	kg.GET("/concepts/:name/alternatives", s.GetConceptAlternatives)
	kg.GET("/concepts/:name/difficulty", s.GetConceptDifficulty)
	kg.GET("/domains/:domain/concepts", s.GetDomainConcepts)

	return r
}

type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeQuestion accepts either a JSON body with the question text or a
// multipart form with a "text" field or an "image" file (OCR-extracted).
func (s *Server) AnalyzeQuestion(c *gin.Context) {
	text, ok := s.questionText(c)
	if !ok {
		return
	}

	result, err := s.Analyzer.Analyze(c.Request.Context(), text)
	if err != nil {
		if errors.Is(err, core.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.Log.Error("failed to analyze question", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) questionText(c *gin.Context) (string, bool) {
	contentType := c.ContentType()

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if text := c.PostForm("text"); strings.TrimSpace(text) != "" {
			return text, true
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "either text or image must be provided"})
			return "", false
		}
		if s.OCR == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image uploads are not enabled"})
			return "", false
		}

		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return "", false
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return "", false
		}

		text, err := s.OCR.ExtractText(c.Request.Context(), data, imageFormat(file.Header.Get("Content-Type")))
		if err != nil {
			s.Log.Error("ocr extraction failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to extract text from image"})
			return "", false
		}
		return text, true
	}

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either text or image must be provided"})
		return "", false
	}
	return req.Text, true
}

func imageFormat(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return strings.TrimPrefix(contentType, "image/")
	}
	return "png"
}

func (s *Server) GetConcepts(c *gin.Context) {
	concepts, err := s.Analyzer.AllConcepts(c.Request.Context())
	if err != nil {
		s.Log.Error("failed to get concepts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get concepts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"concepts": concepts})
}

func (s *Server) GetQuestions(c *gin.Context) {
	questions, err := s.Analyzer.AllQuestions(c.Request.Context())
	if err != nil {
		s.Log.Error("failed to get questions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get questions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) GetRelatedConcepts(c *gin.Context) {
	related, err := s.Analyzer.RelatedConcepts(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.Log.Error("failed to get related concepts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get related concepts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"related": related})
}

func (s *Server) GetConceptPrerequisites(c *gin.Context) {
	prereqs, err := s.Analyzer.ConceptPrerequisites(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.Log.Error("failed to get prerequisites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get prerequisites"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prerequisites": prereqs})
}

func (s *Server) GetConceptAlternatives(c *gin.Context) {
	alternatives, err := s.Analyzer.ConceptAlternatives(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.Log.Error("failed to get alternatives", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get alternatives"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"alternatives": alternatives})
}

func (s *Server) GetConceptDifficulty(c *gin.Context) {
	difficulty, err := s.Analyzer.ConceptDifficulty(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.Log.Error("failed to get concept difficulty", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get concept difficulty"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"difficulty": difficulty})
}

func (s *Server) GetDomainConcepts(c *gin.Context) {
	concepts, err := s.Analyzer.DomainConcepts(c.Request.Context(), c.Param("domain"))
	if err != nil {
		s.Log.Error("failed to get domain concepts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get domain concepts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"concepts": concepts})
}
