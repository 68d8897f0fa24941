package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/budgeat/backend/internal/domain"
)

// maxImageBytes bounds vision uploads
const maxImageBytes = 8 << 20

// defaultVisionQuery matches what the research loop asks of screenshots
const defaultVisionQuery = "List all products visible on this page with their names and prices."

// Researcher is the pipeline surface the handlers need
type Researcher interface {
	Run(ctx context.Context, rawText string) (*domain.ResearchReport, error)
	ResearchList(ctx context.Context, names []string) (*domain.ResearchReport, error)
	ResearchRecipes(ctx context.Context, recipes []domain.Recipe) []domain.RecipeReport
}

// VisionAnalyzer reads an image with the vision model
type VisionAnalyzer interface {
	AnalyzeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	researcher Researcher
	vision     VisionAnalyzer
	recipes    domain.RecipeSource
	logger     *zap.Logger
}

// NewHandler creates a new HTTP handler. vision and recipes may be nil when
// the corresponding features are not configured.
func NewHandler(researcher Researcher, vision VisionAnalyzer, recipes domain.RecipeSource, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		researcher: researcher,
		vision:     vision,
		recipes:    recipes,
		logger:     logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "budgeat-backend",
	})
}

type researchRequest struct {
	Text string `json:"text" binding:"required"`
}

// Research runs the full pipeline on free-form text
func (h *Handler) Research(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	report, err := h.researcher.Run(c.Request.Context(), req.Text)
	if err != nil {
		h.renderRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type researchListRequest struct {
	Ingredients []string `json:"ingredients" binding:"required"`
}

// ResearchList resolves a supplied ingredient list, skipping extraction
func (h *Handler) ResearchList(c *gin.Context) {
	var req researchListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients list is required"})
		return
	}

	report, err := h.researcher.ResearchList(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.renderRunError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type researchRecipesRequest struct {
	Recipes []domain.Recipe `json:"recipes" binding:"required"`
}

// ResearchRecipes prices structured recipes
func (h *Handler) ResearchRecipes(c *gin.Context) {
	var req researchRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipes list is required"})
		return
	}

	reports := h.researcher.ResearchRecipes(c.Request.Context(), req.Recipes)
	c.JSON(http.StatusOK, gin.H{"recipes": reports})
}

// SearchRecipes suggests recipes with ingredient lists for a query
func (h *Handler) SearchRecipes(c *gin.Context) {
	if h.recipes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe search is not configured"})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'q' is required"})
		return
	}
	number := 0
	if n, err := intQuery(c, "number"); err == nil {
		number = n
	}

	recipes, err := h.recipes.SearchRecipes(c.Request.Context(), query, number)
	if err != nil {
		h.logger.Error("recipe search failed", zap.String("query", query), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "recipe search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// AnalyzeVision reads an uploaded screenshot with the vision model
func (h *Handler) AnalyzeVision(c *gin.Context) {
	if h.vision == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "vision analysis is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}
	query := c.PostForm("query")
	if query == "" {
		query = defaultVisionQuery
	}

	result, err := h.vision.AnalyzeImage(c.Request.Context(), query, image, mimeType)
	if err != nil {
		h.logger.Error("vision analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "vision analysis failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// intQuery parses an integer query parameter
func intQuery(c *gin.Context, name string) (int, error) {
	return strconv.Atoi(c.Query(name))
}

// renderRunError maps pipeline errors to responses. Extraction failures are
// client-visible with the raw model output for diagnosis; anything else is a
// server-side failure.
func (h *Handler) renderRunError(c *gin.Context, err error) {
	var extractionErr *domain.ExtractionError
	if errors.As(err, &extractionErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "could not extract any ingredients from the input",
			"rawOutput": extractionErr.Raw,
		})
		return
	}

	h.logger.Error("research run failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "research run failed"})
}
