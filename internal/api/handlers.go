package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/civicgrid/triage/internal/database"
	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/duplicate"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/routing"
	"github.com/civicgrid/triage/internal/telemetry"
	"github.com/civicgrid/triage/internal/triage"
)

// complaintIDPrefix marks complaint identifiers minted by this service.
const complaintIDPrefix = "CMP_"

// ComplaintStore persists complaint records. Optional; intake degrades to
// persisted=false when absent.
type ComplaintStore interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListOpenCandidates(ctx context.Context, category domain.Category, cutoff time.Time) ([]domain.DuplicateCandidate, error)
	UpdateStatus(ctx context.Context, id string, next domain.ComplaintStatus) error
}

// OfficerRoster supplies the assignment roster. Optional; routing degrades
// to the sentinel officer when absent.
type OfficerRoster interface {
	ListOfficers(ctx context.Context) ([]domain.Officer, error)
}

// ComplaintIndexer mirrors complaints into the search index. Optional and
// best effort.
type ComplaintIndexer interface {
	IndexComplaint(ctx context.Context, c *domain.Complaint) error
}

// Handler handles HTTP requests for the triage API
type Handler struct {
	engine    *triage.Engine
	batch     *triage.BatchProcessor
	detector  *duplicate.Detector
	router    *routing.Engine
	store     ComplaintStore
	roster    OfficerRoster
	indexer   ComplaintIndexer
	telemetry *telemetry.Provider
	logger    logging.Logger
	version   string
}

// NewHandler creates a new API handler. store, roster, and indexer may be
// nil when the corresponding backend is disabled.
func NewHandler(
	engine *triage.Engine,
	batch *triage.BatchProcessor,
	detector *duplicate.Detector,
	router *routing.Engine,
	store ComplaintStore,
	roster OfficerRoster,
	indexer ComplaintIndexer,
	tel *telemetry.Provider,
	logger logging.Logger,
	version string,
) *Handler {
	return &Handler{
		engine:    engine,
		batch:     batch,
		detector:  detector,
		router:    router,
		store:     store,
		roster:    roster,
		indexer:   indexer,
		telemetry: tel,
		logger:    logger,
		version:   version,
	}
}

// Triage handles POST /api/v1/triage
func (h *Handler) Triage(c *gin.Context) {
	var req TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid triage request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" && req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or description is required"})
		return
	}

	start := time.Now()
	result := h.engine.Triage(c.Request.Context(), domain.ComplaintText{
		Title:        req.Title,
		Description:  req.Description,
		LanguageHint: req.Language,
	}, req.LanguageMode)
	h.telemetry.RecordTriage(c.Request.Context(), result, time.Since(start))

	c.JSON(http.StatusOK, TriageResponse{Result: result})
}

// TriageBatch handles POST /api/v1/triage/batch
func (h *Handler) TriageBatch(c *gin.Context) {
	var req BatchTriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch triage request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.telemetry.RecordBatchSize(len(req.Items))
	results := h.batch.Process(c.Request.Context(), req.Items)

	c.JSON(http.StatusOK, BatchTriageResponse{
		Results: results,
		Total:   len(results),
	})
}

// Duplicates handles POST /api/v1/duplicates
func (h *Handler) Duplicates(c *gin.Context) {
	var req DuplicateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid duplicate request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	report := h.detector.FindDuplicates(req.Complaint, req.Candidates, req.LocationGate())
	h.telemetry.RecordDuplicateScan(c.Request.Context(), report.IsDuplicate, time.Since(start))

	c.JSON(http.StatusOK, report)
}

// Route handles POST /api/v1/route
func (h *Handler) Route(c *gin.Context) {
	var req RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid route request", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	officers := req.Officers
	if officers == nil && h.roster != nil {
		loaded, err := h.roster.ListOfficers(c.Request.Context())
		if err != nil {
			h.logger.Error("failed to load officer roster", logging.Error(err))
		} else {
			officers = loaded
		}
	}

	decision := h.router.Route(req.Triage, officers)
	h.telemetry.RecordRouting(c.Request.Context(), decision)

	c.JSON(http.StatusOK, decision)
}

// CreateComplaint handles POST /api/v1/complaints. It runs the full intake
// flow: triage, duplicate scan, routing, persistence, and search indexing.
// Triage and routing always succeed; downstream failures degrade to
// persisted=false rather than rejecting the citizen's submission.
func (h *Handler) CreateComplaint(c *gin.Context) {
	var req CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid complaint submission", logging.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" && req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title or description is required"})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()

	result := h.engine.Triage(ctx, domain.ComplaintText{
		Title:       req.Title,
		Description: req.Description,
	}, req.LanguageMode)
	h.telemetry.RecordTriage(ctx, result, time.Since(start))

	report := h.scanForDuplicates(ctx, req, result.Category)
	decision := h.routeComplaint(ctx, result)

	now := time.Now().UTC()
	complaint := &domain.Complaint{
		ID:          complaintIDPrefix + ulid.Make().String(),
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.StatusTriaged,
		Location:    req.Location,
		Triage:      &result,
		Routing:     &decision,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted := h.persistComplaint(ctx, complaint)

	h.logger.Info("complaint intake complete",
		logging.String("complaint_id", complaint.ID),
		logging.String("category", string(result.Category)),
		logging.String("urgency", string(result.UrgencyLevel)),
		logging.String("department", decision.DepartmentID),
		logging.Bool("is_duplicate", report.IsDuplicate),
		logging.Bool("persisted", persisted))

	c.JSON(http.StatusCreated, CreateComplaintResponse{
		Complaint: complaint,
		Duplicate: report,
		Persisted: persisted,
	})
}

// scanForDuplicates loads the open candidate window from the store and runs
// the detector. No store or a failed query means an empty report.
func (h *Handler) scanForDuplicates(ctx context.Context, req CreateComplaintRequest, category domain.Category) domain.DuplicateReport {
	report := domain.DuplicateReport{SimilarComplaints: []domain.SimilarComplaint{}}
	if h.store == nil {
		return report
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -duplicate.WindowDays)
	candidates, err := h.store.ListOpenCandidates(ctx, category, cutoff)
	if err != nil {
		h.logger.Error("failed to load duplicate candidates", logging.Error(err))
		h.telemetry.RecordPersistFailure(ctx, "postgres")
		return report
	}

	start := time.Now()
	report = h.detector.FindDuplicates(duplicate.NewComplaint{
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Location:    req.Location,
	}, candidates, req.Location.HasCoordinates() || req.Location.Address != "")
	h.telemetry.RecordDuplicateScan(ctx, report.IsDuplicate, time.Since(start))
	return report
}

func (h *Handler) routeComplaint(ctx context.Context, result domain.TriageResult) domain.RoutingDecision {
	var officers []domain.Officer
	if h.roster != nil {
		loaded, err := h.roster.ListOfficers(ctx)
		if err != nil {
			h.logger.Error("failed to load officer roster", logging.Error(err))
		} else {
			officers = loaded
		}
	}

	decision := h.router.Route(result, officers)
	h.telemetry.RecordRouting(ctx, decision)
	return decision
}

// persistComplaint writes the record to Postgres and mirrors it into the
// search index. Either failure leaves the triage response intact.
func (h *Handler) persistComplaint(ctx context.Context, complaint *domain.Complaint) bool {
	if h.store == nil {
		return false
	}

	if err := h.store.Create(ctx, complaint); err != nil {
		h.logger.Error("failed to persist complaint",
			logging.String("complaint_id", complaint.ID),
			logging.Error(err))
		h.telemetry.RecordPersistFailure(ctx, "postgres")
		return false
	}

	if h.indexer != nil {
		if err := h.indexer.IndexComplaint(ctx, complaint); err != nil {
			h.logger.Error("failed to index complaint",
				logging.String("complaint_id", complaint.ID),
				logging.Error(err))
			h.telemetry.RecordPersistFailure(ctx, "elasticsearch")
		}
	}
	return true
}

// GetComplaint handles GET /api/v1/complaints/:id
func (h *Handler) GetComplaint(c *gin.Context) {
	id := c.Param("id")
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "complaint storage is disabled"})
		return
	}

	complaint, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrComplaintNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}
		h.logger.Error("failed to get complaint", logging.String("complaint_id", id), logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get complaint"})
		return
	}

	c.JSON(http.StatusOK, complaint)
}

// UpdateComplaintStatus handles PUT /api/v1/complaints/:id/status
func (h *Handler) UpdateComplaintStatus(c *gin.Context) {
	id := c.Param("id")
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "complaint storage is disabled"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.store.UpdateStatus(c.Request.Context(), id, req.Status)
	switch {
	case errors.Is(err, database.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
	case errors.Is(err, database.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("failed to update status", logging.String("complaint_id", id), logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
	default:
		h.logger.Info("complaint status updated",
			logging.String("complaint_id", id),
			logging.String("status", string(req.Status)))
		c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
	}
}

// ListDepartments handles GET /api/v1/departments
func (h *Handler) ListDepartments(c *gin.Context) {
	c.JSON(http.StatusOK, DepartmentsResponse{
		Departments: domain.Departments,
		Total:       len(domain.Departments),
	})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "triage",
		"version": h.version,
	})
}

// ReadyCheck handles GET /ready. The pipeline itself has no external
// dependencies, so readiness only reports which optional backends are wired.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"checks": gin.H{
			"postgresql":    backendState(h.store != nil),
			"elasticsearch": backendState(h.indexer != nil),
		},
	})
}

func backendState(enabled bool) string {
	if enabled {
		return "ok"
	}
	return "disabled"
}
