package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/arosaje/backend/internal/errors"
	"github.com/arosaje/backend/internal/models"
	"github.com/arosaje/backend/internal/services"
)

var validate = validator.New()

// identity is the authenticated caller as asserted by the upstream gateway.
// The core trusts these headers; token verification happens before us.
type identity struct {
	UserID uint
	Role   models.UserRole
}

// PlantCareAdviceHandler serves the advice versioning and review queue API
type PlantCareAdviceHandler struct {
	advice services.AdviceService
	review services.ReviewService
	logger *zap.Logger
}

// NewPlantCareAdviceHandler creates a new advice handler
func NewPlantCareAdviceHandler(advice services.AdviceService, review services.ReviewService, logger *zap.Logger) *PlantCareAdviceHandler {
	return &PlantCareAdviceHandler{advice: advice, review: review, logger: logger}
}

// Register mounts the advice routes on the router
func (h *PlantCareAdviceHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/plant-care-advice/stats", h.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-care-advice/to-review", h.HandleToReview).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-care-advice/reviewed", h.HandleReviewed).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-care-advice/priority/{priority}/count", h.HandlePriorityCount).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-care-advice", h.HandleCreate).Methods(http.MethodPost)
	r.HandleFunc("/api/plant-care-advice/{id:[0-9]+}", h.HandleUpdate).Methods(http.MethodPut)
	r.HandleFunc("/api/plant-care-advice/{id:[0-9]+}/validate", h.HandleValidate).Methods(http.MethodPost)
	r.HandleFunc("/api/plant-care-advice/{id:[0-9]+}", h.HandleGet).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-cares/{id:[0-9]+}/advice/history", h.HandleHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/plant-cares/{id:[0-9]+}/advice/current", h.HandleCurrent).Methods(http.MethodGet)
}

// HandleCreate creates a new botanist advice (or the next version when the
// session already has current advice).
// @Summary Create advice
// @Description Create botanist advice for a plant care session
// @Tags plant-care-advice
// @Accept json
// @Produce json
// @Param advice body models.AdviceCreate true "Advice payload"
// @Success 201 {object} models.Advice
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "Botanists only"
// @Failure 404 {string} string "Plant care not found"
// @Router /plant-care-advice [post]
func (h *PlantCareAdviceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireBotanist(w, r)
	if !ok {
		return
	}

	var req models.AdviceCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Priority == "" {
		req.Priority = models.PriorityNormal
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	advice, err := h.advice.Create(r.Context(), &req, caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(advice)
}

// HandleUpdate creates a new version of the caller's current advice.
// @Summary Update advice
// @Description Create the next version of an advice; only its author may revise it
// @Tags plant-care-advice
// @Accept json
// @Produce json
// @Param id path int true "Advice ID"
// @Param patch body models.AdvicePatch true "Fields to change"
// @Success 200 {object} models.Advice
// @Failure 404 {string} string "Not found or not the author"
// @Router /plant-care-advice/{id} [put]
func (h *PlantCareAdviceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireBotanist(w, r)
	if !ok {
		return
	}
	adviceID, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch models.AdvicePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	advice, err := h.advice.Update(r.Context(), adviceID, &patch, caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(advice)
}

// HandleValidate records a peer validation decision on the current version.
// @Summary Validate advice
// @Description Validate or reject another botanist's advice; self-validation is rejected as not found
// @Tags plant-care-advice
// @Accept json
// @Produce json
// @Param id path int true "Advice ID"
// @Param decision body models.AdviceValidation true "Validation decision"
// @Success 200 {object} models.Advice
// @Failure 400 {string} string "Invalid decision"
// @Failure 404 {string} string "Not found or own advice"
// @Router /plant-care-advice/{id}/validate [post]
func (h *PlantCareAdviceHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireBotanist(w, r)
	if !ok {
		return
	}
	adviceID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req models.AdviceValidation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	advice, err := h.advice.Validate(r.Context(), adviceID, &req, caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(advice)
}

// HandleGet returns a single advice version by id.
// @Summary Get advice
// @Tags plant-care-advice
// @Produce json
// @Param id path int true "Advice ID"
// @Success 200 {object} models.Advice
// @Failure 404 {string} string "Not found"
// @Router /plant-care-advice/{id} [get]
func (h *PlantCareAdviceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, ok := h.requireBotanist(w, r); !ok {
		return
	}
	adviceID, ok := pathID(w, r)
	if !ok {
		return
	}

	advice, err := h.advice.Get(r.Context(), adviceID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(advice)
}

// HandleToReview lists active plant care sessions without current advice.
// @Summary To-review queue
// @Tags plant-care-advice
// @Produce json
// @Param priority query string false "Accepted for compatibility; has no effect"
// @Param skip query int false "Offset"
// @Param limit query int false "Limit (1-100)"
// @Success 200 {array} models.ReviewQueueEntry
// @Router /plant-care-advice/to-review [get]
func (h *PlantCareAdviceHandler) HandleToReview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, ok := h.requireBotanist(w, r); !ok {
		return
	}

	filter := &models.ToReviewFilter{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 50),
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := models.AdvicePriority(p)
		filter.Priority = &priority
	}

	entries, err := h.review.ToReview(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(entries)
}

// HandleReviewed lists plant care sessions that carry current advice.
// @Summary Reviewed queue
// @Tags plant-care-advice
// @Produce json
// @Param validation_status query string false "Filter by validation status"
// @Param my_advice_only query bool false "Restrict to the caller's advice"
// @Param skip query int false "Offset"
// @Param limit query int false "Limit (1-100)"
// @Success 200 {array} models.ReviewQueueEntry
// @Router /plant-care-advice/reviewed [get]
func (h *PlantCareAdviceHandler) HandleReviewed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireBotanist(w, r)
	if !ok {
		return
	}

	filter := &models.ReviewedFilter{
		Skip:  queryInt(r, "skip", 0),
		Limit: queryInt(r, "limit", 50),
	}
	if r.URL.Query().Get("my_advice_only") == "true" {
		filter.BotanistID = &caller.UserID
	}
	if v := r.URL.Query().Get("validation_status"); v != "" {
		status := models.ValidationStatus(v)
		filter.Validation = &status
	}

	entries, err := h.review.Reviewed(r.Context(), filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(entries)
}

// HandleStats returns the caller's advice dashboard counters.
// @Summary Advice statistics
// @Tags plant-care-advice
// @Produce json
// @Success 200 {object} models.AdviceStats
// @Router /plant-care-advice/stats [get]
func (h *PlantCareAdviceHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireBotanist(w, r)
	if !ok {
		return
	}

	stats, err := h.review.Stats(r.Context(), &caller.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(stats)
}

// HandlePriorityCount returns the number of current advices with a priority.
// @Summary Count current advice by priority
// @Tags plant-care-advice
// @Produce json
// @Param priority path string true "Priority"
// @Success 200 {object} map[string]interface{}
// @Router /plant-care-advice/priority/{priority}/count [get]
func (h *PlantCareAdviceHandler) HandlePriorityCount(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, ok := h.requireBotanist(w, r); !ok {
		return
	}

	priority := models.AdvicePriority(mux.Vars(r)["priority"])
	count, err := h.review.CountByPriority(r.Context(), priority)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"priority": priority,
		"count":    count,
	})
}

// HandleHistory returns every advice version for a plant care session.
// @Summary Advice history
// @Tags plant-care-advice
// @Produce json
// @Param id path int true "Plant care ID"
// @Success 200 {array} models.Advice
// @Failure 403 {string} string "Not owner, caretaker or botanist"
// @Router /plant-cares/{id}/advice/history [get]
func (h *PlantCareAdviceHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	plantCareID, ok := pathID(w, r)
	if !ok {
		return
	}

	advices, err := h.advice.History(r.Context(), plantCareID, caller.UserID, caller.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(advices)
}

// HandleCurrent returns each botanist's latest advice for a session.
// @Summary Latest advice per botanist
// @Tags plant-care-advice
// @Produce json
// @Param id path int true "Plant care ID"
// @Success 200 {array} models.Advice
// @Failure 403 {string} string "Not owner, caretaker or botanist"
// @Router /plant-cares/{id}/advice/current [get]
func (h *PlantCareAdviceHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return
	}
	plantCareID, ok := pathID(w, r)
	if !ok {
		return
	}

	advices, err := h.advice.CurrentForPlantCare(r.Context(), plantCareID, caller.UserID, caller.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	json.NewEncoder(w).Encode(advices)
}

// requireIdentity extracts the gateway-asserted caller from the headers
func (h *PlantCareAdviceHandler) requireIdentity(w http.ResponseWriter, r *http.Request) (identity, bool) {
	userID, err := strconv.ParseUint(r.Header.Get("X-User-ID"), 10, 64)
	if err != nil || userID == 0 {
		http.Error(w, "Missing or invalid caller identity", http.StatusUnauthorized)
		return identity{}, false
	}
	role := models.UserRole(r.Header.Get("X-User-Role"))
	return identity{UserID: uint(userID), Role: role}, true
}

func (h *PlantCareAdviceHandler) requireBotanist(w http.ResponseWriter, r *http.Request) (identity, bool) {
	caller, ok := h.requireIdentity(w, r)
	if !ok {
		return identity{}, false
	}
	if caller.Role != models.RoleBotanist {
		http.Error(w, "Only botanists may access this resource", http.StatusForbidden)
		return identity{}, false
	}
	return caller, true
}

// writeError maps core error kinds to transport status codes. Everything
// unclassified is a retryable internal error.
func (h *PlantCareAdviceHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case apperrors.IsNotFound(err):
		http.Error(w, "Resource not found or not authorized", http.StatusNotFound)
	case apperrors.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case apperrors.IsForbidden(err):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.logger.Error("request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}
