package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/listings/internal/domain"
	"github.com/persistorai/listings/internal/httputil"
	"github.com/persistorai/listings/internal/models"
)

// PropertyHandler serves property CRUD and change log endpoints.
type PropertyHandler struct {
	svc domain.PropertyService
	log *logrus.Logger
}

// NewPropertyHandler creates a PropertyHandler with the given service and logger.
func NewPropertyHandler(svc domain.PropertyService, log *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{svc: svc, log: log}
}

// createResponse is returned by POST /properties.
type createResponse struct {
	Message    string `json:"message"`
	PropertyID int64  `json:"property_id"`
}

// List handles GET /api/v1/properties. skip is accepted as an alias of offset.
func (h *PropertyHandler) List(c *gin.Context) {
	rawOffset := c.Query("offset")
	if rawOffset == "" {
		rawOffset = c.Query("skip")
	}

	offset, err := parseQueryInt("offset", rawOffset, 0)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	limit, err := parseQueryInt("limit", c.Query("limit"), defaultListLimit)
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	props, err := h.svc.ListProperties(c.Request.Context(), offset, limit)
	if err != nil {
		if errors.Is(err, models.ErrInvalidPagination) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

			return
		}

		h.respondInternal(c, err, "listing properties")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "property.list", "offset": offset, "limit": limit, "count": len(props)}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"properties": props})
}

// Get handles GET /api/v1/properties/:id.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	p, err := h.svc.GetProperty(c.Request.Context(), id)
	if err != nil {
		if models.IsNotFound(err) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "property not found")

			return
		}

		h.respondInternal(c, err, "getting property")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "property.get", "property_id": id}).Info("audit")

	c.JSON(http.StatusOK, p)
}

// Create handles POST /api/v1/properties.
func (h *PropertyHandler) Create(c *gin.Context) {
	var req models.CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	id, err := h.svc.CreateProperty(c.Request.Context(), req)
	if err != nil {
		h.respondInternal(c, err, "creating property")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "property.create", "property_id": id}).Info("audit")

	c.JSON(http.StatusCreated, createResponse{Message: "Property created successfully", PropertyID: id})
}

// Update handles PUT and PATCH /api/v1/properties/:id. Both are partial:
// only fields present in the body are changed.
func (h *PropertyHandler) Update(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	p, err := h.svc.UpdateProperty(c.Request.Context(), id, req)
	if err != nil {
		if models.IsNotFound(err) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "property not found")

			return
		}

		h.respondInternal(c, err, "updating property")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "property.update", "property_id": id}).Info("audit")

	c.JSON(http.StatusOK, p)
}

// Changes handles GET /api/v1/properties/:id/changes.
func (h *PropertyHandler) Changes(c *gin.Context) {
	id, err := parsePathID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	field := c.Query("field")

	changes, err := h.svc.ListPropertyChanges(c.Request.Context(), id, field)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownField):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "unknown field: "+field)
		case models.IsNotFound(err):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "No changes found for the specified property")
		default:
			h.respondInternal(c, err, "listing property changes")
		}

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":      "property.changes",
		"property_id": id,
		"field":       field,
		"count":       len(changes),
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

// respondInternal logs err and writes a generic 500.
func (h *PropertyHandler) respondInternal(c *gin.Context, err error, msg string) {
	h.log.WithError(err).WithField("request_id", c.GetString(httputil.RequestIDKey)).Error(msg)
	respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
}
