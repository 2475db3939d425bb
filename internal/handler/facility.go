package handler

import (
	"net/http"

	"address-resolver/internal/models"

	"github.com/gin-gonic/gin"
)

// FacilityDirectory is the facility registry exposed over HTTP
type FacilityDirectory interface {
	Depots() []models.Facility
	RailTerminals() []models.Facility
	NearestDepot(coordinates, division string) (string, bool)
	NearestRail(state string) string
}

// FacilityHandler handles facility lookups
type FacilityHandler struct {
	directory FacilityDirectory
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(directory FacilityDirectory) *FacilityHandler {
	return &FacilityHandler{directory: directory}
}

// List handles GET /facilities
func (h *FacilityHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, models.FacilityTable{
		models.DirectoryDepots:        h.directory.Depots(),
		models.DirectoryRailTerminals: h.directory.RailTerminals(),
	})
}

// NearestDepot handles GET /facilities/depots/nearest
func (h *FacilityHandler) NearestDepot(c *gin.Context) {
	coordinates := c.Query("coordinates")
	if coordinates == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'coordinates'"})
		return
	}
	division := c.Query("division")
	if division == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'division'"})
		return
	}

	nearest, ok := h.directory.NearestDepot(coordinates, division)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no depot found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coordinates": nearest})
}

// NearestRail handles GET /facilities/rail/nearest
func (h *FacilityHandler) NearestRail(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'state'"})
		return
	}

	nearest := h.directory.NearestRail(state)
	if nearest == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no rail terminal found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"coordinates": nearest})
}
