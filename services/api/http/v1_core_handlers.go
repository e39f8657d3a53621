package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// handleV1GetStation returns one station document
// GET /api/v1/stations/:id
func (s *Server) handleV1GetStation(c *gin.Context) {
	stationID := c.Param("id")
	if stationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station id is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	station, err := s.store.GetStation(ctx, stationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if station == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": station,
	})
}

// handleV1ListAssemblies returns every assembly with its station count
// GET /api/v1/assemblies
func (s *Server) handleV1ListAssemblies(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	assemblies, err := s.store.ListAssemblies(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": assemblies,
		"meta": gin.H{
			"count": len(assemblies),
		},
	})
}

// handleV1ListStations returns the station documents of an assembly
// GET /api/v1/assemblies/:ac_id/stations?limit=
func (s *Server) handleV1ListStations(c *gin.Context) {
	assemblyID := c.Param("ac_id")

	limit := s.cfg.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	stations, err := s.store.ListStations(ctx, assemblyID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": stations,
		"meta": gin.H{
			"ac_id": assemblyID,
			"count": len(stations),
			"limit": limit,
		},
	})
}

// handleV1AssemblyResults aggregates one election year across an assembly
// GET /api/v1/assemblies/:ac_id/results/:year
func (s *Server) handleV1AssemblyResults(c *gin.Context) {
	assemblyID := c.Param("ac_id")
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	stations, err := s.store.ListStations(ctx, assemblyID, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(stations) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "assembly not found"})
		return
	}

	records := make([]stationRecord, 0, len(stations))
	for _, st := range stations {
		rec, ok, err := st.Election(year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if ok {
			records = append(records, stationRecord{id: st.ID, rec: rec})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"data": aggregateResults(assemblyID, year, records),
	})
}
