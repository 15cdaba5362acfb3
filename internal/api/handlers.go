package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beachhui/conditions/internal/domain"
	"github.com/beachhui/conditions/internal/store"
)

// beachSummary is one list entry: the beach plus its current conditions.
type beachSummary struct {
	store.Beach
	Conditions domain.Conditions `json:"conditions"`
	Live       bool              `json:"live"`
}

// handleListBeaches returns all beaches with conditions attached.
// The first liveLimit beaches (after filtering) get a full aggregation
// pass; the rest get deterministic simulated conditions so the response
// stays fast and inside provider quotas.
// GET /api/v1/beaches?island=oahu&q=waikiki&status=good
func (s *Server) handleListBeaches(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	beaches, err := s.beaches.ListBeaches(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	beaches = filterBeaches(beaches, c.Query("island"), c.Query("q"))

	summaries := make([]beachSummary, len(beaches))
	var wg sync.WaitGroup
	for i, beach := range beaches {
		live := i < s.liveLimit
		summaries[i] = beachSummary{Beach: beach, Live: live}
		if !live {
			summaries[i].Conditions = domain.SimulateConditions(beach.Name, beach.Lat, beach.Lon, s.clock.Now())
			continue
		}
		wg.Add(1)
		go func(i int, beach store.Beach) {
			defer wg.Done()
			summaries[i].Conditions = s.agg.GetBeachData(ctx, beach)
		}(i, beach)
	}
	wg.Wait()

	if status := c.Query("status"); status != "" {
		filtered := summaries[:0]
		for _, sum := range summaries {
			if string(sum.Conditions.Status) == status {
				filtered = append(filtered, sum)
			}
		}
		summaries = filtered
	}

	c.JSON(http.StatusOK, gin.H{
		"data": summaries,
		"meta": gin.H{"count": len(summaries)},
	})
}

func filterBeaches(beaches []store.Beach, island, search string) []store.Beach {
	if island == "" && search == "" {
		return beaches
	}
	island = strings.ToLower(island)
	search = strings.ToLower(search)

	filtered := beaches[:0]
	for _, b := range beaches {
		if island != "" && strings.ToLower(b.Island) != island {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.Name), search) &&
			!strings.Contains(b.Slug, search) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// handleComprehensive runs a full aggregation pass for one beach.
// GET /api/v1/beaches/:slug/comprehensive
func (s *Server) handleComprehensive(c *gin.Context) {
	slug := c.Param("slug")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	beach, conditions, err := s.agg.GetComprehensive(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "beach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"beach":      beach,
			"conditions": conditions,
		},
	})
}

// handleQuota reports remaining provider budgets.
// GET /api/v1/quota
func (s *Server) handleQuota(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.quotas.AllUsage()})
}
