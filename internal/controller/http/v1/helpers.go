package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"floatchat/internal/domain/entity"
)

func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// criteriaFromQuery builds filter criteria from query parameters: CSV lists
// for regions/statuses/types/parameters, <param>_min and <param>_max for
// numeric bounds. Validation happens in the engine.
func criteriaFromQuery(c *gin.Context) (entity.Criteria, error) {
	criteria := entity.Criteria{
		Regions: splitCSV(c.Query("regions")),
		Types:   splitCSV(c.Query("types")),
	}
	for _, s := range splitCSV(c.Query("statuses")) {
		criteria.Statuses = append(criteria.Statuses, entity.FloatStatus(s))
	}
	criteria.Parameters = splitCSV(c.Query("parameters"))

	params := []string{
		entity.ParamTemperature, entity.ParamSalinity, entity.ParamBatteryLevel,
		entity.ParamMaxDepth, entity.ParamCycleNumber, entity.ParamLatitude,
		entity.ParamLongitude,
	}
	for _, param := range params {
		r := entity.Range{}
		set := false
		if raw := c.Query(param + "_min"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return entity.Criteria{}, fmt.Errorf("%w: %s_min: %v", entity.ErrInvalidArgument, param, err)
			}
			r.Min, set = &v, true
		}
		if raw := c.Query(param + "_max"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return entity.Criteria{}, fmt.Errorf("%w: %s_max: %v", entity.ErrInvalidArgument, param, err)
			}
			r.Max, set = &v, true
		}
		if set {
			if criteria.Ranges == nil {
				criteria.Ranges = map[string]entity.Range{}
			}
			criteria.Ranges[param] = r
		}
	}

	return criteria, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
