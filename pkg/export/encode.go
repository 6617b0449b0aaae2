// Package export renders query results into downloadable tabular (CSV) and
// structured (JSON) artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"floatchat/internal/domain/entity"
)

var floatHeader = []string{
	"id", "latitude", "longitude", "region", "type", "institution", "status",
	"deployed_at", "last_profile_at", "cycle_number", "max_depth",
	"battery_level", "surface_temp", "surface_salinity", "has_oxygen",
}

var profileHeader = []string{
	"float_id", "depth", "temperature", "salinity", "oxygen",
}

// Encode renders one export artifact. CSV output is the float table,
// followed by a profile table separated by a blank line when profiles are
// included; JSON output is a single document with floats, stats and
// profiles.
func Encode(result *entity.QueryResult, profiles []entity.Profile, format entity.ExportFormat) ([]byte, string, error) {
	switch format {
	case entity.FormatCSV:
		data, err := encodeCSV(result, profiles)
		return data, "text/csv", err
	case entity.FormatJSON:
		data, err := encodeJSON(result, profiles)
		return data, "application/json", err
	default:
		return nil, "", fmt.Errorf("%w: unsupported export format %q", entity.ErrInvalidArgument, format)
	}
}

func encodeCSV(result *entity.QueryResult, profiles []entity.Profile) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(floatHeader); err != nil {
		return nil, err
	}
	for _, f := range result.Floats {
		record := []string{
			f.ID,
			formatFloat(f.Latitude),
			formatFloat(f.Longitude),
			f.Region,
			f.Type,
			f.Institution,
			string(f.Status),
			f.DeployedAt.Format(time.RFC3339),
			f.LastProfileAt.Format(time.RFC3339),
			strconv.Itoa(f.CycleNumber),
			formatFloat(f.MaxDepth),
			formatFloat(f.BatteryLevel),
			formatFloat(f.SurfaceTemp),
			formatFloat(f.SurfaceSalinity),
			strconv.FormatBool(f.HasOxygen),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	if len(profiles) > 0 {
		buf.WriteByte('\n')
		pw := csv.NewWriter(&buf)
		if err := pw.Write(profileHeader); err != nil {
			return nil, err
		}
		for _, p := range profiles {
			for _, s := range p.Samples {
				oxygen := ""
				if s.Oxygen != nil {
					oxygen = formatFloat(*s.Oxygen)
				}
				record := []string{
					p.FloatID,
					formatFloat(s.Depth),
					formatFloat(s.Temperature),
					formatFloat(s.Salinity),
					oxygen,
				}
				if err := pw.Write(record); err != nil {
					return nil, err
				}
			}
		}
		pw.Flush()
		if err := pw.Error(); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

type jsonDocument struct {
	Count    int                     `json:"count"`
	Floats   []entity.Float          `json:"floats"`
	Stats    map[string]entity.Stats `json:"stats,omitempty"`
	Profiles []entity.Profile        `json:"profiles,omitempty"`
}

func encodeJSON(result *entity.QueryResult, profiles []entity.Profile) ([]byte, error) {
	doc := jsonDocument{
		Count:    result.Count,
		Floats:   result.Floats,
		Stats:    result.Stats,
		Profiles: profiles,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
