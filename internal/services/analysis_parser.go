package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
)

const (
	labelTitle        = "TITLE"
	labelType         = "TYPE"
	labelSpecificType = "SPECIFIC_TYPE"
	labelLocation     = "LOCATION_DESCRIPTION"
	labelDescription  = "DESCRIPTION"
)

// labelLine matches "TITLE: x", "**TITLE**: x" and "**TITLE:** x" at line start
var labelLine = regexp.MustCompile(`(?i)^\s*\**\s*(TITLE|TYPE|SPECIFIC[_ ]TYPE|LOCATION[_ ]DESCRIPTION|DESCRIPTION)\s*\**\s*:\s*\**\s*(.*)$`)

type analysisFields struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	SpecificType string `json:"specific_type"`
	Location     string `json:"location_description"`
	Description  string `json:"description"`
}

// parseAnalysis accepts either a JSON object or labelled text
func parseAnalysis(text string) analysisFields {
	body := stripCodeFence(text)
	if strings.HasPrefix(body, "{") {
		var fields struct {
			analysisFields
			LocationAlt string `json:"location"`
		}
		if err := json.Unmarshal([]byte(body), &fields); err == nil {
			if fields.Location == "" {
				fields.Location = fields.LocationAlt
			}
			return fields.analysisFields.trimmed()
		}
	}
	return parseLabelled(text)
}

// parseLabelled reads label lines in any order. A value runs until the next
// new label line; the first occurrence of a label wins and a repeated label
// line is body text of the field being read.
func parseLabelled(text string) analysisFields {
	values := make(map[string]string)
	current := ""

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if m := labelLine.FindStringSubmatch(line); m != nil {
			label := strings.ToUpper(strings.ReplaceAll(m[1], " ", "_"))
			if _, seen := values[label]; !seen {
				current = label
				values[label] = m[2]
				continue
			}
			if label == current {
				continue
			}
		}
		if current != "" {
			values[current] += "\n" + line
		}
	}

	return analysisFields{
		Title:        values[labelTitle],
		Type:         values[labelType],
		SpecificType: values[labelSpecificType],
		Location:     values[labelLocation],
		Description:  values[labelDescription],
	}.trimmed()
}

func (f analysisFields) trimmed() analysisFields {
	return analysisFields{
		Title:        cleanValue(f.Title),
		Type:         cleanValue(f.Type),
		SpecificType: cleanValue(f.SpecificType),
		Location:     cleanValue(f.Location),
		Description:  cleanValue(f.Description),
	}
}

func cleanValue(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "*"))
}

func stripCodeFence(text string) string {
	body := strings.TrimSpace(text)
	if !strings.HasPrefix(body, "```") {
		return body
	}
	if i := strings.Index(body, "\n"); i >= 0 {
		body = body[i+1:]
	} else {
		body = strings.TrimPrefix(body, "```")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "```"))
}

// normalizeEnum maps "non-emergency" or "Fire Outbreak." to NON_EMERGENCY / FIRE_OUTBREAK
func normalizeEnum(s string) string {
	s = strings.ToUpper(strings.Trim(strings.TrimSpace(s), "*.`'\""))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// buildDraft checks the parsed fields and turns them into a report draft
func buildDraft(f analysisFields) (*models.ReportDraft, error) {
	reportType := models.ReportType(normalizeEnum(f.Type))
	if !reportType.IsValid() {
		return nil, &UpstreamFormatError{Field: "type", Value: f.Type}
	}

	specificType := models.SpecificType(normalizeEnum(f.SpecificType))
	if !specificType.IsValid() {
		return nil, &UpstreamFormatError{Field: "specific_type", Value: f.SpecificType}
	}

	var missing []string
	if f.Title == "" {
		missing = append(missing, "title")
	}
	if f.Description == "" {
		missing = append(missing, "description")
	}
	if f.Location == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, &IncompleteResultError{Missing: missing}
	}

	return &models.ReportDraft{
		Title:        f.Title,
		Type:         reportType,
		SpecificType: specificType,
		Location:     f.Location,
		Description:  f.Description,
	}, nil
}
