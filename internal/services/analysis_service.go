package services

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/metrics"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/vision"
)

const defaultImageMimeType = "image/jpeg"

const analysisPrompt = `You are an emergency report analyzer. Analyze this image and provide a structured report.
Please respond in this exact format:
TITLE: (Write a clear, brief title for the emergency report)
TYPE: (Determine if this is an EMERGENCY or NON_EMERGENCY situation)
SPECIFIC_TYPE: (Choose one: THEFT, FIRE_OUTBREAK, MEDICAL_EMERGENCY, NATURAL_DISASTER, VIOLENCE, TRAFFIC_ACCIDENT, VANDALISM, SUSPICIOUS_ACTIVITY, PUBLIC_DISTURBANCE, or OTHER)
LOCATION_DESCRIPTION: (Describe the location or setting you see in the image)
DESCRIPTION: (Write a detailed description of what you see, potential risks, and recommended actions)

Important notes:
- For TYPE, only use EMERGENCY or NON_EMERGENCY
- For SPECIFIC_TYPE, use only one of the exact values listed above
- Be as specific as possible about the location`

const analysisJSONPrompt = `You are an emergency report analyzer. Analyze this image and provide a structured report.
Respond with a single JSON object with these string fields:
"title": a clear, brief title for the emergency report
"type": EMERGENCY or NON_EMERGENCY
"specific_type": one of THEFT, FIRE_OUTBREAK, MEDICAL_EMERGENCY, NATURAL_DISASTER, VIOLENCE, TRAFFIC_ACCIDENT, VANDALISM, SUSPICIOUS_ACTIVITY, PUBLIC_DISTURBANCE, OTHER
"location_description": the location or setting you see in the image
"description": a detailed description of what you see, potential risks, and recommended actions

Be as specific as possible about the location.`

type analysisService struct {
	client     vision.Client
	logger     *slog.Logger
	structured bool
}

// NewAnalysisService builds the image analysis adapter. With structured set
// the model is asked for JSON instead of labelled text.
func NewAnalysisService(client vision.Client, logger *slog.Logger, structured bool) AnalysisService {
	return &analysisService{
		client:     client,
		logger:     logger,
		structured: structured,
	}
}

func (s *analysisService) Analyze(ctx context.Context, image string) (*models.ReportDraft, error) {
	start := time.Now()
	draft, err := s.analyze(ctx, image)

	kind := AnalysisErrorKind(err)
	metrics.AnalysisTotal.WithLabelValues(kind).Inc()
	metrics.AnalysisDurationSeconds.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Warn("Image analysis failed", "kind", kind, "provider", s.client.Name(), "error", err)
		return nil, err
	}

	s.logger.Info("Image analyzed", "provider", s.client.Name(), "type", draft.Type, "specific_type", draft.SpecificType)
	return draft, nil
}

func (s *analysisService) analyze(ctx context.Context, image string) (*models.ReportDraft, error) {
	mimeType, payload, err := parseImageDataURI(image)
	if err != nil {
		return nil, err
	}

	prompt := analysisPrompt
	if s.structured {
		prompt = analysisJSONPrompt
	}

	text, err := s.client.Generate(ctx, vision.Request{
		MimeType: mimeType,
		Data:     payload,
		Prompt:   prompt,
		JSON:     s.structured,
	})
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	return buildDraft(parseAnalysis(text))
}

// parseImageDataURI splits "data:<mime>;base64,<payload>" into its parts
func parseImageDataURI(image string) (string, string, error) {
	if strings.TrimSpace(image) == "" {
		return "", "", &InvalidInputError{Reason: "image is required"}
	}
	if !strings.Contains(image, "base64") {
		return "", "", &InvalidInputError{Reason: "image must be base64 encoded"}
	}

	header, payload, found := strings.Cut(image, ",")
	payload = strings.TrimSpace(payload)
	if !found || payload == "" {
		return "", "", &InvalidInputError{Reason: "image payload is empty"}
	}

	mimeType := defaultImageMimeType
	if rest, ok := strings.CutPrefix(strings.TrimSpace(header), "data:"); ok {
		if m, _, _ := strings.Cut(rest, ";"); m != "" {
			mimeType = m
		}
	}

	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return "", "", &InvalidInputError{Reason: "image payload is not valid base64"}
	}

	return mimeType, payload, nil
}
