package service

import (
	"context"

	"clearlink/internal/links/cleaner"
	linkerrors "clearlink/internal/links/errors"
	"clearlink/pkg/logger"
	"clearlink/pkg/model"
)

// LinkService is the application-facing surface over the cleaning engine.
type LinkService interface {
	// CleanOne cleans a single URL. Benign outcomes (nothing to clean) come
	// back as an unchanged result with a reason code, not as an error.
	CleanOne(ctx context.Context, rawURL string) (model.CleanResult, error)

	// CleanBatch cleans several URLs independently. Hard failures for one
	// URL are recorded in its result and do not abort the rest.
	CleanBatch(ctx context.Context, rawURLs []string) []model.CleanResult

	// CleanText extracts every URL from free-form text and returns the
	// original/cleaned pairs that actually changed.
	CleanText(ctx context.Context, text string) []model.CleanResult
}

type linkService struct {
	cleaner *cleaner.Cleaner
	log     *logger.Logger
}

func NewLinkService(c *cleaner.Cleaner, log *logger.Logger) LinkService {
	return &linkService{cleaner: c, log: log}
}

func (s *linkService) CleanOne(ctx context.Context, rawURL string) (model.CleanResult, error) {
	cleaned, err := s.cleaner.Clear(ctx, rawURL)
	if err != nil {
		if linkerrors.IsBenign(err) {
			return model.CleanResult{
				Original: rawURL,
				Cleaned:  rawURL,
				Changed:  false,
				Reason:   linkerrors.CodeOf(err),
			}, nil
		}
		return model.CleanResult{}, err
	}

	out := cleaned.String()
	return model.CleanResult{
		Original: rawURL,
		Cleaned:  out,
		Changed:  out != rawURL,
	}, nil
}

func (s *linkService) CleanBatch(ctx context.Context, rawURLs []string) []model.CleanResult {
	results := make([]model.CleanResult, 0, len(rawURLs))
	for _, raw := range rawURLs {
		result, err := s.CleanOne(ctx, raw)
		if err != nil {
			s.log.Warn("clean failed", "url", raw, "error", err)
			result = model.CleanResult{
				Original: raw,
				Cleaned:  raw,
				Changed:  false,
				Reason:   linkerrors.CodeOf(err),
			}
		}
		results = append(results, result)
	}
	return results
}

func (s *linkService) CleanText(ctx context.Context, text string) []model.CleanResult {
	var changed []model.CleanResult

	for _, raw := range ExtractURLs(text) {
		result, err := s.CleanOne(ctx, raw)
		if err != nil {
			// A chat message full of un-cleanable links is routine, not an
			// incident: log and keep going.
			s.log.Debug("skipping link", "url", raw, "error", err)
			continue
		}
		if !result.Changed {
			continue
		}
		changed = append(changed, result)
	}

	return changed
}
