package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/pronunciation"
)

// PronunciationRequest compares what the learner said with what they read.
// Strategy is optional; by default it follows the language.
type PronunciationRequest struct {
	Reference  string                 `json:"reference"`
	Transcript string                 `json:"transcript"`
	Language   string                 `json:"language"`
	Strategy   pronunciation.Strategy `json:"strategy,omitempty"`
}

// RecordedPronunciation is a comparison plus the progress it updated.
type RecordedPronunciation struct {
	Result   pronunciation.Result `json:"result"`
	Progress *models.UserProgress `json:"progress"`
}

// PronunciationService scores spoken transcripts against reference text
type PronunciationService interface {
	Compare(ctx context.Context, req PronunciationRequest) (*pronunciation.Result, error)
	CompareAndRecord(ctx context.Context, userID int64, req PronunciationRequest) (*RecordedPronunciation, error)
}

type pronunciationService struct {
	engine   *pronunciation.Engine
	progress ProgressService
}

// NewPronunciationService creates a new PronunciationService
func NewPronunciationService(engine *pronunciation.Engine, progress ProgressService) PronunciationService {
	return &pronunciationService{engine: engine, progress: progress}
}

func (s *pronunciationService) Compare(ctx context.Context, req PronunciationRequest) (*pronunciation.Result, error) {
	log := logger.FromContext(ctx)
	log.Debug("comparing pronunciation: language=%s, strategy=%s", req.Language, req.Strategy)

	var (
		result pronunciation.Result
		err    error
	)
	switch req.Strategy {
	case "":
		result, err = s.engine.Compare(req.Reference, req.Transcript, req.Language)
	case pronunciation.PerWord, pronunciation.WholeString:
		result, err = s.engine.CompareWith(req.Strategy, req.Reference, req.Transcript)
	default:
		return nil, errors.NewValidationError("strategy", "must be 'per-word' or 'whole-string'")
	}
	if err != nil {
		if stderrors.Is(err, pronunciation.ErrEmptyReference) {
			return nil, errors.NewValidationError("reference", "cannot be empty")
		}
		log.Error("failed to compare pronunciation: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("pronunciation verdict: %s (similarity=%.3f)", result.Verdict, result.Similarity)
	return &result, nil
}

func (s *pronunciationService) CompareAndRecord(ctx context.Context, userID int64, req PronunciationRequest) (*RecordedPronunciation, error) {
	result, err := s.Compare(ctx, req)
	if err != nil {
		return nil, err
	}
	p, err := s.progress.RecordReadingAccuracy(ctx, userID, req.Language, result.Accuracy)
	if err != nil {
		return nil, err
	}
	return &RecordedPronunciation{Result: *result, Progress: p}, nil
}
