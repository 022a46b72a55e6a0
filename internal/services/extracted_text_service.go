package services

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/uploads"
)

// PendingExtractionText stands in for text not yet recognised from an image.
const PendingExtractionText = "Text will be extracted from image"

// ImageSaver persists an uploaded image and returns its public URL.
type ImageSaver interface {
	Save(ctx context.Context, r io.Reader) (string, error)
	MaxBytes() int64
}

// ExtractedTextInput is a text capture. At least one of Text and Image is set.
type ExtractedTextInput struct {
	LanguageID int64
	Text       string
	Image      io.Reader
}

// ExtractedTextService stores text captured from images
type ExtractedTextService interface {
	List(ctx context.Context, userID int64) ([]models.ExtractedText, error)
	Create(ctx context.Context, userID int64, input ExtractedTextInput) (*models.ExtractedText, error)
}

type extractedTextService struct {
	textRepo     repository.ExtractedTextRepository
	languageRepo repository.LanguageRepository
	images       ImageSaver
}

// NewExtractedTextService creates a new ExtractedTextService
func NewExtractedTextService(textRepo repository.ExtractedTextRepository, languageRepo repository.LanguageRepository, images ImageSaver) ExtractedTextService {
	return &extractedTextService{textRepo: textRepo, languageRepo: languageRepo, images: images}
}

func (s *extractedTextService) List(ctx context.Context, userID int64) ([]models.ExtractedText, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing extracted texts: user_id=%d", userID)

	texts, err := s.textRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list extracted texts: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return texts, nil
}

func (s *extractedTextService) Create(ctx context.Context, userID int64, input ExtractedTextInput) (*models.ExtractedText, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating extracted text: user_id=%d, language_id=%d, image=%t", userID, input.LanguageID, input.Image != nil)

	text := strings.TrimSpace(input.Text)
	if input.Image == nil && text == "" {
		return nil, errors.NewBadRequestError("either image or text is required")
	}
	if input.LanguageID <= 0 {
		return nil, errors.NewValidationError("languageId", "must be positive")
	}
	lang, err := s.languageRepo.Get(ctx, input.LanguageID)
	if err != nil {
		log.Error("failed to get language: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lang == nil {
		return nil, errors.NewValidationError("languageId", "unknown language")
	}

	record := models.ExtractedText{UserID: userID, LanguageID: input.LanguageID, Text: text}
	if input.Image != nil {
		url, err := s.images.Save(ctx, input.Image)
		if err != nil {
			switch {
			case stderrors.Is(err, uploads.ErrTooLarge):
				return nil, errors.NewTooLargeError(s.images.MaxBytes())
			case stderrors.Is(err, uploads.ErrUnsupportedType):
				return nil, errors.NewValidationError("image", err.Error())
			}
			log.Error("failed to save image: %v", err)
			return nil, errors.NewInternalError(err)
		}
		record.ImageURL = &url
	}
	if record.Text == "" {
		record.Text = PendingExtractionText
	}

	created, err := s.textRepo.Insert(ctx, record)
	if err != nil {
		return nil, mapInsertError(ctx, "extracted text already exists", err)
	}
	log.Info("extracted text stored: id=%d", created.ID)
	return created, nil
}
