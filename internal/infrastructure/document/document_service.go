package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"penneo-esign/internal/config"
)

var (
	// ErrDocumentNotFound is returned when the ready folder has no such file
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidFilename is returned for names that are not a plain PDF file name
	ErrInvalidFilename = errors.New("invalid document filename")
)

// DocumentService handles the PDF files a signing case moves through:
// ready -> progress -> finish
type DocumentService interface {
	// LoadDocument reads a PDF from the ready folder
	LoadDocument(filename string) ([]byte, error)

	// MoveToProgress moves a document from ready to progress folder
	MoveToProgress(filename string) error

	// SaveToFinishAndDeleteProgress writes the signed content to the finish
	// folder, removes the progress copy and returns the written path
	SaveToFinishAndDeleteProgress(filename string, content []byte) (string, error)

	// GetReadyPath returns the full path to ready folder
	GetReadyPath() string

	// GetProgressPath returns the full path to progress folder
	GetProgressPath() string

	// GetFinishPath returns the full path to finish folder
	GetFinishPath() string
}

type documentService struct {
	config *config.DocumentConfig
	logger *zap.Logger
}

func NewDocumentService(cfg *config.Config, logger *zap.Logger) (DocumentService, error) {
	svc := &documentService{
		config: &cfg.Document,
		logger: logger,
	}

	// Ensure all directories exist
	if err := svc.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create document directories: %w", err)
	}

	logger.Info("Document service initialized",
		zap.String("base_path", cfg.Document.BasePath),
		zap.String("ready_folder", svc.GetReadyPath()),
		zap.String("progress_folder", svc.GetProgressPath()),
		zap.String("finish_folder", svc.GetFinishPath()),
	)

	return svc, nil
}

func (s *documentService) ensureDirectories() error {
	dirs := []string{
		s.GetReadyPath(),
		s.GetProgressPath(),
		s.GetFinishPath(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

func (s *documentService) GetReadyPath() string {
	return filepath.Join(s.config.BasePath, s.config.ReadyFolder)
}

func (s *documentService) GetProgressPath() string {
	return filepath.Join(s.config.BasePath, s.config.ProgressFolder)
}

func (s *documentService) GetFinishPath() string {
	return filepath.Join(s.config.BasePath, s.config.FinishFolder)
}

// checkFilename accepts a bare "*.pdf" name without directory components
func checkFilename(filename string) error {
	if filename == "" || filepath.Base(filename) != filename || filename == "." || filename == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return fmt.Errorf("%w: %q is not a pdf", ErrInvalidFilename, filename)
	}
	return nil
}

func (s *documentService) LoadDocument(filename string) ([]byte, error) {
	if err := checkFilename(filename); err != nil {
		return nil, err
	}
	filePath := filepath.Join(s.GetReadyPath(), filename)

	content, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	s.logger.Info("Document loaded successfully",
		zap.String("filename", filename),
		zap.Int("size_bytes", len(content)),
	)

	return content, nil
}

func (s *documentService) MoveToProgress(filename string) error {
	if err := checkFilename(filename); err != nil {
		return err
	}
	srcPath := filepath.Join(s.GetReadyPath(), filename)
	dstPath := filepath.Join(s.GetProgressPath(), filename)

	s.logger.Info("Moving document to progress",
		zap.String("filename", filename),
		zap.String("from", srcPath),
		zap.String("to", dstPath),
	)

	if err := os.Rename(srcPath, dstPath); err != nil {
		return fmt.Errorf("failed to move document to progress: %w", err)
	}

	return nil
}

func (s *documentService) SaveToFinishAndDeleteProgress(filename string, content []byte) (string, error) {
	if err := checkFilename(filename); err != nil {
		return "", err
	}
	progressPath := filepath.Join(s.GetProgressPath(), filename)
	finishPath := filepath.Join(s.GetFinishPath(), filename)

	s.logger.Info("Saving file to finish and deleting from progress",
		zap.String("filename", filename),
		zap.String("finish_path", finishPath),
		zap.Int("size_bytes", len(content)),
	)

	// Write content to finish folder
	if err := os.WriteFile(finishPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to save file to finish folder: %w", err)
	}

	// Delete file from progress folder
	if err := os.Remove(progressPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Log warning but don't fail
		s.logger.Warn("Failed to delete file from progress folder",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}

	return finishPath, nil
}

var Module = fx.Module("document",
	fx.Provide(NewDocumentService),
)
