package pdf

import (
	"fmt"
	"os"
)

// Validator checks a document path before it is handed to the PDF libraries
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified size limit
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile checks that filePath names a readable, non-empty file within the size limit.
// Missing and unreadable files surface the underlying os error so callers can report it.
func (v *Validator) ValidateFile(filePath string) (os.FileInfo, error) {
	if filePath == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := v.ValidateFileInfo(filePath, fileInfo); err != nil {
		return nil, err
	}

	return fileInfo, nil
}

// ValidateFileInfo performs the checks that need no file access
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("%w: %s", ErrIsDirectory, filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, filePath)
	}

	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, fileInfo.Size(), v.maxFileSize)
	}

	return nil
}
