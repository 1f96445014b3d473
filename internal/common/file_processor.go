package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tailorkit/internal/errors"
	"tailorkit/internal/types"
	"tailorkit/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger      *errors.Logger
	maxFileSize int64
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger, maxFileSize int64) *FileProcessor {
	return &FileProcessor{logger: logger, maxFileSize: maxFileSize}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			// Log the error but don't override the main operation result
			if fp.logger != nil {
				fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
			}
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return string(content), nil
}

// ReadResumeFile reads and parses a structured resume document. JSON and
// YAML inputs both go through the YAML decoder since JSON is a YAML subset.
func (fp *FileProcessor) ReadResumeFile(filename string) (*types.ResumeDocument, error) {
	if err := fp.validateInput(filename); err != nil {
		return nil, err
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var resume types.ResumeDocument
	if err := yaml.Unmarshal([]byte(content), &resume); err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to parse resume document: %s", filename), err)
	}
	if len(resume.Sections) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInsufficientInput,
			fmt.Sprintf("Resume document has no sections: %s", filename), nil)
	}

	return &resume, nil
}

// ReadPostingFile reads a job posting. Structured files parse into the full
// JobPosting shape; plain text becomes the posting body with the filename
// stem as title.
func (fp *FileProcessor) ReadPostingFile(filename string) (types.JobPosting, error) {
	if err := fp.validateInput(filename); err != nil {
		return types.JobPosting{}, err
	}

	content, err := fp.ReadFile(filename)
	if err != nil {
		return types.JobPosting{}, err
	}

	if utils.IsStructuredFile(filename) {
		var posting types.JobPosting
		if err := yaml.Unmarshal([]byte(content), &posting); err != nil {
			return types.JobPosting{}, errors.NewValidationError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Failed to parse job posting: %s", filename), err)
		}
		return posting, nil
	}

	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return types.JobPosting{Text: content, Title: title}, nil
}

// validateInput runs the shared input-file checks
func (fp *FileProcessor) validateInput(filename string) error {
	if err := utils.ValidateInputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if err := utils.ValidateFileSize(filename, fp.maxFileSize); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if !utils.IsTextFile(filename) {
		if fp.logger != nil {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s may not be a text file\n", filename)
		}
	}
	return nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
