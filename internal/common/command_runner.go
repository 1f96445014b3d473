package common

import (
	"context"

	"tailorkit/internal/errors"
	"tailorkit/internal/types"
)

// EngineOperationFunc is a generic signature for an engine operation over a
// parsed resume and posting.
type EngineOperationFunc[Output any] func(context.Context, *types.ResumeDocument, types.JobPosting) (Output, error)

// LogDetailsFunc logs the start of an operation
type LogDetailsFunc func(resume *types.ResumeDocument, posting types.JobPosting, cfg CommandConfig)

// RunEngineCommand encapsulates the common logic for file-based CLI commands:
// read and parse the resume and posting files, run the operation, format the
// result.
func RunEngineCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	resumeFile, postingFile string,
	operation EngineOperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(logger, cmdConfig.MaxFileSize)
	outputHandler := NewOutputHandler(logger)

	resume, err := fileProcessor.ReadResumeFile(resumeFile)
	if err != nil {
		return err
	}

	posting, err := fileProcessor.ReadPostingFile(postingFile)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(resume, posting, cmdConfig)
	}

	result, err := operation(ctx, resume, posting)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
