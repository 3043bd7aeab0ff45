// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/RockerzXY/pdfiler/internal/dag"
	"github.com/RockerzXY/pdfiler/internal/fetch"
	"github.com/RockerzXY/pdfiler/internal/install"
	"github.com/RockerzXY/pdfiler/internal/issue"
	"github.com/RockerzXY/pdfiler/internal/launcher"
	"github.com/RockerzXY/pdfiler/internal/provision"
	"github.com/RockerzXY/pdfiler/internal/syspkg"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before formatting the underlying error.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
// All construction sites must use this instead of struct literals.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyInstallError maps installation failures to issue catalog IDs and
// builds the styled message for CLI rendering. Specific failure sentinels win
// over the step-based fallback so that, say, a permission error during deploy
// renders permission guidance rather than generic deploy guidance.
func classifyInstallError(err error, verboseMode bool) *ServiceError {
	var (
		issueID  issue.Id
		mgrErr   *syspkg.ErrManagerNotAvailable
		cycleErr *dag.CycleError
		stepErr  *install.StepError
	)

	switch {
	case errors.As(err, &mgrErr):
		issueID = issue.PackageManagerNotFoundId
	case errors.Is(err, os.ErrPermission):
		issueID = issue.PermissionDeniedId
	case errors.Is(err, provision.ErrManifestMissing):
		issueID = issue.ManifestMissingId
	case errors.Is(err, provision.ErrProvisionFailed):
		issueID = issue.ProvisionFailedId
	case errors.Is(err, fetch.ErrFetchFailed):
		issueID = issue.SourceFetchFailedId
	case errors.Is(err, launcher.ErrRegistrationFailed):
		issueID = issue.LauncherRegistrationFailedId
	case errors.As(err, &cycleErr):
		issueID = issue.DependencyCycleId
	case errors.As(err, &stepErr):
		issueID = issueForStep(stepErr.Step)
	}

	return newServiceError(err, issueID, styledErrorLine(err, verboseMode))
}

// styledErrorLine is the one-line styled rendering of an error.
func styledErrorLine(err error, verboseMode bool) string {
	return fmt.Sprintf("\n%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verboseMode))
}

// issueForStep is the fallback mapping for step failures that carry no
// recognized sentinel.
func issueForStep(step install.StepName) issue.Id {
	switch step {
	case install.StepEnsureTools, install.StepEnsureVenvSupport:
		return issue.ToolInstallFailedId
	case install.StepAcquireSources:
		return issue.SourceFetchFailedId
	case install.StepDeploy:
		return issue.DeployFailedId
	case install.StepProvisionEnv:
		return issue.ProvisionFailedId
	case install.StepRegisterLauncher:
		return issue.LauncherRegistrationFailedId
	case install.StepCleanup:
		return issue.CleanupFailedId
	default:
		return 0
	}
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(issueStyle)
		if renderErr != nil {
			log.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
