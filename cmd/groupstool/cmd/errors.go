package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/jtyocum/groupstool/pkg/sdk"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errHelpShown is returned after printing help for a command invoked
// without its positional arguments.
var errHelpShown = errors.New("help shown")

// usageError marks bad command-line input: wrong argument count or an
// unknown flag.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// configError marks a failure to resolve settings.
type configError struct {
	err error
}

func (e *configError) Error() string { return fmt.Sprintf("configuration: %v", e.err) }
func (e *configError) Unwrap() error { return e.err }

// errorKind names the error class for --output json.
func errorKind(err error) string {
	var (
		validationErr *sdk.ValidationError
		credentialErr *sdk.CredentialError
		networkErr    *sdk.NetworkError
		decodeErr     *sdk.DecodeError
		usageErr      *usageError
		configErr     *configError
	)
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &usageErr):
		return "usage"
	case errors.As(err, &configErr):
		return "config"
	case errors.As(err, &credentialErr):
		return "credential"
	case errors.As(err, &networkErr):
		return "network"
	case errors.As(err, &decodeErr):
		return "decode"
	default:
		return "error"
	}
}

func exitCode(err error) int {
	switch errorKind(err) {
	case "validation", "usage":
		return exitUsage
	default:
		return exitFailure
	}
}

// reportError prints err for the user and returns the exit code.
func reportError(ran *cobra.Command, err error, stdout, stderr io.Writer) int {
	if errors.Is(err, errHelpShown) {
		return exitUsage
	}

	code := exitCode(err)
	if outputFormat(ran) == "json" {
		_ = printJSON(stdout, map[string]string{
			"error": err.Error(),
			"kind":  errorKind(err),
		})
		return code
	}

	pterm.Error.WithWriter(stderr).Println(err.Error())
	if code == exitUsage && ran != nil {
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", ran.CommandPath())
	}
	return code
}
