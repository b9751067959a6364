package commands

import (
	"errors"
	"fmt"
	"io"

	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

// userError is a problem with the command line itself.
type userError struct {
	msg string
}

func (e *userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

// reportError prints err in the CLI's error format and returns the exit code.
//
//	bad args, unknown task, server validation -> "error: <msg>", UserError
//	401                                       -> session expired, AuthError
//	failed login                              -> "error: <detail>", AuthError
//	anything else                             -> "error: backend error: ...", BackendError
func reportError(errOut io.Writer, err error) int {
	var uerr *userError
	if errors.As(err, &uerr) {
		fmt.Fprintf(errOut, "error: %s\n", uerr.msg)
		return exitcode.UserError
	}

	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintln(errOut, "error: session expired (run: taskdeck login)")
		return exitcode.AuthError
	}

	var authErr *service.AuthError
	if errors.As(err, &authErr) {
		fmt.Fprintf(errOut, "error: %s\n", authErr.Error())
		return exitcode.AuthError
	}

	var apiErr *service.APIError
	if errors.As(err, &apiErr) && apiErr.ClientError() {
		fmt.Fprintf(errOut, "error: %s\n", apiErr.Error())
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}
