package provider

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
)

// IOError is returned by collaborators talking to the network, the file system
// or external processes. It is never retried by the caller.
type IOError struct {
	Op string

	// Code is the service error code, if the failure came from a remote API.
	Code string

	Err error
}

func (e *IOError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Wrap returns err as an IOError for op, keeping the API error code of AWS
// style service errors. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var ioErr *IOError

	if errors.As(err, &ioErr) {
		return err
	}

	result := &IOError{
		Op:  op,
		Err: err,
	}

	var apiErr smithy.APIError

	if errors.As(err, &apiErr) {
		result.Code = apiErr.ErrorCode()
	}

	return result
}
