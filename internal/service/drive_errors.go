package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-drive-service/internal/drive"
	"github.com/haierkeys/fast-drive-service/pkg/code"
	"github.com/haierkeys/fast-drive-service/pkg/writequeue"
)

var driveErrorCodes = []struct {
	err  error
	code *code.Code
}{
	{drive.ErrEntryNotFound, code.ErrorEntryNotFound},
	{drive.ErrInvalidNavigation, code.ErrorInvalidNavigation},
	{drive.ErrInvalidCrumb, code.ErrorInvalidCrumb},
	{drive.ErrInvalidMode, code.ErrorInvalidMode},
	{drive.ErrSelfShare, code.ErrorSelfShare},
	{drive.ErrDuplicateShare, code.ErrorDuplicateShare},
	{drive.ErrInvalidAccess, code.ErrorInvalidAccess},
	{drive.ErrDetached, code.ErrorEntryDetached},
	{drive.ErrCycle, code.ErrorDriveCorrupt},
	{writequeue.ErrWriteQueueFull, code.ErrorDriveBusy},
	{writequeue.ErrWriteTimeout, code.ErrorDriveBusy},
	{writequeue.ErrWriteQueueClosed, code.ErrorDriveBusy},
	{context.DeadlineExceeded, code.ErrorRequestTimeout},
}

// driveCode maps model and queue errors to response codes. A *code.Code is
// returned unchanged.
func driveCode(err error) error {
	if err == nil {
		return nil
	}
	var c *code.Code
	if errors.As(err, &c) {
		return c
	}
	for _, m := range driveErrorCodes {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return code.ErrorServerInternal.WithDetails(err.Error())
}
