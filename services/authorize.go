package services

import (
	stderrors "errors"

	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/repository"
	"github.com/mihirmehra/employee-management-system/types"
)

// authorize là cổng kiểm tra quyền duy nhất của các service
func authorize(caller types.Caller, capability types.Capability) error {
	if caller.UserID == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	if !caller.Can(capability) {
		return apperrors.Unauthorized("Unauthorized").WithDetail("capability", string(capability))
	}
	return nil
}

// authorizeSelfOr lets callers act on their own records, and anyone holding
// capability act on everybody's.
func authorizeSelfOr(caller types.Caller, ownerID uint, capability types.Capability) error {
	if caller.UserID == 0 {
		return apperrors.NewAppError(apperrors.ErrCodeMissingToken, "Unauthorized", nil)
	}
	if caller.UserID == ownerID {
		return nil
	}
	return authorize(caller, capability)
}

// storeError maps repository sentinels onto application errors.
func storeError(err error, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case stderrors.Is(err, repository.ErrRecordNotFound):
		return apperrors.NotFound(notFoundMessage)
	case stderrors.Is(err, repository.ErrDuplicate):
		return apperrors.NewAppError(apperrors.ErrCodeConflict, "Record already exists", err)
	}
	return apperrors.Database("Database error", err)
}
