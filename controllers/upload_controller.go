package controllers

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/mihirmehra/employee-management-system/dto"
	apperrors "github.com/mihirmehra/employee-management-system/errors"
	"github.com/mihirmehra/employee-management-system/middleware"
	"github.com/mihirmehra/employee-management-system/response"
	"github.com/mihirmehra/employee-management-system/services"
	"github.com/mihirmehra/employee-management-system/services/logger"

	"github.com/gin-gonic/gin"
)

// upload đẩy file lên media storage và đổi lỗi thành AppError
func upload(ctx context.Context, u services.Uploader, file io.Reader, folder string) (string, error) {
	if u == nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeUploadFailed, "Media upload is not configured", services.ErrUploadNotConfigured)
	}
	url, err := u.Upload(ctx, file, folder)
	if stderrors.Is(err, services.ErrUploadNotConfigured) {
		return "", apperrors.NewAppError(apperrors.ErrCodeUploadFailed, "Media upload is not configured", err)
	}
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeUploadFailed, "Upload failed", err)
	}
	return url, nil
}

type UploadController struct {
	Uploader  services.Uploader
	Employees *services.EmployeeService
	Logger    logger.Logger
}

func NewUploadController(uploader services.Uploader, employees *services.EmployeeService, log logger.Logger) UploadController {
	return UploadController{Uploader: uploader, Employees: employees, Logger: log}
}

func uploadFolder(c *gin.Context) string {
	if c.Query("folder") == services.FolderAttendance {
		return services.FolderAttendance
	}
	return services.FolderAvatars
}

// UploadImage upload một file "file"
func (u UploadController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "No file", err))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Cannot open file")
		return
	}
	defer src.Close()

	url, err := upload(c.Request.Context(), u.Uploader, src, uploadFolder(c))
	if err != nil {
		logger.LogError(u.Logger, "upload", "UploadImage", "upload file", file.Filename, err)
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Upload successful", dto.UploadResponse{URL: url})
}

// UploadImages upload nhiều file "files"
func (u UploadController) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "No file", err))
		return
	}

	folder := uploadFolder(c)
	urls := make([]string, 0, len(form.File["files"]))
	for _, file := range form.File["files"] {
		src, err := file.Open()
		if err != nil {
			response.BadRequest(c, "Cannot open file "+file.Filename)
			return
		}
		url, err := upload(c.Request.Context(), u.Uploader, src, folder)
		src.Close()
		if err != nil {
			logger.LogError(u.Logger, "upload", "UploadImages", "upload file", file.Filename, err)
			response.AppError(c, err)
			return
		}
		urls = append(urls, url)
	}
	response.SuccessWithMessage(c, http.StatusOK, "Upload successful", dto.MultiUploadResponse{URLs: urls})
}

// UploadAvatar upload ảnh đại diện và lưu vào hồ sơ của người gọi
func (u UploadController) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.AppError(c, apperrors.NewAppError(apperrors.ErrCodeRequiredField, "No file", err))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.BadRequest(c, "Cannot open file")
		return
	}
	defer src.Close()

	url, err := upload(c.Request.Context(), u.Uploader, src, services.FolderAvatars)
	if err != nil {
		logger.LogError(u.Logger, "upload", "UploadAvatar", "upload avatar", file.Filename, err)
		response.AppError(c, err)
		return
	}
	employee, err := u.Employees.SetProfileImage(c.Request.Context(), middleware.CallerFrom(c), 0, url)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Avatar updated", employee)
}
