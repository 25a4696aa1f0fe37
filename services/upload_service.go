package services

import (
	"context"
	"errors"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	FolderAttendance = "attendance"
	FolderAvatars    = "avatars"
)

// ErrUploadNotConfigured is returned when no media storage is set up.
var ErrUploadNotConfigured = errors.New("media upload not configured")

// Uploader lưu ảnh và trả về URL công khai
type Uploader interface {
	Upload(ctx context.Context, file interface{}, folder string) (string, error)
}

// CloudinaryUploader tải ảnh lên Cloudinary
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, file interface{}, folder string) (string, error) {
	if u == nil || u.cld == nil {
		return "", ErrUploadNotConfigured
	}
	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{Folder: folder})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil
}
