package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

func NewGCSClient(c *gin.Context) (*storage.Client, string, error) {
	GCSBucket := os.Getenv("GCS_BUCKET")
	credentialsPath := os.Getenv("CREDENTIALS_FILE_LOCATION")
	wd, err := os.Getwd()
	if err != nil {
		return nil, "", err
	}
	client, err := storage.NewClient(c, option.WithAuthCredentialsFile(option.ServiceAccount, filepath.Join(wd, credentialsPath)))

	if err != nil {
		return nil, "", err
	}
	return client, GCSBucket, err
}

// UploadComplaintPhotoToGCS stores a complaint photo under
// complaints/<title-slug>/<unix>-<uuid><ext> and returns its public URL.
func UploadComplaintPhotoToGCS(
	ctx context.Context,
	client *storage.Client,
	bucketName string,
	titleSlug string,
	fileHeader *multipart.FileHeader,
) (string, error) {

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = ".bin"
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	timestamp := time.Now().UTC().Unix()
	random := uuid.New().String()

	objectName := fmt.Sprintf(
		"complaints/%s/%d-%s%s",
		titleSlug,
		timestamp,
		random,
		ext,
	)

	obj := client.Bucket(bucketName).Object(objectName)
	writer := obj.NewWriter(ctx)

	ct := fileHeader.Header.Get("Content-Type")
	if ct == "" {
		ct = mime.TypeByExtension(ext)
		if ct == "" {
			ct = "application/octet-stream"
		}
	}
	writer.ContentType = ct
	writer.CacheControl = "no-cache"

	if _, err := io.Copy(writer, file); err != nil {
		_ = writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}

func ObjectNameFromGCSPublicURL(bucket string, raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	host := strings.ToLower(u.Host)
	path := strings.TrimPrefix(u.Path, "/")

	// style 1: storage.googleapis.com/<bucket>/<object>
	if host == "storage.googleapis.com" {
		prefix := bucket + "/"
		if !strings.HasPrefix(path, prefix) {
			return "", fmt.Errorf("url bucket mismatch")
		}
		return strings.TrimPrefix(path, prefix), nil
	}

	// style 2: <bucket>.storage.googleapis.com/<object>
	if host == strings.ToLower(bucket)+".storage.googleapis.com" {
		if path == "" {
			return "", fmt.Errorf("missing object path")
		}
		return path, nil
	}

	return "", fmt.Errorf("not a gcs public url")
}

func DeleteGCSObjects(ctx context.Context, client *storage.Client, bucket string, objectNames []string) error {
	var firstErr error

	for _, obj := range objectNames {
		if obj == "" {
			continue
		}
		err := client.Bucket(bucket).Object(obj).Delete(ctx)
		if err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete %s: %w", obj, err)
		}
	}

	return firstErr
}

type FileValidator struct {
	allowedExt  map[string]bool
	allowedMime map[string]bool
	maxSize     int64
}

func NewImageValidator() *FileValidator {
	allowedExt := make(map[string]bool)
	for _, ext := range strings.Split(os.Getenv("ALLOWED_FILE_EXTENSIONS"), ",") {
		if ext = strings.TrimSpace(strings.ToLower(ext)); ext != "" {
			allowedExt[ext] = true
		}
	}
	if len(allowedExt) == 0 {
		for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp"} {
			allowedExt[ext] = true
		}
	}

	allowedMime := make(map[string]bool)
	for _, m := range strings.Split(os.Getenv("ALLOWED_FILE_MIME_TYPES"), ",") {
		if m = strings.TrimSpace(strings.ToLower(m)); m != "" {
			allowedMime[m] = true
		}
	}
	if len(allowedMime) == 0 {
		for _, m := range []string{"image/jpeg", "image/png", "image/webp"} {
			allowedMime[m] = true
		}
	}

	sizeMB := 5
	if v := os.Getenv("MAX_UPLOAD_SIZE_MB"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			sizeMB = parsed
		}
	}

	return &FileValidator{
		allowedExt:  allowedExt,
		allowedMime: allowedMime,
		maxSize:     int64(sizeMB) << 20,
	}
}

func (v *FileValidator) ValidateFile(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > v.maxSize {
		return "", fmt.Errorf("file too large (max %d MB)", v.maxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !v.allowedExt[ext] {
		return "", fmt.Errorf("invalid file extension")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	if _, err = file.Read(buffer); err != nil {
		return "", fmt.Errorf("failed to read file header")
	}
	if _, err = file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("failed to reset file reader")
	}

	detectedMime := strings.ToLower(http.DetectContentType(buffer))
	if !v.allowedMime[detectedMime] {
		return "", fmt.Errorf("invalid file type")
	}

	return detectedMime, nil
}
