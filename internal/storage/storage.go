package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage persists uploaded audio. SaveFile returns the stored filename
// (relative to the library root for local storage, a CDN URL for Spaces),
// which is what schedules reference.
type Storage interface {
	SaveFile(fileHeader *multipart.FileHeader, folder, filename string) (string, error)
}

type LocalStorage struct {
	uploadDir string
}

type SpacesStorage struct {
	client   *s3.S3
	bucket   string
	cdnURL   string
	endpoint string
}

func NewLocalStorage(uploadDir string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir}
}

func NewSpacesStorage(endpoint, region, bucket, cdnURL, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client:   s3.New(sess),
		bucket:   bucket,
		cdnURL:   cdnURL,
		endpoint: endpoint,
	}, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// normalizeFilename strips characters that would be awkward in URLs or shell
// use. Unlike generic upload handling, the name is kept stable so re-uploading
// an announcement replaces it and existing schedules keep working.
func normalizeFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	baseName := strings.TrimSuffix(originalFilename, filepath.Ext(originalFilename))

	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = unsafeChars.ReplaceAllString(baseName, "")
	if baseName == "" {
		baseName = "audio"
	}
	return baseName + ext
}

func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, folder, filename string) (string, error) {
	normalized := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", normalized).Msg("file upload normalized")

	dir := ls.uploadDir
	rel := normalized
	if folder != "" {
		safe := filepath.Base(filepath.Clean(folder))
		dir = filepath.Join(ls.uploadDir, safe)
		rel = filepath.Join(safe, normalized)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, normalized))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return rel, nil
}

func (ss *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, folder, filename string) (string, error) {
	normalized := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", normalized).Msg("file upload normalized")

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	key := "uploads/" + normalized
	if folder != "" {
		key = fmt.Sprintf("uploads/%s/%s", filepath.Base(filepath.Clean(folder)), normalized)
	}

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(audioContentType(normalized)),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to upload file to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	cdnURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(ss.cdnURL, "/"), key)
	return cdnURL, nil
}

func audioContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	case ".ogg":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".m4a":
		return "audio/mp4"
	case ".aac":
		return "audio/aac"
	default:
		return "application/octet-stream"
	}
}
