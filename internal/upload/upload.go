// Package upload stores user images in an S3-compatible bucket.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxFileSize is the upload size cap (5MB).
const MaxFileSize = 5 * 1024 * 1024

// allowedImageTypes is the image MIME allowlist.
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Kind distinguishes the key namespaces for uploaded images.
type Kind string

const (
	KindProfile Kind = "profile"
	KindProduct Kind = "product"
)

// s3Client is an interface over the S3 operations we use, for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Config holds S3-compatible storage configuration.
type Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// Result describes a stored image.
type Result struct {
	URL string
	Key string
}

// Uploader validates and stores images.
type Uploader struct {
	client s3Client
	cfg    Config
}

// New builds an Uploader against the configured bucket.
func New(cfg Config) *Uploader {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.Endpoint),
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	})
	return &Uploader{client: client, cfg: cfg}
}

// Configured reports whether storage credentials are present.
func (u *Uploader) Configured() bool {
	return u.cfg.Endpoint != "" && u.cfg.AccessKey != ""
}

// Validate checks the size cap and MIME allowlist. Returns a user-facing
// message when invalid, empty string when valid.
func Validate(size int64, contentType string) string {
	if size <= 0 {
		return "No file provided"
	}
	if size > MaxFileSize {
		return "File size too large. Maximum 5MB allowed."
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "Invalid file type. Only JPEG, PNG, WebP, and GIF images are allowed."
	}
	return ""
}

// ObjectKey builds a collision-free key namespaced by kind and user.
func ObjectKey(kind Kind, userID int64, contentType string) string {
	ext := allowedImageTypes[contentType]
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%d/%s.%s", kind, userID, uuid.NewString(), ext)
}

// Store uploads validated image bytes and returns the public URL and key.
func (u *Uploader) Store(ctx context.Context, kind Kind, userID int64, contentType string, data []byte) (*Result, error) {
	if msg := Validate(int64(len(data)), contentType); msg != "" {
		return nil, fmt.Errorf("%s", msg)
	}

	key := ObjectKey(kind, userID, contentType)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.cfg.Bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}

	return &Result{URL: u.PublicURL(key), Key: key}, nil
}

// Delete removes an object by key. Deleting an absent key is not an error.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// PublicURL derives the browser-facing URL for a stored key.
func (u *Uploader) PublicURL(key string) string {
	base := strings.TrimSuffix(u.cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimSuffix(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket
	}
	return base + "/" + key
}

// KeyFromURL extracts the object key from a public URL, for cleanup when an
// image is replaced. Returns empty string when the URL is not ours.
func (u *Uploader) KeyFromURL(rawURL string) string {
	base := strings.TrimSuffix(u.cfg.PublicURL, "/")
	if base != "" && strings.HasPrefix(rawURL, base+"/") {
		return strings.TrimPrefix(rawURL, base+"/")
	}
	// Fall back to the kind/userID/file shape.
	parts := strings.Split(rawURL, "/")
	if len(parts) >= 3 {
		tail := parts[len(parts)-3:]
		if (tail[0] == string(KindProfile) || tail[0] == string(KindProduct)) && path.Ext(tail[2]) != "" {
			return strings.Join(tail, "/")
		}
	}
	return ""
}
