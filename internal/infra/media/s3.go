package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	MaxWidth    = 800
	webpQuality = 80
)

var ErrInvalidImage = errors.New("invalid_image")

// ObjectPutter é o pedaço do cliente S3 que usamos.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// ImageStore converte imagens para webp e publica no bucket.
type ImageStore struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

func NewImageStore(client ObjectPutter, bucket, publicBaseURL string) *ImageStore {
	return &ImageStore{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// NewS3Client aceita endpoint customizado (MinIO, R2) com path-style.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

// UploadServiceImage devolve a URL pública da imagem do serviço.
func (s *ImageStore) UploadServiceImage(
	ctx context.Context,
	tenantID uint,
	serviceID uint,
	r io.Reader,
) (string, error) {

	// 1️⃣ Decodifica (jpeg, png ou webp)
	img, _, err := image.Decode(r)
	if err != nil {
		return "", ErrInvalidImage
	}

	// 2️⃣ Reduz e converte
	var buf bytes.Buffer
	if err := webp.Encode(&buf, resize(img, MaxWidth), &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode webp: %w", err)
	}

	// 3️⃣ Publica
	key := fmt.Sprintf("tenants/%d/services/%d/%s.webp", tenantID, serviceID, uuid.NewString())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buf.Bytes()),
		ContentType:  aws.String("image/webp"),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.baseURL + "/" + key, nil
}

// resize mantém a proporção e nunca amplia.
func resize(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
