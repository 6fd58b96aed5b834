package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gigmarket/gigmarket/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

var ErrObjectNotFound = errors.New("object not found")

type S3Deps struct {
	Client        *s3.Client
	Presigner     *s3.PresignClient
	Uploader      *manager.Uploader
	Bucket        string
	Prefix        string
	PublicBaseURL string
	PresignExpire time.Duration
}

// UploadedMeta describes an object after a server-side upload.
type UploadedMeta struct {
	Bucket string
	Key    string
	ETag   string
	MIME   string
	SizeB  int64
}

// ObjectInfo is the subset of HeadObject the marketplace needs.
type ObjectInfo struct {
	Key         string
	ContentType string
	SizeB       int64
	ETag        string
}

func NewS3(ctx context.Context, cfg *config.Config) (*S3Deps, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKey != "" && cfg.S3.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKey, cfg.S3.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&awsCfg.APIOptions)

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3.UsePathStyle
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
		}
	})

	expire := time.Duration(cfg.S3.PresignExpireSec) * time.Second
	if expire <= 0 {
		expire = 15 * time.Minute
	}

	return &S3Deps{
		Client:        client,
		Presigner:     s3.NewPresignClient(client),
		Uploader:      manager.NewUploader(client),
		Bucket:        cfg.S3.Bucket,
		Prefix:        strings.Trim(cfg.S3.MediaPrefix, "/"),
		PublicBaseURL: strings.TrimRight(cfg.S3.PublicBaseURL, "/"),
		PresignExpire: expire,
	}, nil
}

// Key maps a storage id to its object key.
func (u *S3Deps) Key(storageID string) string {
	if u.Prefix == "" {
		return storageID
	}
	return u.Prefix + "/" + storageID
}

// PresignPut returns a URL a client can PUT the object body to directly.
func (u *S3Deps) PresignPut(ctx context.Context, storageID string) (string, time.Time, error) {
	req, err := u.Presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(u.Key(storageID)),
	}, s3.WithPresignExpires(u.PresignExpire))
	if err != nil {
		return "", time.Time{}, err
	}
	return req.URL, time.Now().Add(u.PresignExpire), nil
}

func (u *S3Deps) PresignGet(ctx context.Context, storageID string, expire time.Duration) (string, error) {
	if expire <= 0 {
		expire = u.PresignExpire
	}
	req, err := u.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(u.Key(storageID)),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// ObjectURL is the public URL when a public base is configured, else a presigned GET.
func (u *S3Deps) ObjectURL(ctx context.Context, storageID string) (string, error) {
	if u.PublicBaseURL != "" {
		return u.PublicBaseURL + "/" + u.Key(storageID), nil
	}
	return u.PresignGet(ctx, storageID, 0)
}

func (u *S3Deps) Upload(ctx context.Context, storageID string, body io.Reader, contentType string) (*UploadedMeta, error) {
	counter := &countingReader{r: body}
	key := u.Key(storageID)
	out, err := u.Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.Bucket),
		Key:         aws.String(key),
		Body:        counter,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, err
	}
	return &UploadedMeta{
		Bucket: u.Bucket,
		Key:    key,
		ETag:   strings.Trim(aws.ToString(out.ETag), `"`),
		MIME:   contentType,
		SizeB:  counter.n,
	}, nil
}

// Stat returns ErrObjectNotFound when nothing was uploaded under storageID.
func (u *S3Deps) Stat(ctx context.Context, storageID string) (*ObjectInfo, error) {
	key := u.Key(storageID)
	out, err := u.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		var nsk *types.NoSuchKey
		if errors.As(err, &nf) || errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return &ObjectInfo{
		Key:         key,
		ContentType: aws.ToString(out.ContentType),
		SizeB:       aws.ToInt64(out.ContentLength),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
	}, nil
}

func (u *S3Deps) DeleteObject(ctx context.Context, storageID string) error {
	_, err := u.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.Bucket),
		Key:    aws.String(u.Key(storageID)),
	})
	return err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
