package assets

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/debemdeboas/folio/internal/config"
	"github.com/google/uuid"
)

// ObjectPutter is the part of the S3 client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads images to an S3-compatible bucket under "images/".
type S3Store struct {
	client    ObjectPutter
	bucket    string
	urlPrefix string
}

// NewS3Store connects to the bucket in c with static credentials. An empty
// c.Endpoint uses AWS itself.
func NewS3Store(ctx context.Context, c config.AssetsConfig, accessKeyID, secretAccessKey string) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, fmt.Errorf("s3 assets backend needs a bucket")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
		awsconfig.WithRegion(c.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("loading s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, c.Bucket, c.URLPrefix), nil
}

func NewS3StoreWithClient(client ObjectPutter, bucket, urlPrefix string) *S3Store {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &S3Store{client: client, bucket: bucket, urlPrefix: urlPrefix}
}

func (s *S3Store) Put(ctx context.Context, data []byte, ext, contentType string) (string, error) {
	key := "images/" + uuid.Must(uuid.NewV7()).String() + ext

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("putting %s: %w", key, err)
	}
	return s.urlPrefix + key, nil
}
