package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadTTL = 15 * time.Minute

// Authorization is a scoped, time-limited grant to upload one object
// directly to storage. The client PUTs to SignedURL and reports the
// resulting public URL back; the catalog only ever sees that URL.
type Authorization struct {
	Path      string `json:"path"`
	Token     string `json:"token"`
	SignedURL string `json:"signed_url"`
}

type Presigner struct {
	bucket  string
	presign *s3.PresignClient
}

func NewPresigner(ctx context.Context, bucket string) (*Presigner, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &Presigner{bucket: bucket, presign: s3.NewPresignClient(client)}, nil
}

func (p *Presigner) AuthorizeUpload(ctx context.Context) (*Authorization, error) {
	key := fmt.Sprintf("products/%s", uuid.NewString())

	req, err := p.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(uploadTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}

	return &Authorization{
		Path:      key,
		Token:     uuid.NewString(),
		SignedURL: req.URL,
	}, nil
}
