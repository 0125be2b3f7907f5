package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectPutter is the subset of *s3.Client the archiver uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver stores the rendered summary of every new order as a text
// object at <prefix><restaurantID>/<orderID>.txt.
type S3Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver loads the default AWS configuration for region and creates
// an archiver writing into bucket.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (*S3Archiver, error) {
	logger = logger.With().Str("component", "s3-summary-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 archiver initialised")

	return NewS3ArchiverWithClient(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

// NewS3ArchiverWithClient creates an archiver over an existing client.
func NewS3ArchiverWithClient(client ObjectPutter, bucket, prefix string, logger zerolog.Logger) *S3Archiver {
	return &S3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// SummaryKey returns the object key for an order summary.
func (a *S3Archiver) SummaryKey(restaurantID, orderID int64) string {
	return fmt.Sprintf("%s%d/%d.txt", a.prefix, restaurantID, orderID)
}

// NotifyNewOrder uploads the order summary.
func (a *S3Archiver) NotifyNewOrder(ctx context.Context, event NewOrderEvent) error {
	key := a.SummaryKey(event.RestaurantID, event.OrderID)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(event.Summary),
		ContentType: aws.String("text/plain; charset=utf-8"),
		Metadata: map[string]string{
			"order-code": event.OrderCode,
			"action":     string(event.Action),
		},
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to put order summary to S3")
		return fmt.Errorf("failed to put order summary to S3 (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Debug().
		Str("bucket", a.bucket).
		Str("key", key).
		Msg("order summary archived")

	return nil
}

// NotifyStatusChanged is a no-op; only summaries are archived.
func (a *S3Archiver) NotifyStatusChanged(context.Context, StatusChangedEvent) error {
	return nil
}
