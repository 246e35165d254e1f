package tagtiles

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/paulmach/orb/maptile"
)

type s3Outputter struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Outputter uploads tiles to s3://{bucket}/{prefix}/{x}_{y}_{z}.png.
// The dsn is "bucket" or "bucket/prefix". Credentials and region come
// from the shared AWS config.
func NewS3Outputter(dsn string) (*s3Outputter, error) {
	bucket, prefix, _ := strings.Cut(strings.Trim(dsn, "/"), "/")
	if bucket == "" {
		return nil, fmt.Errorf("s3 dsn needs at least a bucket name")
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}

	return &s3Outputter{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
		prefix:   prefix,
	}, nil
}

func (o *s3Outputter) CreateTiles() error {
	return nil
}

func (o *s3Outputter) Save(tile maptile.Tile, data []byte) error {
	key := fmt.Sprintf("%d_%d_%d.png", tile.X, tile.Y, tile.Z)
	if o.prefix != "" {
		key = o.prefix + "/" + key
	}

	_, err := o.uploader.Upload(&s3manager.UploadInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return fmt.Errorf("uploading tile s3://%s/%s: %w", o.bucket, key, err)
	}
	return nil
}

func (o *s3Outputter) Close() error {
	return nil
}
