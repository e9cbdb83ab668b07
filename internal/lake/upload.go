package lake

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"go.uber.org/zap"

	"sparkify/internal/datasource/s3"
	"sparkify/internal/schema"
)

// deleteBatch is the DeleteObjects limit.
const deleteBatch = 1000

// Uploader copies a local output tree to an S3 prefix.
type Uploader struct {
	Client   s3iface.S3API
	Uploader s3manageriface.UploaderAPI
	Logger   *zap.Logger
}

// NewUploader builds an Uploader from an AWS session config.
func NewUploader(cfg s3.Config, logger *zap.Logger) (*Uploader, error) {
	sess, err := s3.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	client := awss3.New(sess)
	return &Uploader{
		Client:   client,
		Uploader: s3manager.NewUploaderWithClient(client),
		Logger:   logger,
	}, nil
}

// Sync replaces every table directory under dest (an s3:// URL) with the
// matching directory of localRoot.
func (u *Uploader) Sync(ctx context.Context, localRoot, dest string) error {
	log := u.Logger
	if log == nil {
		log = zap.NewNop()
	}
	bucket, prefix, err := s3.ParseURL(dest)
	if err != nil {
		return err
	}
	prefix = strings.TrimSuffix(prefix, "/")

	for _, t := range schema.StarTables() {
		tablePrefix := path.Join(prefix, t.Name) + "/"
		n, err := u.deletePrefix(ctx, bucket, tablePrefix)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("cleared table prefix", zap.String("table", t.Name), zap.Int("objects", n))
		}
	}

	return filepath.WalkDir(localRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(localRoot, p)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))
		if err := u.uploadFile(ctx, p, bucket, key); err != nil {
			return err
		}
		log.Debug("uploaded", zap.String("key", key))
		return nil
	})
}

func (u *Uploader) uploadFile(ctx context.Context, p, bucket, key string) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = u.Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("lake: upload s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// deletePrefix removes every object under prefix and returns the count.
func (u *Uploader) deletePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	var keys []string
	err := u.Client.ListObjectsV2PagesWithContext(ctx, &awss3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *awss3.ListObjectsV2Output, _ bool) bool {
		for _, o := range page.Contents {
			keys = append(keys, aws.StringValue(o.Key))
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("lake: list s3://%s/%s: %w", bucket, prefix, err)
	}

	for start := 0; start < len(keys); start += deleteBatch {
		end := min(start+deleteBatch, len(keys))
		ids := make([]*awss3.ObjectIdentifier, 0, end-start)
		for _, k := range keys[start:end] {
			ids = append(ids, &awss3.ObjectIdentifier{Key: aws.String(k)})
		}
		out, err := u.Client.DeleteObjectsWithContext(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &awss3.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return 0, fmt.Errorf("lake: delete under s3://%s/%s: %w", bucket, prefix, err)
		}
		if len(out.Errors) > 0 {
			e := out.Errors[0]
			return 0, fmt.Errorf("lake: delete s3://%s/%s: %s", bucket, aws.StringValue(e.Key), aws.StringValue(e.Message))
		}
	}
	return len(keys), nil
}
