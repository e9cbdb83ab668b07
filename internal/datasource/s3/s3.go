// Package s3 implements a datasource backed by an S3 bucket prefix.
package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"sparkify/internal/datasource"
)

// Config holds the AWS settings used to build a session.
type Config struct {
	Region string
	// Key and Secret are optional static credentials. When empty the SDK's
	// default chain (env, shared config, instance role) applies.
	Key    string
	Secret string
}

// NewSession builds an AWS session from cfg.
func NewSession(cfg Config) (*session.Session, error) {
	awsCfg := &aws.Config{}
	if cfg.Region != "" {
		awsCfg.Region = aws.String(cfg.Region)
	}
	if cfg.Key != "" || cfg.Secret != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.Key, cfg.Secret, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("s3: new session: %w", err)
	}
	return sess, nil
}

// IsURL reports whether loc is an s3:// (or s3a://) location.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "s3://") || strings.HasPrefix(l, "s3a://")
}

// ParseURL splits s3://bucket/prefix into bucket and key prefix.
func ParseURL(loc string) (bucket, prefix string, err error) {
	u, err := url.Parse(loc)
	if err != nil {
		return "", "", fmt.Errorf("s3: parse %q: %w", loc, err)
	}
	if u.Scheme != "s3" && u.Scheme != "s3a" {
		return "", "", fmt.Errorf("s3: %q is not an s3:// URL", loc)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("s3: %q has no bucket", loc)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Source lists the JSON objects under a bucket prefix.
type Source struct {
	client s3iface.S3API
	bucket string
	prefix string
}

var _ datasource.Source = (*Source)(nil)

// NewSource returns a Source over s3://bucket/prefix using client.
func NewSource(client s3iface.S3API, bucket, prefix string) *Source {
	return &Source{client: client, bucket: bucket, prefix: prefix}
}

// Open builds a session from cfg and returns the Source for loc.
func Open(loc string, cfg Config) (*Source, error) {
	bucket, prefix, err := ParseURL(loc)
	if err != nil {
		return nil, err
	}
	sess, err := NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return NewSource(awss3.New(sess), bucket, prefix), nil
}

// Root implements datasource.Source.
func (s *Source) Root() string { return "s3://" + s.bucket + "/" + s.prefix }

// Files implements datasource.Source. Keys are returned in lexical order.
func (s *Source) Files(ctx context.Context) ([]datasource.File, error) {
	var out []datasource.File
	in := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	}
	err := s.client.ListObjectsV2PagesWithContext(ctx, in, func(page *awss3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if !strings.HasSuffix(strings.ToLower(key), ".json") {
				continue
			}
			out = append(out, &Object{client: s.client, bucket: s.bucket, key: key})
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("s3: list %s: %w", s.Root(), err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// Object is one S3 object.
type Object struct {
	client s3iface.S3API
	bucket string
	key    string
}

// Name implements datasource.File.
func (o *Object) Name() string { return "s3://" + o.bucket + "/" + o.key }

// Open implements datasource.File.
func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := o.client.GetObjectWithContext(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Name(), err)
	}
	return resp.Body, nil
}
