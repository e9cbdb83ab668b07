package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves ListObjectsV2 in two pages and GetObject from a map.
type fakeS3 struct {
	s3iface.S3API
	objects map[string]string
	pages   [][]string
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *awss3.ListObjectsV2Input, fn func(*awss3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	for i, keys := range f.pages {
		page := &awss3.ListObjectsV2Output{}
		for _, k := range keys {
			if strings.HasPrefix(k, aws.StringValue(in.Prefix)) {
				page.Contents = append(page.Contents, &awss3.Object{Key: aws.String(k)})
			}
		}
		if !fn(page, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *awss3.GetObjectInput, _ ...request.Option) (*awss3.GetObjectOutput, error) {
	body, ok := f.objects[aws.StringValue(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestParseURL(t *testing.T) {
	t.Parallel()

	b, p, err := ParseURL("s3://udacity-dend/song_data")
	require.NoError(t, err)
	assert.Equal(t, "udacity-dend", b)
	assert.Equal(t, "song_data", p)

	b, p, err = ParseURL("s3a://bucket/")
	require.NoError(t, err)
	assert.Equal(t, "bucket", b)
	assert.Equal(t, "", p)

	_, _, err = ParseURL("https://bucket/x")
	assert.Error(t, err)
	_, _, err = ParseURL("s3:///x")
	assert.Error(t, err)

	assert.True(t, IsURL("S3://b/k"))
	assert.False(t, IsURL("/data/song_data"))
}

func TestSourceFiles_FiltersAndSorts(t *testing.T) {
	t.Parallel()

	fake := &fakeS3{
		pages: [][]string{
			{"log_data/2018/11/2018-11-02-events.json", "log_data/readme.md"},
			{"log_data/2018/11/2018-11-01-events.json", "song_data/A/x.json"},
		},
		objects: map[string]string{
			"log_data/2018/11/2018-11-01-events.json": `{"page":"Home","ts":1}`,
		},
	}
	src := NewSource(fake, "udacity-dend", "log_data")
	assert.Equal(t, "s3://udacity-dend/log_data", src.Root())

	files, err := src.Files(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "s3://udacity-dend/log_data/2018/11/2018-11-01-events.json", files[0].Name())
	assert.Equal(t, "s3://udacity-dend/log_data/2018/11/2018-11-02-events.json", files[1].Name())

	rc, err := files[0].Open(context.Background())
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, `{"page":"Home","ts":1}`, string(b))

	_, err = files[1].Open(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2018-11-02-events.json")
}
