package minio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectURI(t *testing.T) {
	cases := []struct {
		uri    string
		bucket string
		object string
	}{
		{"s3://pet-videos/clips/walk.mp4", "pet-videos", "clips/walk.mp4"},
		{"minio://uploads/2026/04/10/clip.mp4", "uploads", "2026/04/10/clip.mp4"},
		{"pet-videos/clip.mp4", "pet-videos", "clip.mp4"}, // scheme optional
	}
	for _, c := range cases {
		bucket, object, err := ParseObjectURI(c.uri)
		require.NoError(t, err, c.uri)
		assert.Equal(t, c.bucket, bucket, c.uri)
		assert.Equal(t, c.object, object, c.uri)
	}
}

func TestParseObjectURIMalformed(t *testing.T) {
	for _, uri := range []string{"", "no-slash-anywhere", "s3://bucket-only", "s3:///missing-bucket"} {
		_, _, err := ParseObjectURI(uri)
		assert.ErrorIs(t, err, ErrBadObjectURI, uri)
	}
}
