package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureAndRemoveTrailingSlash(t *testing.T) {
	assert.Equal(t, "s3://bucket/key/", EnsureTrailingSlash("s3://bucket/key"))
	assert.Equal(t, "s3://bucket/key/", EnsureTrailingSlash("s3://bucket/key/"))
	assert.Equal(t, "s3://bucket/key", RemoveTrailingSlash("s3://bucket/key/"))
	assert.Equal(t, "s3://bucket/key", RemoveTrailingSlash("s3://bucket/key"))
}

func TestEnsureRemoveRoundTripIsIdentityWhenOriginallyTrailing(t *testing.T) {
	original := "s3://bucket/key/"
	assert.Equal(t, original, EnsureTrailingSlash(RemoveTrailingSlash(original)))
}

func TestSplitS3(t *testing.T) {
	cases := []struct {
		uri            string
		bucket, key    string
	}{
		{"s3://my-bucket/a/b/c", "my-bucket", "a/b/c"},
		{"my-bucket/a/b/c", "my-bucket", "a/b/c"},
		{"s3://my-bucket", "my-bucket", ""},
		{"my-bucket", "my-bucket", ""},
		{"s3://my-bucket/", "my-bucket", ""},
	}
	for _, tc := range cases {
		bucket, key := SplitS3(tc.uri)
		assert.Equal(t, tc.bucket, bucket, tc.uri)
		assert.Equal(t, tc.key, key, tc.uri)
	}
}

func TestUnderscore(t *testing.T) {
	cases := map[string]string{
		"eventLog":       "event_log",
		"HTTPResponse":   "http_response",
		"user-events":    "user_events",
		"already_snake":  "already_snake",
		"ABC":            "abc",
		"SimpleXMLParse": "simple_xml_parse",
	}
	for in, want := range cases {
		assert.Equal(t, want, Underscore(in), in)
	}
}

func TestUnderscoreIsIdempotent(t *testing.T) {
	inputs := []string{"eventLog", "HTTPResponse", "user-events", "plain", "ABC-def"}
	for _, in := range inputs {
		once := Underscore(in)
		twice := Underscore(once)
		assert.Equal(t, once, twice, in)
	}
}

func TestChunks(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	var got [][]int
	for chunk := range Chunks(items, 3) {
		cp := append([]int(nil), chunk...)
		got = append(got, cp)
	}
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, got[0])
	assert.Equal(t, []int{4, 5, 6}, got[1])
	assert.Equal(t, []int{7}, got[2])
}

func TestChunksEmpty(t *testing.T) {
	var items []int
	count := 0
	for range Chunks(items, 3) {
		count++
	}
	assert.Equal(t, 0, count)
}

func TestChunksStopsEarly(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6}
	seen := 0
	for range Chunks(items, 2) {
		seen++
		if seen == 1 {
			break
		}
	}
	assert.Equal(t, 1, seen)
}
