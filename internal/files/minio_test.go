package files_test

import (
	"testing"

	"github.com/blackwell-systems/papershelf/internal/files"
)

func TestParseS3Target(t *testing.T) {
	cases := []struct {
		in             string
		bucket, prefix string
		wantErr        bool
	}{
		{"s3://papers", "papers", "", false},
		{"s3://papers/library/", "papers", "library", false},
		{"s3://papers/a/b", "papers", "a/b", false},
		{"s3://", "", "", true},
		{"/home/me/Dropbox", "", "", true},
	}
	for _, c := range cases {
		bucket, prefix, err := files.ParseS3Target(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseS3Target(%q) err = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if bucket != c.bucket || prefix != c.prefix {
			t.Errorf("ParseS3Target(%q) = (%q, %q), want (%q, %q)", c.in, bucket, prefix, c.bucket, c.prefix)
		}
	}
}

func TestIsS3Target(t *testing.T) {
	if !files.IsS3Target("s3://b/p") {
		t.Error("s3://b/p should be an S3 target")
	}
	if files.IsS3Target("/mnt/s3://x") {
		t.Error("plain path should not be an S3 target")
	}
}
