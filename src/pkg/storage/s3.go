/*
Package storage optionally archives a completed run directory (every file
directly under it, the reconciled receipt.json among them) to S3 for the audit trail
described in spec.md §7 ("present for user review"). Persistence is
strictly outside the core pipeline's contract — this is the surrounding
service's storage layer, and every function here is a no-op when no bucket
is configured.
*/
package storage

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"expense-tracker/src/pkg/config"
)

/*
ArchiveRunDirectory uploads every file directly under runDirPath to
s3://{config.Cfg.S3Bucket}/{prefix}/<filename>. When S3Bucket is empty,
archival is skipped entirely and nil is returned — most local/dev runs
never configure a bucket.
*/
func ArchiveRunDirectory(runDirPath string, prefix string) (e *xerr.Error) {
	if config.Cfg.S3Bucket == "" {
		tl.Log(tl.Info, palette.Purple, "%s", "No s3_bucket configured; skipping archival")
		return nil
	}

	sess, sessErr := session.NewSession(&aws.Config{
		Region: aws.String(config.Cfg.AWSRegion),
	})
	if sessErr != nil {
		return xerr.NewError(sessErr, "create AWS session for S3 archival", config.Cfg.AWSRegion)
	}

	client := s3.New(sess)

	entries, readErr := os.ReadDir(runDirPath)
	if readErr != nil {
		return xerr.NewError(readErr, "read run directory for archival", runDirPath)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		filePath := filepath.Join(runDirPath, entry.Name())
		fileBytes, fileErr := os.ReadFile(filePath)
		if fileErr != nil {
			return xerr.NewError(fileErr, "read file for S3 archival", filePath)
		}

		key := filepath.ToSlash(filepath.Join(prefix, entry.Name()))
		_, putErr := client.PutObject(&s3.PutObjectInput{
			Bucket: aws.String(config.Cfg.S3Bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(fileBytes),
		})
		if putErr != nil {
			return xerr.NewError(putErr, "upload file to S3", key)
		}

		tl.Log(tl.Info1, palette.Green, "Archived '%s' to s3://%s/%s", filePath, config.Cfg.S3Bucket, key)
	}

	return nil
}
