// Package export writes CSV snapshots of a source's prospects to S3.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
	"github.com/ignite/prospect-desk/internal/service/prospect"
)

// ErrNotConfigured is returned when no bucket is configured.
var ErrNotConfigured = errors.New("export bucket is not configured")

const pageSize = 500

// PutObjectAPI is the slice of the S3 client the exporter needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Prospects lists prospects.
type Prospects interface {
	List(ctx context.Context, f prospect.ListFilter) ([]domain.Prospect, error)
}

// Sources resolves a source by id.
type Sources interface {
	Get(ctx context.Context, id string) (*domain.Source, error)
}

// Result describes an uploaded export.
type Result struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Rows   int    `json:"rows"`
}

// Exporter uploads CSV exports.
type Exporter struct {
	client    PutObjectAPI
	bucket    string
	prefix    string
	prospects Prospects
	sources   Sources
	now       func() time.Time
}

// NewExporter creates an exporter writing under prefix in bucket.
func NewExporter(client PutObjectAPI, bucket, prefix string, prospects Prospects, sources Sources) *Exporter {
	return &Exporter{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		prospects: prospects,
		sources:   sources,
		now:       time.Now,
	}
}

// NewS3Client loads AWS configuration for region, optionally from a named
// shared profile.
func NewS3Client(ctx context.Context, region, profile string) (*s3.Client, error) {
	var cfg aws.Config
	var err error

	if profile != "" {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(profile),
		)
	} else {
		cfg, err = awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

var header = []string{
	"id", "company_name", "contact_name", "role", "email", "phone", "website",
	"domain", "tags", "owner_name", "status", "origin", "created_at", "last_contacted_at",
}

// ExportSource writes every visible prospect of a source as CSV. Archived
// and suppressed prospects are left out.
func (e *Exporter) ExportSource(ctx context.Context, sourceID string) (*Result, error) {
	if e == nil || e.client == nil || e.bucket == "" {
		return nil, ErrNotConfigured
	}
	src, err := e.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}

	rows := 0
	for offset := 0; ; offset += pageSize {
		page, err := e.prospects.List(ctx, prospect.ListFilter{SourceID: sourceID, Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list prospects: %w", err)
		}
		for i := range page {
			if err := w.Write(record(&page[i])); err != nil {
				return nil, err
			}
			rows++
		}
		if len(page) < pageSize {
			break
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	key := e.key(src)
	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return nil, fmt.Errorf("putting object to S3: %w", err)
	}

	logger.Info("source exported", "source_id", sourceID, "key", key, "rows", rows)
	return &Result{Bucket: e.bucket, Key: key, Rows: rows}, nil
}

func (e *Exporter) key(src *domain.Source) string {
	prefix := e.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%ssources/%s/%s-%s.csv", prefix, src.ID, slug(src.Name), e.now().UTC().Format("20060102T150405Z"))
}

func record(p *domain.Prospect) []string {
	var dom, contacted string
	if p.NormalizedDomain != nil {
		dom = *p.NormalizedDomain
	}
	if p.LastContactedAt != nil {
		contacted = p.LastContactedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		p.ID, p.CompanyName, p.ContactName, p.Role, p.Email, p.Phone, p.Website,
		dom, p.Tags, p.OwnerName, string(p.Status), p.Origin,
		p.CreatedAt.UTC().Format(time.RFC3339), contacted,
	}
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return "source"
	}
	return out
}
