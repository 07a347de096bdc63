package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/prospect"
	"github.com/ignite/prospect-desk/internal/service/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

type fakeProspects struct {
	rows    []domain.Prospect
	filters []prospect.ListFilter
}

func (f *fakeProspects) List(_ context.Context, filter prospect.ListFilter) ([]domain.Prospect, error) {
	f.filters = append(f.filters, filter)
	if filter.Offset >= len(f.rows) {
		return nil, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[filter.Offset:end], nil
}

type fakeSources map[string]*domain.Source

func (f fakeSources) Get(_ context.Context, id string) (*domain.Source, error) {
	if s, ok := f[id]; ok {
		return s, nil
	}
	return nil, source.ErrNotFound
}

func fixtures(n int) []domain.Prospect {
	gofakeit.Seed(7)
	out := make([]domain.Prospect, n)
	for i := range out {
		d := gofakeit.DomainName()
		out[i] = domain.Prospect{
			ID:               fmt.Sprintf("p-%d", i),
			CompanyName:      gofakeit.Company(),
			ContactName:      gofakeit.Name(),
			Email:            gofakeit.Email(),
			NormalizedDomain: &d,
			Status:           domain.StatusUncontacted,
			Origin:           domain.OriginPurchased,
			CreatedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
	}
	return out
}

func TestExportSource(t *testing.T) {
	s3c := &fakeS3{}
	ps := &fakeProspects{rows: fixtures(pageSize + 3)}
	srcs := fakeSources{"s1": {ID: "s1", Name: "Q3 Fintech List!"}}

	e := NewExporter(s3c, "bucket-a", "exports", ps, srcs)
	e.now = func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) }

	res, err := e.ExportSource(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, "bucket-a", res.Bucket)
	assert.Equal(t, "exports/sources/s1/q3-fintech-list-20261019T080000Z.csv", res.Key)
	assert.Equal(t, pageSize+3, res.Rows)
	assert.Equal(t, "text/csv", *s3c.in.ContentType)

	require.Len(t, ps.filters, 2)
	for _, f := range ps.filters {
		assert.Equal(t, "s1", f.SourceID)
		assert.False(t, f.Archived)
		assert.False(t, f.Suppressed)
	}

	records, err := csv.NewReader(bytes.NewReader(s3c.body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, pageSize+4)
	assert.Equal(t, header, records[0])
	assert.Equal(t, "p-0", records[1][0])
	assert.Equal(t, "2026-01-02T03:04:05Z", records[1][12])
	assert.Equal(t, "", records[1][13])
}

func TestExportSource_Errors(t *testing.T) {
	var nilExporter *Exporter
	_, err := nilExporter.ExportSource(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	e := NewExporter(&fakeS3{}, "", "", &fakeProspects{}, fakeSources{})
	_, err = e.ExportSource(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	e = NewExporter(&fakeS3{}, "b", "", &fakeProspects{}, fakeSources{})
	_, err = e.ExportSource(context.Background(), "missing")
	assert.ErrorIs(t, err, source.ErrNotFound)

	e = NewExporter(&fakeS3{err: errors.New("access denied")}, "b", "", &fakeProspects{}, fakeSources{"s1": {ID: "s1", Name: "x"}})
	_, err = e.ExportSource(context.Background(), "s1")
	assert.ErrorContains(t, err, "access denied")
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "acme-co", slug("  Acme & Co. "))
	assert.Equal(t, "source", slug("!!!"))
}

