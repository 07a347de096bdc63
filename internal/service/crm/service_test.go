package crm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/prospect"
	"github.com/ignite/prospect-desk/internal/service/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prospectMap map[string]domain.Prospect

func (m prospectMap) Get(_ context.Context, id string) (*domain.Prospect, error) {
	p, ok := m[id]
	if !ok {
		return nil, prospect.ErrNotFound
	}
	return &p, nil
}

type sourceMap map[string]domain.Source

func (m sourceMap) Get(_ context.Context, id string) (*domain.Source, error) {
	s, ok := m[id]
	if !ok {
		return nil, source.ErrNotFound
	}
	return &s, nil
}

type recordingPusher struct {
	leads []Lead
	err   error
}

func (r *recordingPusher) PushLead(_ context.Context, l Lead) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.leads = append(r.leads, l)
	return "ld-42", nil
}

func strPtr(s string) *string { return &s }

func fixtures() (prospectMap, sourceMap) {
	now := time.Now()
	return prospectMap{
			"p1": {
				ID: "p1", SourceID: strPtr("s1"), CompanyName: "Acme", ContactName: "Jane Doe",
				Email: " Jane@Acme.com", NormalizedEmail: strPtr("jane@acme.com"),
				NormalizedDomain: strPtr("acme.com"), Tags: "saas, , priority ",
				Status: domain.StatusQualified,
			},
			"p2": {ID: "p2", SuppressedAt: &now},
			"p3": {ID: "p3", SourceID: strPtr("gone"), CompanyName: "Orphan"},
		}, sourceMap{
			"s1": {ID: "s1", Name: "Conference list"},
		}
}

func TestPush(t *testing.T) {
	ps, ss := fixtures()
	pusher := &recordingPusher{}
	svc := NewService(ps, ss, pusher)
	ctx := context.Background()

	id, err := svc.Push(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "ld-42", id)
	require.Len(t, pusher.leads, 1)

	l := pusher.leads[0]
	assert.Equal(t, "p1", l.ExternalID)
	assert.Equal(t, "jane@acme.com", l.Email)
	assert.Equal(t, "acme.com", l.Domain)
	assert.Equal(t, "Conference list", l.Source)
	assert.Equal(t, []string{"saas", "priority"}, l.Tags)
	assert.Equal(t, "qualified", l.Status)

	_, err = svc.Push(ctx, "p3")
	require.NoError(t, err, "a dangling source is not fatal")
	assert.Empty(t, pusher.leads[1].Source)
}

func TestPush_Errors(t *testing.T) {
	ps, ss := fixtures()
	ctx := context.Background()

	_, err := NewService(ps, ss, &recordingPusher{}).Push(ctx, "p2")
	assert.ErrorIs(t, err, ErrSuppressed)

	_, err = NewService(ps, ss, nil).Push(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewService(ps, ss, &recordingPusher{}).Push(ctx, "missing")
	assert.ErrorIs(t, err, prospect.ErrNotFound)

	upstream := fmt.Errorf("%w: status 500", ErrUpstream)
	_, err = NewService(ps, ss, &recordingPusher{err: upstream}).Push(ctx, "p1")
	assert.ErrorIs(t, err, ErrUpstream)
}
