package domain

import (
	"time"
)

// CampaignStatus enumerates the lifecycle states of an outreach campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

// Campaign is an outreach push aimed at the prospects of one source.
type Campaign struct {
	ID          string         `json:"id" db:"id"`
	SourceID    *string        `json:"sourceId" db:"source_id"`
	Name        string         `json:"name" db:"name"`
	Objective   string         `json:"objective" db:"objective"`
	Audience    string         `json:"audience" db:"audience"`
	Channel     string         `json:"channel" db:"channel"`
	Tone        string         `json:"tone" db:"tone"`
	Description string         `json:"description" db:"description"`
	Status      CampaignStatus `json:"status" db:"status"`
	StartsAt    *time.Time     `json:"startsAt" db:"starts_at"`
	EndsAt      *time.Time     `json:"endsAt" db:"ends_at"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// PostStatus is the publishing state of a social post.
type PostStatus string

const (
	PostStatusDraft PostStatus = "draft"
	PostScheduled   PostStatus = "scheduled"
	PostPublished   PostStatus = "published"
)

// Valid reports whether s is a known post status.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostScheduled, PostPublished:
		return true
	}
	return false
}

// SocialPost is a piece of social media copy tied to a campaign.
type SocialPost struct {
	ID          string     `json:"id" db:"id"`
	CampaignID  string     `json:"campaignId" db:"campaign_id"`
	Platform    string     `json:"platform" db:"platform"`
	Content     string     `json:"content" db:"content"`
	Status      PostStatus `json:"status" db:"status"`
	ScheduledAt *time.Time `json:"scheduledAt" db:"scheduled_at"`
	PublishedAt *time.Time `json:"publishedAt" db:"published_at"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// PostDraft is a suggested social post that has not been saved.
type PostDraft struct {
	Platform string   `json:"platform"`
	Hook     string   `json:"hook"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}
