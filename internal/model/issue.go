package model

import "time"

type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
)

type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in_progress"
	IssueResolved   IssueStatus = "resolved"
)

// Issue is a problem report raised by a user, optionally against a server.
type Issue struct {
	ID          int           `json:"id"`
	AccountID   int           `json:"accountId"`
	UserID      string        `json:"userID"`
	ServerID    *int          `json:"serverId"`
	ServerName  *string       `json:"serverName"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    IssuePriority `json:"priority"`
	Status      IssueStatus   `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// CreateIssueRequest is the payload for raising an issue.
type CreateIssueRequest struct {
	Title       string        `json:"title" binding:"required,max=200"`
	Description string        `json:"description" binding:"required,max=4000"`
	Priority    IssuePriority `json:"priority" binding:"required,oneof=low medium high"`
	ServerID    *int          `json:"serverId" binding:"omitempty,min=1"`
}

// UpdateIssueStatus is the payload for moving an issue along.
type UpdateIssueStatus struct {
	Status IssueStatus `json:"status" binding:"required,oneof=open in_progress resolved"`
}
