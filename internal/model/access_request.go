package model

import "time"

// RequestStatus is a state of the access request lifecycle.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Valid reports whether s is a known lifecycle state.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// AccessRequest is a user-submitted request tracked through approval.
type AccessRequest struct {
	ID            int           `json:"id"`
	AccountID     int           `json:"accountId"`
	UserID        string        `json:"userID"`
	RequesterName string        `json:"requesterName"`
	ServerID      *int          `json:"serverId"`
	ServerName    *string       `json:"serverName"`
	Type          string        `json:"type"`
	Description   string        `json:"description"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RequestFilter narrows access request listings. OwnerID is set from the
// caller's identity, never from client input.
type RequestFilter struct {
	OwnerID *int
	Status  RequestStatus
}

// CreateAccessRequest is the payload for submitting a request.
type CreateAccessRequest struct {
	Type        string `json:"type" binding:"required,max=50"`
	Description string `json:"description" binding:"required,max=2000"`
	ServerID    *int   `json:"serverId" binding:"omitempty,min=1"`
}

// UpdateRequestStatus is the payload for an admin decision. The value set is
// checked by the lifecycle, not the binder, so that out-of-set values map to
// INVALID_STATUS.
type UpdateRequestStatus struct {
	Status RequestStatus `json:"status" binding:"required"`
}

// RequestEvent is published whenever a request changes state.
type RequestEvent struct {
	RequestID int           `json:"requestId"`
	AccountID int           `json:"accountId"`
	From      RequestStatus `json:"from"`
	To        RequestStatus `json:"to"`
	ChangedBy string        `json:"changedBy"`
	ChangedAt time.Time     `json:"changedAt"`
}

// ListRequestsQuery holds the query string of a request listing. Status is
// checked against the lifecycle by the service.
type ListRequestsQuery struct {
	PageQuery
	Status RequestStatus `form:"status"`
}
