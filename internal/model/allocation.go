package model

import "time"

// Allocation grants an account a slice of a server's resources for a period.
type Allocation struct {
	ID              int        `json:"id"`
	AccountID       int        `json:"accountId"`
	UserID          string     `json:"userID"`
	ServerID        int        `json:"serverId"`
	ServerName      string     `json:"serverName"`
	CPUCores        int        `json:"cpuCores"`
	MemoryGB        int        `json:"memoryGb"`
	StorageGB       int        `json:"storageGb"`
	AllocationStart time.Time  `json:"allocationStart"`
	AllocationEnd   *time.Time `json:"allocationEnd"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CreateAllocationRequest is the payload for an admin granting resources.
type CreateAllocationRequest struct {
	UserID          string     `json:"userID" binding:"required"`
	ServerID        int        `json:"serverId" binding:"required,min=1"`
	CPUCores        int        `json:"cpuCores" binding:"min=0,max=1024"`
	MemoryGB        int        `json:"memoryGb" binding:"min=0,max=65536"`
	StorageGB       int        `json:"storageGb" binding:"min=0"`
	AllocationStart time.Time  `json:"allocationStart" binding:"required"`
	AllocationEnd   *time.Time `json:"allocationEnd"`
}
