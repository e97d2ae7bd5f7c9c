package models

import "strings"

// PointsPerCompletedRequest is awarded to the owner when a request first becomes completed.
const PointsPerCompletedRequest = 10

// CollectionStatus is the lifecycle state of a collection request.
type CollectionStatus string

const (
	StatusPending    CollectionStatus = "pending"
	StatusInProgress CollectionStatus = "in_progress"
	StatusCompleted  CollectionStatus = "completed"
	StatusCancelled  CollectionStatus = "cancelled"
)

// CollectionStatuses lists every accepted status in lifecycle order.
var CollectionStatuses = []CollectionStatus{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}

var statusAliases = map[string]CollectionStatus{
	"pending":     StatusPending,
	"pendiente":   StatusPending,
	"in_progress": StatusInProgress,
	"en_proceso":  StatusInProgress,
	"completed":   StatusCompleted,
	"completada":  StatusCompleted,
	"cancelled":   StatusCancelled,
	"cancelada":   StatusCancelled,
}

// ParseCollectionStatus maps an English or Spanish status name to its canonical value.
func ParseCollectionStatus(raw string) (CollectionStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	return status, ok
}

// CollectionRequest is a scheduled pickup of recyclables for a user.
type CollectionRequest struct {
	ID      int              `json:"id" gorm:"primaryKey;autoIncrement:false"`
	UserID  int              `json:"userId" gorm:"index;not null"`
	Address string           `json:"address" gorm:"type:varchar(255)"`
	Status  CollectionStatus `json:"status" gorm:"type:varchar(20);not null"`
}
