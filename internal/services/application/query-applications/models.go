// internal/services/application/query-applications/models.go
package queryapplications

import (
	"github.com/The-Young-Programer/Investor-Zteller/internal/common/validation"
	"github.com/The-Young-Programer/Investor-Zteller/internal/models"
)

const TaskType = "query-applications"

const (
	MsgEmailRequired      = "Email is required"
	MsgFetchStatusFailed  = "Failed to fetch application status"
	MsgFetchListFailed    = "Failed to fetch applications"
	MsgFetchOneFailed     = "Failed to fetch application"
	MsgUpdateFailed       = "Failed to update application"
	MsgInvalidStatus      = "Invalid status. Must be one of: pending, approved, rejected, under_review"
	MsgInvalidRequestBody = "Invalid request body"
)

type StatusResponse struct {
	Applications []models.StatusSummary `json:"applications"`
}

type StatusUpdate struct {
	Status models.ApplicationStatus `json:"status"`
}

var statusUpdateSchema = validation.MustSchema(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"required": ["status"],
	"properties": {
		"status": {
			"type": "string",
			"enum": ["pending", "approved", "rejected", "under_review"]
		}
	}
}`, map[string]string{
	"status": MsgInvalidStatus,
})
