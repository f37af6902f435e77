package response

import (
	"github.com/lbonnet/formatrack-api/internal/domain"
)

type GenerateAttestationsResponse struct {
	Issued   int                   `json:"issued"`
	Outcomes []domain.IssueOutcome `json:"outcomes"`
}
