// internal/domain/agent/dto.go
package agent

import (
	"activity-booking-service/internal/domain/people"
	"activity-booking-service/internal/pkg/pagination"
)

type CreateAgentRequest struct {
	people.ProfileInput
}

type UpdateAgentRequest struct {
	people.ProfilePatch
}

type AgentListQuery struct {
	pagination.ListQuery
	AgencyID string `form:"agency_id"`
}

// Filters converts the bound query into repository filters.
func (q *AgentListQuery) Filters() people.ListFilters {
	return people.ListFilters{
		IsActive: q.Active(),
		Search:   q.Search,
		AgencyID: q.AgencyID,
	}
}

// ToAgent builds the entity to store.
func (r *CreateAgentRequest) ToAgent() *Agent {
	return &Agent{Profile: r.ToProfile()}
}

// Apply copies the supplied fields onto a.
func (r *UpdateAgentRequest) Apply(a *Agent) {
	r.ProfilePatch.Apply(&a.Profile)
}
