// internal/handlers/agent/agent.go
package agent

import (
	"net/http"

	"activity-booking-service/internal/domain/agent"
	"activity-booking-service/internal/pkg/pagination"
	"activity-booking-service/internal/pkg/response"
	service "activity-booking-service/internal/service/agent"

	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService *service.AgentService
}

func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
	}
}

// CreateAgent creates a new agent. The email must be unused by any agent or
// staff member.
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req agent.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.CreateAgent(c.Request.Context(), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "agent created successfully", result)
}

func (h *AgentHandler) GetAgent(c *gin.Context) {
	result, err := h.agentService.GetAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agent retrieved", result)
}

func (h *AgentHandler) ListAgents(c *gin.Context) {
	var query agent.AgentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	params := query.Params(service.DefaultPageSize)
	page, err := h.agentService.ListAgents(c.Request.Context(), query.Filters(), params)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Paginated(c, "agents retrieved", page.Items, pagination.MetaFor(page, params))
}

func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req agent.UpdateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.agentService.UpdateAgent(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agent updated successfully", result)
}

func (h *AgentHandler) ActivateAgent(c *gin.Context) {
	h.setActive(c, true, "agent activated successfully")
}

func (h *AgentHandler) DeactivateAgent(c *gin.Context) {
	h.setActive(c, false, "agent deactivated successfully")
}

func (h *AgentHandler) setActive(c *gin.Context, active bool, message string) {
	result, err := h.agentService.SetActive(c.Request.Context(), c.Param("id"), active)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, message, result)
}

func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	if err := h.agentService.DeleteAgent(c.Request.Context(), c.Param("id")); err != nil {
		response.HandleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "agent deleted successfully", nil)
}
