package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/data/repos"
	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

type CampaignHandler struct {
	instances repos.CampaignInstanceRepo
	enrolment repos.EnrolmentRepo
}

func NewCampaignHandler(instances repos.CampaignInstanceRepo, enrolment repos.EnrolmentRepo) *CampaignHandler {
	return &CampaignHandler{instances: instances, enrolment: enrolment}
}

type enrolRequest struct {
	ContactIDs []uuid.UUID `json:"contact_ids" validate:"required,min=1,max=5000,dive,required"`
}

type enrolResult struct {
	ContactID uuid.UUID `json:"contact_id"`
	State     string    `json:"state"`
	Created   bool      `json:"created"`
}

// POST /campaigns/:id/enrol
func (h *CampaignHandler) Enrol(c *gin.Context) {
	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_campaign_id", err)
		return
	}

	var req enrolRequest
	if err := bindAndValidate(c, &req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	dbc := dbctx.Bare(c.Request.Context())

	instance, err := h.instances.GetByID(dbc, instanceID)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "campaign_lookup_failed", err)
		return
	}
	if instance == nil {
		response.RespondError(c, http.StatusNotFound, "campaign_not_found", nil)
		return
	}

	results := make([]enrolResult, 0, len(req.ContactIDs))
	for _, contactID := range req.ContactIDs {
		e, created, err := h.enrolment.FindOrCreate(dbc, instanceID, contactID)
		if err != nil {
			response.RespondError(c, http.StatusInternalServerError, "enrol_failed", err)
			return
		}
		results = append(results, enrolResult{ContactID: contactID, State: e.State, Created: created})
	}

	c.JSON(http.StatusOK, gin.H{"enrolments": results})
}
