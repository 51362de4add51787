package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

// AdminHotelController serves the review queue across all merchants
type AdminHotelController struct {
	adminService service.AdminHotelService
}

func NewAdminHotelController(adminService service.AdminHotelService) *AdminHotelController {
	return &AdminHotelController{
		adminService: adminService,
	}
}

type AuditRequest struct {
	Status  string `json:"status" binding:"required"`
	Comment string `json:"comment"`
}

type PublishRequest struct {
	Action string `json:"action" binding:"required"`
}

// ListHotels returns hotels of every merchant
// GET /api/admin/hotels
func (ctrl *AdminHotelController) ListHotels(c *gin.Context) {
	q, ok := hotelListQuery(c)
	if !ok {
		return
	}
	merchantID, ok := optionalUint(c, "merchantId")
	if !ok {
		return
	}
	q.MerchantID = merchantID

	page, err := ctrl.adminService.ListHotels(q)
	if err != nil {
		respondServiceError(c, err, "list hotels")
		return
	}
	apperrors.Success(c, page)
}

// GET /api/admin/hotels/:id
func (ctrl *AdminHotelController) GetHotel(c *gin.Context) {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	hotel, err := ctrl.adminService.GetHotel(hotelID)
	if err != nil {
		respondServiceError(c, err, "get hotel")
		return
	}
	apperrors.Success(c, hotel)
}

// AuditHotel approves or rejects a pending hotel
// POST /api/admin/hotels/:id/audit
func (ctrl *AdminHotelController) AuditHotel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}
	outcome, err := workflow.ParseAuditOutcome(req.Status)
	if err != nil {
		respondServiceError(c, err, "audit hotel")
		return
	}

	hotel, err := ctrl.adminService.AuditHotel(c.Request.Context(), adminID, hotelID, outcome, req.Comment)
	if err != nil {
		log.Warn("Audit failed", map[string]interface{}{
			"hotel_id": hotelID,
			"outcome":  outcome,
			"error":    err.Error(),
		})
		respondServiceError(c, err, "audit hotel")
		return
	}
	apperrors.SuccessMessage(c, "audit recorded", hotel)
}

// PublishHotel puts an approved hotel online or takes a published one down
// POST /api/admin/hotels/:id/publish
func (ctrl *AdminHotelController) PublishHotel(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "action is required")
		return
	}
	action, err := workflow.ParsePublishAction(req.Action)
	if err != nil {
		respondServiceError(c, err, "publish hotel")
		return
	}

	hotel, err := ctrl.adminService.PublishHotel(c.Request.Context(), adminID, hotelID, action)
	if err != nil {
		respondServiceError(c, err, "publish hotel")
		return
	}
	apperrors.SuccessMessage(c, "status updated", hotel)
}

// History lists the status transitions of a hotel, oldest first
// GET /api/admin/hotels/:id/history
func (ctrl *AdminHotelController) History(c *gin.Context) {
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	logs, err := ctrl.adminService.History(hotelID)
	if err != nil {
		respondServiceError(c, err, "get history")
		return
	}
	apperrors.Success(c, logs)
}

// Backlog reports how many hotels wait for review
// GET /api/admin/hotels/backlog
func (ctrl *AdminHotelController) Backlog(c *gin.Context) {
	b, err := ctrl.adminService.AuditBacklog(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "get backlog")
		return
	}
	data := gin.H{"pending": b.Pending}
	if b.OldestPending != nil {
		data["oldestPending"] = b.OldestPending
	}
	apperrors.Success(c, data)
}
