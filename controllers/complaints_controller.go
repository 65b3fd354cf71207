package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nkwenti/civicbackend/dto"
	"github.com/nkwenti/civicbackend/middleware"
	"github.com/nkwenti/civicbackend/models"
	"github.com/nkwenti/civicbackend/store"
	"github.com/nkwenti/civicbackend/utils"
)

// POST /complaints
func CreateComplaint(complaints store.ComplaintStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		var body dto.CreateComplaintDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, description, and location are required"})
			return
		}

		category := models.CategoryOther
		if body.Category != "" {
			category = models.ComplaintCategory(body.Category)
			if !category.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
				return
			}
		}

		now := time.Now().UTC()
		complaint := &models.Complaint{
			Title:       body.Title,
			Description: body.Description,
			Category:    category,
			Image:       body.Image,
			Location: models.Location{
				Latitude:  body.Location.Latitude,
				Longitude: body.Location.Longitude,
				Address:   body.Location.Address,
			},
			Status:    models.ComplaintPending,
			CitizenID: user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := complaints.Create(c.Request.Context(), complaint); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error creating complaint"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":   "complaint registered successfully",
			"complaint": complaint,
		})
	}
}

// GET /complaints
func GetComplaints(complaints store.ComplaintStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		filter := store.ComplaintFilter{
			Status:   models.ComplaintStatus(c.Query("status")),
			Category: models.ComplaintCategory(c.Query("category")),
		}
		// citizens only ever see their own complaints
		if user.Role == models.RoleCitizen {
			filter.CitizenID = &user.ID
		}

		items, err := complaints.Find(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching complaints"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": len(items), "complaints": items})
	}
}

// GET /complaints/:id
func GetComplaint(complaints store.ComplaintStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
			return
		}

		complaint, err := complaints.FindByID(c.Request.Context(), id)
		if err != nil || (user.Role == models.RoleCitizen && complaint.CitizenID != user.ID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"complaint": complaint})
	}
}

// PATCH /complaints/:id/status — admin/officer only (route-gated)
func UpdateComplaintStatus(complaints store.ComplaintStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
			return
		}

		var body dto.UpdateComplaintStatusDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if body.Status != nil && !models.ComplaintStatus(*body.Status).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status, must be one of: pending, in-progress, resolved"})
			return
		}

		complaint, err := complaints.FindByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}

		if body.Status != nil {
			complaint.Status = models.ComplaintStatus(*body.Status)
		}
		if body.ResolutionNotes != nil {
			complaint.ResolutionNotes = *body.ResolutionNotes
		}

		// admins assign anyone; an officer may self-assign an
		// unassigned complaint
		if body.AssignedOfficerID != nil && user.Role == models.RoleAdmin {
			officerID, err := bson.ObjectIDFromHex(*body.AssignedOfficerID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid officer id"})
				return
			}
			complaint.AssignedOfficerID = &officerID
		} else if user.Role == models.RoleOfficer && complaint.AssignedOfficerID == nil {
			complaint.AssignedOfficerID = &user.ID
		}

		if err := complaints.Update(c.Request.Context(), complaint); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating complaint"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "complaint status updated successfully",
			"complaint": complaint,
		})
	}
}

// DELETE /complaints/:id
func DeleteComplaint(complaints store.ComplaintStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
			return
		}

		complaint, err := complaints.FindByID(c.Request.Context(), id)
		if err != nil || (user.Role != models.RoleAdmin && complaint.CitizenID != user.ID) {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}

		if err := complaints.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting complaint"})
			return
		}

		// photo cleanup is best effort
		if complaint.Image != "" {
			if client, bucket, err := utils.NewGCSClient(c); err == nil {
				defer client.Close()
				if objectName, err := utils.ObjectNameFromGCSPublicURL(bucket, complaint.Image); err == nil {
					_ = utils.DeleteGCSObjects(c.Request.Context(), client, bucket, []string{objectName})
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "complaint deleted successfully"})
	}
}

// POST /complaints/:id/photo
func UploadComplaintPhoto(complaints store.ComplaintStore, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid complaint id"})
			return
		}

		complaint, err := complaints.FindByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}
		if user.Role == models.RoleCitizen && complaint.CitizenID != user.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "complaint not found"})
			return
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing photo"})
			return
		}

		if _, err := v.ValidateFile(fh); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		client, bucket, err := utils.NewGCSClient(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
			return
		}
		defer client.Close()

		publicURL, err := utils.UploadComplaintPhotoToGCS(
			c.Request.Context(), client, bucket, utils.GenerateSlug(complaint.Title), fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
			return
		}

		complaint.Image = publicURL
		if err := complaints.Update(c.Request.Context(), complaint); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating complaint"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"complaint": complaint})
	}
}
