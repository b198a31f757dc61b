package routes

import (
	"errors"

	"flynext-server/models"
	"flynext-server/services"
	"flynext-server/storage"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
)

func CreateRoom(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User not authenticated"})
		return
	}

	userID, ok := userIDValue.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid user ID"})
		return
	}

	hotelID := ctx.Params().GetUintDefault("id", 0)
	if hotelID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid hotel ID"})
		return
	}

	var hotel models.Hotel
	if err := storage.DB.First(&hotel, hotelID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if hotel.OwnerID != userID {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	room := models.Room{
		HotelID:        hotelID,
		Type:           input.Type,
		Description:    input.Description,
		Price:          input.Price,
		Currency:       input.Currency,
		AvailableCount: input.AvailableCount,
		MaxGuests:      input.MaxGuests,
	}

	if err := storage.DB.Create(&room).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create room"})
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"data":    room,
	})
}

// GetRoomAvailability returns the per-night remaining capacity for a date
// range, plus whether the whole range can take one more booking for the
// requested guest count.
func GetRoomAvailability(ctx iris.Context) {
	roomID := ctx.Params().GetUintDefault("id", 0)
	if roomID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid room ID"})
		return
	}

	rng, err := services.ParseDateRange(ctx.URLParam("checkInDate"), ctx.URLParam("checkOutDate"))
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}
	guests := ctx.URLParamIntDefault("guests", 1)
	if guests < 1 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "guests must be at least 1", ctx)
		return
	}

	var room models.Room
	if err := storage.DB.First(&room, roomID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var active []models.HotelBooking
	storage.DB.Where("room_id = ? AND status <> ?", roomID, models.BookingStatusCancelled).Find(&active)

	remaining := services.RemainingCapacity(room, active, rng)
	unavailable := services.UnavailableDates(room, active, rng, guests)

	ctx.JSON(iris.Map{
		"success":          true,
		"remaining":        remaining,
		"unavailableDates": unavailable,
		"available":        len(unavailable) == 0,
	})
}

// UpdateRoom edits a room. Reducing availableCount triggers reconciliation:
// enough existing bookings are cancelled, newest first, to make the new count
// feasible, and the affected guests are notified after the transaction
// commits.
func UpdateRoom(ctx iris.Context) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User not authenticated"})
		return
	}

	userID, ok := userIDValue.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid user ID"})
		return
	}

	roomID := ctx.Params().GetUintDefault("id", 0)
	if roomID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid room ID"})
		return
	}

	var room models.Room
	if err := storage.DB.Preload("Hotel").First(&room, roomID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	role, _ := ctx.Values().Get("role").(string)
	if room.Hotel.OwnerID != userID && role != "admin" {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateRoomInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Type != nil {
		updates["type"] = *input.Type
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.MaxGuests != nil {
		updates["max_guests"] = *input.MaxGuests
	}
	if len(updates) > 0 {
		if err := storage.DB.Model(&models.Room{}).Where("id = ?", roomID).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	if input.AvailableCount == nil {
		storage.DB.First(&room, roomID)
		ctx.JSON(iris.Map{"success": true, "data": room})
		return
	}

	newCount := *input.AvailableCount
	if newCount < 0 {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "availableCount cannot be negative", ctx)
		return
	}

	var rng *services.DateRange
	if input.StartDate != "" || input.EndDate != "" {
		parsed, err := services.ParseDateRange(input.StartDate, input.EndDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		rng = &parsed
	}

	before := iris.Map{"availableCount": room.AvailableCount}
	result, err := services.ReconcileRoomCapacity(roomID, newCount, rng)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.CreateNotFound(ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "room.capacity_change", "room", roomID, before, iris.Map{
		"availableCount":      newCount,
		"cancelledBookingIDs": result.CancelledBookingIDs,
	})

	if len(result.AffectedUserIDs) > 0 {
		notificationService := services.NewNotificationService()
		go notificationService.SendCapacityCancellationNotifications(result.AffectedUserIDs, room.Type, room.Hotel.Name)
	}

	ctx.JSON(iris.Map{
		"success":             true,
		"data":                result.Room,
		"cancelledBookingIDs": result.CancelledBookingIDs,
		"cancelledCount":      len(result.CancelledBookingIDs),
		"message":             result.Message,
	})
}

type CreateRoomInput struct {
	Type           string  `json:"type" validate:"required,max=128"`
	Description    string  `json:"description"`
	Price          float64 `json:"price" validate:"required,min=0"`
	Currency       string  `json:"currency"`
	AvailableCount int     `json:"availableCount" validate:"min=0"`
	MaxGuests      int     `json:"maxGuests" validate:"min=1"`
}

type UpdateRoomInput struct {
	Type           *string  `json:"type"`
	Description    *string  `json:"description"`
	Price          *float64 `json:"price"`
	MaxGuests      *int     `json:"maxGuests"`
	AvailableCount *int     `json:"availableCount"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
}
