package routes

import (
	"encoding/json"

	"flynext-server/models"
	"flynext-server/storage"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

func CreateHotel(ctx iris.Context) {
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

	var input CreateHotelInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	// Ensure arrays are never null
	amenities := input.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amenitiesJSON, _ := json.Marshal(amenities)

	images := input.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, _ := json.Marshal(images)

	hotel := models.Hotel{
		OwnerID:      userID,
		Name:         input.Name,
		Description:  input.Description,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		City:         input.City,
		Country:      input.Country,
		Lat:          input.Lat,
		Lng:          input.Lng,
		StarRating:   input.StarRating,
		Amenities:    string(amenitiesJSON),
		Images:       datatypes.JSON(imagesJSON),
		IsActive:     input.IsActive,
	}

	if err := storage.DB.Create(&hotel).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create hotel"})
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"data":    hotel,
	})
}

func GetMyHotels(ctx iris.Context) {
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

	var hotels []models.Hotel
	if err := storage.DB.Where("owner_id = ?", userID).
		Preload("Rooms").
		Order("created_at DESC").
		Find(&hotels).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch hotels"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    hotels,
	})
}

// GetHotelBookings lists every hotel booking on the owner's hotel, newest
// first, so owners can see what the reconciler would be working against.
func GetHotelBookings(ctx iris.Context) {
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

	var bookings []models.HotelBooking
	if err := storage.DB.
		Joins("JOIN rooms ON hotel_bookings.room_id = rooms.id").
		Where("rooms.hotel_id = ?", hotelID).
		Preload("Room").
		Order("hotel_bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch hotel bookings"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookings,
	})
}

type CreateHotelInput struct {
	Name         string   `json:"name" validate:"required,max=256"`
	Description  string   `json:"description"`
	AddressLine1 string   `json:"addressLine1" validate:"required"`
	AddressLine2 string   `json:"addressLine2"`
	City         string   `json:"city" validate:"required"`
	Country      string   `json:"country" validate:"required"`
	Lat          float32  `json:"lat"`
	Lng          float32  `json:"lng"`
	StarRating   int      `json:"starRating" validate:"min=0,max=5"`
	Amenities    []string `json:"amenities"`
	Images       []string `json:"images"`
	IsActive     *bool    `json:"isActive"`
}
