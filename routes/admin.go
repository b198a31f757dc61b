package routes

import (
	"net/http"
	"strings"

	"flynext-server/models"
	"flynext-server/services"
	"flynext-server/storage"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
)

// ListUsers - GET /admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	// Basic pagination
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?", like, like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "server_error", "message": err.Error()})
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// Change role - PATCH /admin/users/:id/role
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := ctx.ReadJSON(&body); err != nil || body.Role == "" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_role"})
		return
	}
	if body.Role != "user" && body.Role != "hotel_owner" && body.Role != "admin" {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_role"})
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	// Audit
	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)

	ctx.JSON(iris.Map{"data": user})
}

// ListBookings - GET /admin/bookings?status=&page=&per_page=
func AdminListBookings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	status := strings.TrimSpace(ctx.URLParamDefault("status", ""))

	query := storage.DB.Model(&models.Booking{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.
		Preload("Flights").
		Preload("HotelBookings").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&bookings).Error; err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "server_error", "message": err.Error()})
		return
	}

	utils.JSONPage(ctx, bookings, page, perPage, total)
}

// Cancel booking - POST /admin/bookings/:id/cancel
func AdminCancelBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		ctx.StopWithJSON(http.StatusBadRequest, iris.Map{"error": "invalid_id"})
		return
	}

	before, err := services.GetBooking(id)
	if err != nil {
		ctx.StopWithJSON(http.StatusNotFound, iris.Map{"error": "not_found"})
		return
	}

	cancelled, err := services.CancelBooking(id)
	if err != nil {
		ctx.StopWithJSON(http.StatusInternalServerError, iris.Map{"error": "server_error"})
		return
	}

	utils.Audit(ctx, "booking.cancel", "booking", id, iris.Map{"status": before.Status}, iris.Map{"status": cancelled.Status})

	ctx.JSON(iris.Map{"data": cancelled})
}
