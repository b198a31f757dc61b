package routes

import (
	"flynext-server/models"
	"flynext-server/storage"

	"github.com/kataras/iris/v12"
)

func GetNotifications(ctx iris.Context) {
	userIDInterface := ctx.Values().Get("userID")
	if userIDInterface == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User ID not found in context"})
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Invalid user ID format"})
		return
	}

	var notifications []models.Notification
	if err := storage.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(100).
		Find(&notifications).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch notifications"})
		return
	}

	var unreadCount int64
	storage.DB.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unreadCount)

	ctx.JSON(iris.Map{
		"success":     true,
		"data":        notifications,
		"unreadCount": unreadCount,
	})
}

func MarkNotificationAsRead(ctx iris.Context) {
	userIDInterface := ctx.Values().Get("userID")
	if userIDInterface == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User ID not found in context"})
		return
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Invalid user ID format"})
		return
	}

	notificationID := ctx.Params().GetUintDefault("id", 0)
	if notificationID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid notification ID"})
		return
	}

	var notification models.Notification
	if err := storage.DB.Where("id = ? AND user_id = ?", notificationID, userID).
		First(&notification).Error; err != nil {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{"message": "Notification not found"})
		return
	}

	notification.IsRead = true
	if err := storage.DB.Save(&notification).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to mark notification as read"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}
