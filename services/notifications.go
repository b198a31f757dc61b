package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"flynext-server/models"
	"flynext-server/storage"
)

const pushEndpoint = "https://exp.host/--/api/v2/push/send"

// NotificationService persists notification rows and pushes them to the
// user's devices. Everything here is fire-and-forget: a failed push is
// logged, never surfaced to the request that triggered it.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// CreateNotification writes the in-app notification row.
func (ns *NotificationService) CreateNotification(userID uint, notificationType, title, message, refType string, refID uint) {
	notification := models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
	}
}

// getUserPushTokens retrieves all push tokens for a user
func (ns *NotificationService) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// SendNotificationToUser creates the row and pushes to every device token.
func (ns *NotificationService) SendNotificationToUser(userID uint, notificationType, title, body, refType string, refID uint) error {
	ns.CreateNotification(userID, notificationType, title, body, refType, refID)

	tokens, err := ns.getUserPushTokens(userID)
	if err != nil {
		log.Printf("Failed to get push tokens for user %d: %v", userID, err)
		return err
	}

	var lastError error
	for _, token := range tokens {
		if err := sendPush(token, title, body); err != nil {
			log.Printf("Failed to send notification to token %s: %v", token, err)
			lastError = err
		}
	}

	return lastError
}

// SendBookingConfirmedNotification notifies the booking's owner after
// checkout settles.
func (ns *NotificationService) SendBookingConfirmedNotification(booking models.Booking) {
	title := "Booking Confirmed!"
	body := fmt.Sprintf("Your booking %s has been confirmed. Total: %.2f %s",
		booking.BookingReference, booking.TotalPrice, booking.Currency)

	if err := ns.SendNotificationToUser(booking.UserID, "booking_confirmed", title, body, "booking", booking.ID); err != nil {
		log.Printf("Failed to send booking confirmation to user %d: %v", booking.UserID, err)
	}
}

// SendHotelBookingNotificationsToOwners notifies the owner of every hotel
// with a confirmed room in the booking.
func (ns *NotificationService) SendHotelBookingNotificationsToOwners(booking models.Booking) {
	notified := make(map[uint]bool)
	for _, hb := range booking.HotelBookings {
		if hb.Status != models.BookingStatusConfirmed {
			continue
		}

		var room models.Room
		if err := storage.DB.Preload("Hotel").First(&room, hb.RoomID).Error; err != nil {
			log.Printf("Failed to load room %d for owner notification: %v", hb.RoomID, err)
			continue
		}
		if notified[room.Hotel.OwnerID] {
			continue
		}
		notified[room.Hotel.OwnerID] = true

		title := "New Reservation!"
		body := fmt.Sprintf("A %s room at %s was booked for %s to %s",
			room.Type,
			room.Hotel.Name,
			hb.CheckInDate.Format(DateLayout),
			hb.CheckOutDate.Format(DateLayout))

		if err := ns.SendNotificationToUser(room.Hotel.OwnerID, "room_booked", title, body, "booking", booking.ID); err != nil {
			log.Printf("Failed to notify hotel owner %d: %v", room.Hotel.OwnerID, err)
		}
	}
}

// SendCapacityCancellationNotifications tells each affected guest their
// booking was cancelled because the owner reduced room inventory. Called
// after the reconciliation transaction commits.
func (ns *NotificationService) SendCapacityCancellationNotifications(userIDs []uint, roomType, hotelName string) {
	title := "Booking Cancelled"
	body := fmt.Sprintf("Your reservation for a %s room at %s was cancelled because the hotel reduced its availability. You have not been charged for it.", roomType, hotelName)

	for _, userID := range userIDs {
		if err := ns.SendNotificationToUser(userID, "booking_cancelled", title, body, "room", 0); err != nil {
			log.Printf("Failed to send cancellation notification to user %d: %v", userID, err)
		}
	}
}

// sendPush posts one message to the push gateway.
func sendPush(token, title, body string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"to":    token,
		"title": title,
		"body":  body,
		"sound": "default",
	})
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Post(pushEndpoint, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %d", resp.StatusCode)
	}
	return nil
}
