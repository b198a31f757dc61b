package routes

import (
	"encoding/json"
	"errors"
	"time"

	"flynext-server/models"
	"flynext-server/services"
	"flynext-server/storage"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/datatypes"
)

// AddToBooking merges flight and/or hotel components into the caller's
// pending booking (their cart), creating one if needed.
func AddToBooking(ctx iris.Context) {
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

	var request AddToBookingInput
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if len(request.Flights) == 0 && request.Hotel == nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "At least one flight or hotel component is required", ctx)
		return
	}

	flights := make([]services.FlightComponentInput, 0, len(request.Flights))
	for _, f := range request.Flights {
		departure, err := time.Parse(time.RFC3339, f.DepartureTime)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid departureTime, expected RFC3339", ctx)
			return
		}
		arrival, err := time.Parse(time.RFC3339, f.ArrivalTime)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "Invalid arrivalTime, expected RFC3339", ctx)
			return
		}
		flights = append(flights, services.FlightComponentInput{
			FlightID:          f.FlightID,
			FlightNumber:      f.FlightNumber,
			Airline:           f.Airline,
			Origin:            f.Origin,
			Destination:       f.Destination,
			DepartureTime:     departure,
			ArrivalTime:       arrival,
			Price:             f.Price,
			Currency:          f.Currency,
			ConnectionGroupID: f.ConnectionGroupID,
			SegmentIndex:      f.SegmentIndex,
			TotalSegments:     f.TotalSegments,
		})
	}

	var hotel *services.HotelComponentInput
	if request.Hotel != nil {
		rng, err := services.ParseDateRange(request.Hotel.CheckInDate, request.Hotel.CheckOutDate)
		if err != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
			return
		}
		if request.Hotel.GuestCount < 1 {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "guestCount must be at least 1", ctx)
			return
		}
		hotel = &services.HotelComponentInput{
			RoomID:       request.Hotel.RoomID,
			Dates:        rng,
			GuestCount:   request.Hotel.GuestCount,
			GuestDetails: datatypes.JSON(request.Hotel.GuestDetails),
		}
	}

	booking, err := services.AddComponents(userID, flights, hotel)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"success": true,
		"data":    booking,
	})
}

func GetMyBookings(ctx iris.Context) {
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

	var bookings []models.Booking
	if err := storage.DB.Where("user_id = ?", userID).
		Preload("Flights").
		Preload("HotelBookings").
		Preload("HotelBookings.Room").
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{"message": "Failed to fetch bookings"})
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    bookings,
	})
}

func GetBooking(ctx iris.Context) {
	userID, role, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	booking, err := services.GetBooking(bookingID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	if booking.UserID != userID && role != "admin" {
		utils.CreateForbidden(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    booking,
	})
}

// Checkout settles a booking: validates the card, creates or replaces the
// booking's payment record and confirms the booking and its components in
// one transaction.
func Checkout(ctx iris.Context) {
	userID, role, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	var request CheckoutInput
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	result, err := services.Settle(bookingID, userID, role, request.Payment,
		datatypes.JSON(request.PassengerDetails), datatypes.JSON(request.GuestDetails))
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data": iris.Map{
			"booking": result.Booking,
			"payment": iris.Map{
				"cardLast4":      result.Payment.CardLast4,
				"cardType":       result.Payment.CardType,
				"cardholderName": result.Payment.CardholderName,
				"paymentStatus":  result.Payment.PaymentStatus,
			},
		},
	})
}

func CancelBooking(ctx iris.Context) {
	userID, role, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	booking, err := services.GetBooking(bookingID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	if booking.UserID != userID && role != "admin" {
		utils.CreateForbidden(ctx)
		return
	}

	cancelled, err := services.CancelBooking(bookingID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Booking cancelled successfully",
		"data":    cancelled,
	})
}

// CancelComponent cancels a single flight or hotel component of a booking.
// The parent booking's status is not touched; only the total is recomputed.
func CancelComponent(ctx iris.Context) {
	userID, role, ok := callerIdentity(ctx)
	if !ok {
		return
	}

	bookingID := ctx.Params().GetUintDefault("id", 0)
	if bookingID == 0 {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"message": "Invalid booking ID"})
		return
	}

	var request CancelComponentInput
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := services.GetBooking(bookingID)
	if err != nil {
		handleServiceError(err, ctx)
		return
	}
	if booking.UserID != userID && role != "admin" {
		utils.CreateForbidden(ctx)
		return
	}

	if err := services.CancelComponent(bookingID, request.ComponentType, request.ComponentID); err != nil {
		handleServiceError(err, ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"message": "Component cancelled successfully",
	})
}

// callerIdentity pulls the authenticated user id and role out of the request
// context, writing the 401 itself when they are missing.
func callerIdentity(ctx iris.Context) (uint, string, bool) {
	userIDValue := ctx.Values().Get("userID")
	if userIDValue == nil {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "User not authenticated"})
		return 0, "", false
	}

	userID, ok := userIDValue.(uint)
	if !ok {
		ctx.StatusCode(iris.StatusUnauthorized)
		ctx.JSON(iris.Map{"message": "Invalid user ID"})
		return 0, "", false
	}

	role, _ := ctx.Values().Get("role").(string)
	return userID, role, true
}

func handleServiceError(err error, ctx iris.Context) {
	var datesErr *services.DatesUnavailableError
	var cardErr *services.CardValidationError
	switch {
	case errors.As(err, &datesErr):
		utils.CreateDatesUnavailable(ctx, datesErr.Dates)
	case errors.As(err, &cardErr):
		utils.CreateError(iris.StatusBadRequest, "Validation Error", cardErr.Reason, ctx)
	case errors.Is(err, services.ErrNotFound):
		utils.CreateNotFound(ctx)
	case errors.Is(err, services.ErrForbidden):
		utils.CreateForbidden(ctx)
	case errors.Is(err, services.ErrBookingCancelled):
		utils.CreateError(iris.StatusConflict, "Conflict", "The booking is cancelled and cannot be checked out.", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

type AddFlightInput struct {
	FlightID          string  `json:"flightId" validate:"required"`
	FlightNumber      string  `json:"flightNumber" validate:"required"`
	Airline           string  `json:"airline"`
	Origin            string  `json:"origin" validate:"required"`
	Destination       string  `json:"destination" validate:"required"`
	DepartureTime     string  `json:"departureTime" validate:"required"`
	ArrivalTime       string  `json:"arrivalTime" validate:"required"`
	Price             float64 `json:"price" validate:"min=0"`
	Currency          string  `json:"currency"`
	ConnectionGroupID string  `json:"connectionGroupId"`
	SegmentIndex      int     `json:"segmentIndex"`
	TotalSegments     int     `json:"totalSegments"`
}

type AddHotelInput struct {
	RoomID       uint            `json:"roomId" validate:"required"`
	CheckInDate  string          `json:"checkInDate" validate:"required"`
	CheckOutDate string          `json:"checkOutDate" validate:"required"`
	GuestCount   int             `json:"guestCount" validate:"required,min=1"`
	GuestDetails json.RawMessage `json:"guestDetails"`
}

type AddToBookingInput struct {
	Flights []AddFlightInput `json:"flights"`
	Hotel   *AddHotelInput   `json:"hotel"`
}

type CheckoutInput struct {
	Payment          services.PaymentInput `json:"payment" validate:"required"`
	PassengerDetails json.RawMessage       `json:"passengerDetails"`
	GuestDetails     json.RawMessage       `json:"guestDetails"`
}

type CancelComponentInput struct {
	ComponentType string `json:"componentType" validate:"required,oneof=flight hotel"`
	ComponentID   uint   `json:"componentId" validate:"required"`
}
