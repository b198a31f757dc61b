package routes

import (
	"flynext-server/services"
	"flynext-server/utils"

	"github.com/kataras/iris/v12"
)

// SearchFlights proxies a read-only search to the flight supplier.
func SearchFlights(ctx iris.Context) {
	origin := ctx.URLParam("origin")
	destination := ctx.URLParam("destination")
	date := ctx.URLParam("date")

	if origin == "" || destination == "" || date == "" {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "origin, destination and date are required", ctx)
		return
	}

	client := services.NewFlightsClient()
	flights, err := client.SearchFlights(origin, destination, date)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Flight Supplier Error", "Failed to search flights, please try again.", ctx)
		return
	}

	ctx.JSON(iris.Map{
		"success": true,
		"data":    flights,
	})
}

// BookFlights places a booking with the supplier, then merges the returned
// segments into the caller's pending booking. The supplier call is made at
// most once; if the local merge fails afterwards the supplier reference is
// still returned so support can reconcile.
func BookFlights(ctx iris.Context) {
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

	var request BookFlightsInput
	if err := ctx.ReadJSON(&request); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	client := services.NewFlightsClient()
	supplierBooking, err := client.BookFlights(services.PassengerInfo{
		FirstName:      request.FirstName,
		LastName:       request.LastName,
		Email:          request.Email,
		PassportNumber: request.PassportNumber,
	}, request.FlightIDs)
	if err != nil {
		utils.CreateError(iris.StatusBadGateway, "Flight Supplier Error", "Failed to book flights with the supplier.", ctx)
		return
	}

	totalSegments := len(supplierBooking.Flights)
	components := make([]services.FlightComponentInput, 0, totalSegments)
	for i, f := range supplierBooking.Flights {
		groupID := ""
		if totalSegments > 1 {
			groupID = supplierBooking.BookingReference
		}
		components = append(components, services.FlightComponentInput{
			FlightID:          f.ID,
			FlightNumber:      f.FlightNumber,
			Airline:           f.Airline,
			Origin:            f.Origin,
			Destination:       f.Destination,
			DepartureTime:     f.DepartureTime,
			ArrivalTime:       f.ArrivalTime,
			Price:             f.Price,
			Currency:          f.Currency,
			ConnectionGroupID: groupID,
			SegmentIndex:      i,
			TotalSegments:     totalSegments,
		})
	}

	booking, err := services.AddComponents(userID, components, nil)
	if err != nil {
		ctx.StatusCode(iris.StatusInternalServerError)
		ctx.JSON(iris.Map{
			"message":           "Flights booked with supplier but could not be added to your booking",
			"supplierReference": supplierBooking.BookingReference,
		})
		return
	}

	ctx.JSON(iris.Map{
		"success":           true,
		"supplierReference": supplierBooking.BookingReference,
		"data":              booking,
	})
}

type BookFlightsInput struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	PassportNumber string   `json:"passportNumber" validate:"required"`
	FlightIDs      []string `json:"flightIds" validate:"required,min=1"`
}
