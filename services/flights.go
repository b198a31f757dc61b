package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// FlightsClient talks to the third-party flight supplier ("AFS"). The
// supplier is opaque: search is read-only and retried, booking is called at
// most once per request because its idempotency is not under our control.
type FlightsClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewFlightsClient() *FlightsClient {
	return &FlightsClient{
		baseURL:    os.Getenv("AFS_BASE_URL"),
		apiKey:     os.Getenv("AFS_API_KEY"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type SupplierFlight struct {
	ID            string    `json:"id"`
	FlightNumber  string    `json:"flightNumber"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	Price         float64   `json:"price"`
	Currency      string    `json:"currency"`
}

type SupplierBooking struct {
	BookingReference string           `json:"bookingReference"`
	Flights          []SupplierFlight `json:"flights"`
}

type PassengerInfo struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	PassportNumber string `json:"passportNumber"`
}

// SearchFlights queries the supplier for flights on a date. Read-only, so a
// transient failure is retried a bounded number of times.
func (c *FlightsClient) SearchFlights(origin, destination, date string) ([]SupplierFlight, error) {
	endpoint := fmt.Sprintf("%s/api/flights?origin=%s&destination=%s&date=%s",
		c.baseURL, url.QueryEscape(origin), url.QueryEscape(destination), url.QueryEscape(date))

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
		}

		req, err := http.NewRequest(http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("x-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("flight supplier returned %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("flight supplier returned %d: %s", resp.StatusCode, string(body))
		}

		var payload struct {
			Results []SupplierFlight `json:"results"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, err
		}
		return payload.Results, nil
	}
	return nil, lastErr
}

// BookFlights places a booking with the supplier. Not retried: the call is
// assumed at-most-once from our side.
func (c *FlightsClient) BookFlights(passenger PassengerInfo, flightIDs []string) (*SupplierBooking, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"firstName":      passenger.FirstName,
		"lastName":       passenger.LastName,
		"email":          passenger.Email,
		"passportNumber": passenger.PassportNumber,
		"flightIds":      flightIDs,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/api/bookings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("flight supplier booking failed with %d: %s", resp.StatusCode, string(body))
	}

	var booking SupplierBooking
	if err := json.Unmarshal(body, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}
