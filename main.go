package main

import (
	"fmt"
	"log"
	"os"

	"flynext-server/routes"
	"flynext-server/storage"
	"flynext-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	// Minimal middleware - compression only
	app.Use(iris.Compression)

	// JWT Verifiers
	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/me", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.GetMe)
	}

	city := app.Party("/api/cities")
	{
		city.Get("/", routes.GetCities)
	}

	flight := app.Party("/api/flight")
	{
		flight.Get("/search", routes.SearchFlights)
		flight.Post("/book", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware, routes.BookFlights)
	}

	hotel := app.Party("/api/hotel")
	{
		hotel.Post("/", accessTokenVerifierMiddleware, utils.HotelOwnerOnlyMiddleware, routes.CreateHotel)
		hotel.Get("/mine", accessTokenVerifierMiddleware, utils.HotelOwnerOnlyMiddleware, routes.GetMyHotels)
		hotel.Get("/{id:uint}/bookings", accessTokenVerifierMiddleware, utils.HotelOwnerOnlyMiddleware, routes.GetHotelBookings)
		hotel.Post("/{id:uint}/room", accessTokenVerifierMiddleware, utils.HotelOwnerOnlyMiddleware, routes.CreateRoom)
	}

	room := app.Party("/api/room")
	{
		room.Get("/{id:uint}/availability", routes.GetRoomAvailability)
		room.Patch("/{id:uint}", accessTokenVerifierMiddleware, utils.HotelOwnerOnlyMiddleware, routes.UpdateRoom)
	}

	booking := app.Party("/api/booking", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		booking.Post("/", routes.AddToBooking)
		booking.Get("/", routes.GetMyBookings)
		booking.Get("/{id:uint}", routes.GetBooking)
		booking.Post("/{id:uint}/checkout", routes.Checkout)
		booking.Post("/{id:uint}/cancel", routes.CancelBooking)
		booking.Post("/{id:uint}/cancel-component", routes.CancelComponent)
	}

	notifications := app.Party("/api/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		notifications.Get("/", routes.GetNotifications)
		notifications.Patch("/{id:uint}/read", routes.MarkNotificationAsRead)
	}

	// Admin routes
	admin := app.Party("/api/admin", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/bookings", routes.AdminListBookings)
		admin.Post("/bookings/{id:uint}/cancel", routes.AdminCancelBooking)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Printf("Starting server on port %s", port)
	app.Listen(fmt.Sprintf(":%s", port))
}
