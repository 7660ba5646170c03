package api

import (
	stdhttp "net/http"

	intconfig "flightsurety/internal/config"
	h "flightsurety/internal/http/handlers"
	"flightsurety/internal/http/middleware"
	"flightsurety/internal/utils"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		utils.LogEvent("", "http", "trusted_proxies", "failed to set trusted proxies: "+err.Error())
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/routes", h.Routes)

		// Auth
		api.POST("/auth/token", hd.IssueToken)

		secured := api.Group("")
		secured.Use(middleware.Auth(hd.JWTSecret, hd.Engine))

		// Access control
		ownerOnly := middleware.RequireOwner(hd.Engine.Owner())
		secured.GET("/operational", hd.GetOperational)
		secured.PUT("/operational", ownerOnly, hd.SetOperational)
		secured.PUT("/testing-mode", ownerOnly, hd.SetTestingMode)
		secured.POST("/callers/:principal", ownerOnly, hd.AuthorizeCaller)
		secured.DELETE("/callers/:principal", ownerOnly, hd.DeauthorizeCaller)

		// Airlines
		airlines := secured.Group("/airlines")
		airlines.GET("", hd.ListAirlines)
		airlines.POST("", hd.RegisterAirline)
		airlines.POST("/fund", hd.FundAirline)
		airlines.GET("/eligible/count", hd.CountEligible)
		airlines.GET("/:airline", hd.GetAirline)
		airlines.POST("/:airline/votes", hd.VoteForAirline)

		// Flights
		flights := secured.Group("/flights")
		flights.GET("", hd.ListFlights)
		flights.POST("", hd.RegisterFlight)
		flights.GET("/:airline/:code/:timestamp", hd.GetFlight)

		// Policies
		policies := secured.Group("/policies")
		policies.POST("", hd.BuyInsurance)
		policies.GET("/mine", hd.MyPolicies)
		policies.GET("/certificate", hd.PolicyCertificate)

		// Oracles
		oracles := secured.Group("/oracles")
		oracles.POST("", hd.RegisterOracle)
		oracles.GET("/me", hd.MyIndexes)
		oracles.POST("/requests", hd.FetchFlightStatus)
		oracles.POST("/responses", hd.SubmitOracleResponse)

		// Payouts
		payouts := secured.Group("/payouts")
		payouts.POST("/withdraw", hd.Withdraw)
		payouts.GET("/:passenger", hd.GetPayable)

		// Journal
		secured.GET("/events", hd.ListEvents)
	}

	h.SetRouter(r)
	return r
}
