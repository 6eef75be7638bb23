package main

import (
    "log"
    "net/http"
    "os"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    "github.com/labstack/echo/v4/middleware"

    appmw "github.com/collabotree/collabotree/internal/middleware"
    "github.com/collabotree/collabotree/internal/alerts"
    "github.com/collabotree/collabotree/internal/db"
    // handlers
    admin "github.com/collabotree/collabotree/internal/admin"
    auth "github.com/collabotree/collabotree/internal/auth"
    catalog "github.com/collabotree/collabotree/internal/catalog"
    contracts "github.com/collabotree/collabotree/internal/contracts"
    hiring "github.com/collabotree/collabotree/internal/hiring"
    ledger "github.com/collabotree/collabotree/internal/ledger"
    messaging "github.com/collabotree/collabotree/internal/messaging"
    notifications "github.com/collabotree/collabotree/internal/notifications"
    orders "github.com/collabotree/collabotree/internal/orders"
    reviews "github.com/collabotree/collabotree/internal/reviews"
    user "github.com/collabotree/collabotree/internal/user"
    verification "github.com/collabotree/collabotree/internal/verification"
)

func main() {
    _ = godotenv.Load()

    // Init subsystems
    db.Init()
    alerts.Init()

    e := newServer()

    port := os.Getenv("PORT")
    if port == "" { port = "8080" }
    log.Printf("API server listening on :%s", port)
    if err := e.Start(":" + port); err != nil {
        log.Fatalf("server error: %v", err)
    }
}

// newServer builds the echo instance with middleware and the full route table
func newServer() *echo.Echo {
    e := echo.New()
    e.HideBanner = true
    e.Use(middleware.Logger())
    e.Use(middleware.Recover())

    // Health
    e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

    // Public auth routes
    e.POST("/signup", auth.Signup)
    e.POST("/login", auth.Login)
    e.POST("/auth/password/request", auth.RequestPasswordReset)
    e.POST("/auth/password/reset", auth.ResetPassword)
    e.POST("/auth/bootstrap_admin", auth.BootstrapAdmin)

    // Public discovery
    e.GET("/services", catalog.GetAllServices)
    e.GET("/user/:id/profile", user.GetPublicProfile)
    e.GET("/sellers/:id/reviews", reviews.GetSellerReviews)

    // Authenticated group
    g := e.Group("")
    g.Use(appmw.JWTMiddleware)

    // Me and profile update
    g.GET("/me", auth.Me)
    g.PATCH("/user/profile", user.UpdateProfile)

    // Service management
    g.POST("/services", catalog.CreateService)
    g.PATCH("/services/:id", catalog.UpdateService)
    g.DELETE("/services/:id", catalog.DeactivateService)
    g.GET("/services/me", catalog.GetUserServices)

    // Hire requests
    g.POST("/hire-requests", hiring.CreateHireRequest)
    g.GET("/hire-requests", hiring.GetUserHireRequests)
    g.POST("/hire-requests/:id/accept", hiring.AcceptHireRequest)
    g.POST("/hire-requests/:id/reject", hiring.RejectHireRequest)
    g.POST("/hire-requests/:id/cancel", hiring.CancelHireRequest)

    // Orders
    g.GET("/orders", orders.GetUserOrders)
    g.GET("/orders/:id", orders.GetOrder)
    g.PATCH("/orders/:id/status", orders.UpdateOrderStatus)
    g.POST("/orders/:id/pay", orders.PayOrder)

    // Contracts and ledger
    g.GET("/contracts", contracts.GetUserContracts)
    g.GET("/contracts/:id", contracts.GetContract)
    g.GET("/transactions", ledger.GetUserTransactions)

    // Student verification
    g.POST("/verification/id-card", verification.UploadIDCard)

    // Reviews
    g.POST("/orders/:id/review", reviews.CreateReview)
    g.GET("/orders/:id/review", reviews.GetOrderReview)

    // Messaging
    g.GET("/threads", messaging.GetUserThreads)
    g.GET("/threads/:id/messages", messaging.GetThreadMessages)
    g.POST("/threads/:id/messages", messaging.SendMessage)
    g.GET("/ws/threads/:id", messaging.WSThread)

    // Notifications
    g.GET("/notifications", notifications.GetUserNotifications)
    g.POST("/notifications/:id/read", notifications.MarkRead)
    g.POST("/notifications/read_all", notifications.MarkAllRead)

    // Admin routes
    adminGroup := e.Group("/admin")
    adminGroup.Use(appmw.JWTMiddleware)
    adminGroup.Use(appmw.AdminGuard)
    adminGroup.GET("/stats", admin.Stats)
    adminGroup.GET("/users", admin.ListUsers)
    adminGroup.POST("/users/:id/suspend", admin.SuspendUser)
    adminGroup.POST("/users/:id/activate", admin.ActivateUser)
    adminGroup.GET("/contracts", contracts.AdminListContracts)
    adminGroup.POST("/contracts/:id/release", contracts.ReleaseContractPayout)
    adminGroup.GET("/transactions", ledger.AdminGetAllTransactions)
    adminGroup.GET("/verification/pending", verification.ListPending)
    adminGroup.POST("/verification/:id/approve", verification.VerifyStudent)
    adminGroup.POST("/verification/:id/reject", verification.RejectStudent)
    adminGroup.PATCH("/services/:id/top_selection", catalog.UpdateTopSelection)

    return e
}
