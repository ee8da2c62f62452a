package routes

import (
	adminapi "clubmanager/internal/api/admin"
	attendanceapi "clubmanager/internal/api/attendance"
	authapi "clubmanager/internal/api/auth"
	"clubmanager/internal/api/billing"
	clubsapi "clubmanager/internal/api/clubs"
	documentsapi "clubmanager/internal/api/documents"
	feesapi "clubmanager/internal/api/fees"
	invoicesapi "clubmanager/internal/api/invoices"
	membersapi "clubmanager/internal/api/members"
	messagesapi "clubmanager/internal/api/messages"
	"clubmanager/internal/api/payfastitn"
	stripewebhooks "clubmanager/internal/api/stripewebhook"
	"clubmanager/internal/api/users"
	"clubmanager/internal/api/yocowebhook"
	"clubmanager/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	rl := middleware.NewRateLimiter(4096)

	// Gateway callbacks verify their own signatures; no sanitize or auth
	// here (PayFast posts url-encoded form data, not JSON).
	r.POST("/webhooks/payfast", payfastitn.HandleITN)
	r.POST("/webhooks/yoco", yocowebhook.HandleWebhook)
	r.POST("/webhooks/stripe", stripewebhooks.StripeWebhook)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeJSONBody(), rl.Limit(middleware.ClassAuth))

	public.POST("/register", authapi.Register)
	public.POST("/login", authapi.Login)
	public.GET("/verify", users.VerifyEmail)
	public.POST("/resend-verification", authapi.ResendVerification)
	public.POST("/request-password-reset", authapi.RequestPasswordReset)
	public.POST("/reset-password", authapi.ResetPassword)

	public.GET("/auth/google", authapi.GoogleStart)
	public.GET("/auth/google/callback", authapi.GoogleCallback)

	// Authenticated, pinned to the caller's club
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.RequireClubScope())

	auth.GET("/me", rl.Limit(middleware.ClassRead), users.GetCurrentUser)
	auth.POST("/change-password", rl.Limit(middleware.ClassAuth), authapi.ChangePassword)

	read := auth.Group("/")
	read.Use(rl.Limit(middleware.ClassRead))
	read.GET("/members", membersapi.ListMembers)
	read.GET("/members/:id", membersapi.GetMember)
	read.GET("/members/:id/attendance", attendanceapi.MemberHistory)
	read.GET("/level-fees", clubsapi.ListLevelFees)
	read.GET("/invoices", invoicesapi.ListInvoices)
	read.GET("/invoices/:id", invoicesapi.GetInvoice)
	read.GET("/payments", billing.GetPaymentHistory)
	read.GET("/payments/:id/activity", billing.GetPaymentActivity)
	read.GET("/documents", documentsapi.ListDocuments)
	read.GET("/messages", messagesapi.ListMessages)
	read.GET("/attendance/sessions", attendanceapi.ListSessions)

	write := auth.Group("/")
	write.Use(rl.Limit(middleware.ClassWrite))
	write.POST("/invoices/:id/pay", billing.PayInvoice)
	write.POST("/documents/:id/sign", documentsapi.SignDocument)
	write.POST("/messages", messagesapi.SendMessage)
	write.POST("/messages/:id/read", messagesapi.MarkRead)

	// Coaches and club admins
	coach := auth.Group("/")
	coach.Use(rl.Limit(middleware.ClassWrite), middleware.RequireRole("admin", "club_admin", "coach"))
	coach.POST("/attendance/sessions", attendanceapi.CreateSession)
	coach.PUT("/attendance/sessions/:id/marks", attendanceapi.MarkAttendance)

	// Club staff only
	staff := auth.Group("/")
	staff.Use(rl.Limit(middleware.ClassWrite), middleware.RequireRole("admin", "club_admin"))
	staff.POST("/members", membersapi.CreateMember)
	staff.PUT("/members/:id", membersapi.UpdateMember)
	staff.DELETE("/members/:id", membersapi.WithdrawMember)

	staff.PUT("/level-fees", clubsapi.UpsertLevelFee)
	staff.DELETE("/level-fees/:id", clubsapi.DeleteLevelFee)

	staff.POST("/members/:id/adjustments", feesapi.CreateAdjustment)
	staff.GET("/members/:id/adjustments", feesapi.ListAdjustments)
	staff.DELETE("/members/:id/adjustments/:adjID", feesapi.DeactivateAdjustment)
	staff.GET("/members/:id/effective-fee", feesapi.GetEffectiveFee)

	staff.POST("/invoices/generate", invoicesapi.Generate)
	staff.POST("/invoices/generate-all", invoicesapi.GenerateAll)
	staff.POST("/invoices/:id/items", invoicesapi.AddItem)
	staff.DELETE("/invoices/:id/items/:itemID", invoicesapi.DeleteItem)
	staff.PUT("/invoices/:id/discount", invoicesapi.UpdateDiscount)
	staff.POST("/invoices/:id/cancel", invoicesapi.CancelInvoice)

	staff.POST("/documents", documentsapi.CreateDocument)
	staff.GET("/documents/:id/signatures", documentsapi.ListSignatures)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireClubScope(),
		middleware.RequireRole("admin", "club_admin"))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.POST("/users", adminapi.CreateStaffUser)
	admin.GET("/stats", adminapi.GetClubStats)
	admin.POST("/invoices/mark-overdue", adminapi.MarkOverdueInvoices)

	// Platform operator only
	platform := r.Group("/admin")
	platform.Use(middleware.AuthMiddleware(), middleware.RequireRole("admin"))
	platform.POST("/clubs", clubsapi.CreateClub)
	platform.GET("/clubs", clubsapi.ListClubs)
}
