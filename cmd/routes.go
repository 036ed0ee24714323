package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"cleanlyBack/internal/models"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(""))
	customerMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleCustomer))
	proMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RolePro))
	adminMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))

	mux := pat.New()

	// Users
	mux.Post("/user/device_token", authMiddleware.ThenFunc(app.userHandler.SaveDeviceToken))

	// Pros
	mux.Get("/pro/:id", authMiddleware.ThenFunc(app.proHandler.GetPro))
	mux.Put("/pro/:id/ban", adminMiddleware.ThenFunc(app.proHandler.SetBanFlags))
	mux.Put("/pro/:id/badges", adminMiddleware.ThenFunc(app.proHandler.UpdateBadges))

	// Jobs
	mux.Post("/job", customerMiddleware.ThenFunc(app.jobHandler.CreateJob))
	mux.Get("/job/:id", authMiddleware.ThenFunc(app.jobHandler.GetJob))
	mux.Put("/job/:id/status", customerMiddleware.ThenFunc(app.jobHandler.UpdateJobStatus))
	mux.Post("/job/:id/leads", customerMiddleware.ThenFunc(app.jobHandler.RegenerateLeads))

	// Leads
	mux.Post("/lead/:id/accept", proMiddleware.ThenFunc(app.leadHandler.AcceptLead))
	mux.Post("/lead/:id/decline", proMiddleware.ThenFunc(app.leadHandler.DeclineLead))
	mux.Get("/lead/job/:job_id", customerMiddleware.ThenFunc(app.leadHandler.ListLeadsByJob))
	mux.Get("/lead/my", proMiddleware.ThenFunc(app.leadHandler.ListMyLeads))

	// Disputes
	mux.Post("/dispute", customerMiddleware.ThenFunc(app.disputeHandler.OpenDispute))
	mux.Get("/dispute/:id", authMiddleware.ThenFunc(app.disputeHandler.GetDispute))
	mux.Post("/dispute/:id/evidence", authMiddleware.ThenFunc(app.disputeHandler.AddEvidence))
	mux.Post("/dispute/:id/evidence/upload", authMiddleware.ThenFunc(app.disputeHandler.UploadEvidence))
	mux.Post("/dispute/:id/resolve", adminMiddleware.ThenFunc(app.disputeHandler.ResolveDispute))
	mux.Get("/dispute/:id/refunds", adminMiddleware.ThenFunc(app.disputeHandler.GetDisputeRefunds))

	// Health
	mux.Get("/health/:pro_id", authMiddleware.ThenFunc(app.healthHandler.GetProHealth))
	mux.Post("/health/:pro_id/recompute", adminMiddleware.ThenFunc(app.healthHandler.RecomputeProHealth))
	mux.Post("/abuse", adminMiddleware.ThenFunc(app.healthHandler.RecordAbuse))

	// Reviews
	mux.Post("/review", customerMiddleware.ThenFunc(app.reviewHandler.CreateReview))
	mux.Get("/review/pro/:pro_id", authMiddleware.ThenFunc(app.reviewHandler.GetReviewsByPro))

	// Chats
	mux.Get("/chat/job/:job_id", authMiddleware.ThenFunc(app.chatHandler.GetJobChat))
	mux.Post("/chat/:chat_id/message", authMiddleware.ThenFunc(app.chatHandler.SendMessage))

	// Payments
	mux.Post("/payment/webhook", standardMiddleware.ThenFunc(app.paymentHandler.ProviderWebhook))

	// WebSocket
	mux.Get("/ws", http.HandlerFunc(app.WebSocketHandler))

	return mux
}
