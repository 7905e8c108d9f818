// Package helpers provides test utilities shared by the handler, middleware
// and repository tests.
//
// # JWT Helpers
//
// Mint tokens the way the event platform does:
//
//	h := helpers.NewJWTHelper(t)
//	token := h.GenerateToken("org@example.com", "ROLE_ORGANIZER")
//	auth := middleware.Auth(service.NewAuthService(service.AuthServiceConfig{Verifier: h.Service()}))
//
// # Request Helpers
//
//	req := helpers.NewRequest(t, http.MethodPost, "/v1/views").
//	    WithBody(body).
//	    WithUser(user).
//	    Build()
//
// # Assertion Helpers
//
//	helpers.AssertProblemDetails(t, rr, http.StatusForbidden, model.ErrCodeNotPermitted)
//	helpers.AssertValidationError(t, rr, "title")
//	helpers.AssertRecordExists(t, db, "session", "s1")
package helpers
