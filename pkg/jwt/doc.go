// Package jwt verifies and mints the bearer tokens issued by the event
// platform.
//
// The event platform signs access tokens with RS256. The view host only
// needs the public key to verify them:
//
//	service, err := jwt.NewService(jwt.Config{
//	    PublicKeyPath: "keys/platform.pub",
//	    Issuer:        "ems-platform",
//	})
//
//	claims, err := service.Validate(tokenString)
//	user := model.NewUser(claims.Principal(), claims.RoleNames()...)
//
// # Development mode
//
// With AllowUnverified set and no public key configured, Validate decodes
// the claims without a signature check. Expiry is still enforced.
//
// # Claims
//
// Roles may arrive as a single "role" claim, a "roles" list, or both, in
// any of the spellings ROLE_ADMIN, ADMIN or admin. RoleNames returns them
// raw; normalization happens in the model package.
package jwt
