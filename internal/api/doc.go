// Package api implements the taskhive HTTP surface.
//
// Routes:
//
//	POST   /users/       register (public)
//	GET    /users/{id}   public profile
//	POST   /auth/login   form login, returns a bearer token
//	POST   /tasks/       create task            (bearer)
//	GET    /tasks/       list own tasks         (bearer, ?limit&skip)
//	GET    /tasks/{id}   fetch own task         (bearer)
//	PUT    /tasks/{id}   partial update         (bearer)
//	DELETE /tasks/{id}   delete own task        (bearer)
//	GET    /health       liveness probe
//
// Error statuses: 422 validation (with field detail), 401 bad or missing
// token, 403 failed login, 404 missing resource, 409 duplicate email.
// A task owned by another user always answers 404.
package api
