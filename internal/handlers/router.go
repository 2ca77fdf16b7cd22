package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Router mounts every route of the application on a fresh mux. Server
// middleware (logging, recovery, timeouts) is layered on by the caller.
//
// Guard placement mirrors the access model: everything below the
// session group needs a resolvable session; the admin group silently
// downgrades non-admin principals to /home/.
func Router(
	auth *AuthHandler,
	pages *PageHandler,
	tours *TourHandler,
	users *UserHandler,
	reservations *ReservationHandler,
) *chi.Mux {
	router := chi.NewRouter()

	router.Get("/healthz", Healthz)
	router.Get("/sobre-nosotros/", pages.About)
	AuthRouter(router, auth)

	router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession)

		r.Get("/home/", pages.Home)
		r.Get("/configuracion/", pages.Settings)

		r.Get("/tours/", tours.Tours)
		r.Get("/explorar-toures/", tours.Explore)
		r.Get("/tours/{tourID}/imagen/", tours.GetImage)

		r.Get("/usuarios/", users.List)
		r.Delete("/usuarios/{userID}/", users.Delete)
		r.Put("/usuario/editar/{userID}/", users.Edit)
		r.Get("/perfil/", users.Profile)
		r.Put("/perfil/", users.UpdateProfile)
		r.Put("/perfil/imagen/", users.UploadProfileImage)

		r.Get("/reservas/", reservations.Form)
		r.Post("/reservas/", reservations.Create)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Get("/dashboard/", pages.Dashboard)
			r.Post("/tours/crear/", tours.Create)
			r.Put("/tours/editar/{tourID}/", tours.Update)
			r.Delete("/tours/eliminar/{tourID}/", tours.Delete)
			r.Put("/tours/{tourID}/imagen/", tours.UploadImage)
			r.Get("/reservas-admin/", reservations.ListAdmin)
		})
	})

	return router
}
