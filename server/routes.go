package server

const (
	RouteAuthSendOTP  = "/auth/send-otp"
	RouteAuthCheckOTP = "/auth/check-otp"
	RouteAuthSignup   = "/auth/signup"

	RouteUserProfile = "/user/profile"
	RouteUser        = "/user"
	RouteUserByID    = "/user/{id}"
)

func (s *Server) initRoutes() {
	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthSendOTP, ChainMiddleware(s.SendOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthCheckOTP, ChainMiddleware(s.CheckOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthSignup, ChainMiddleware(s.SignupHandler(), s.APIMiddleware()...))

	// USER (bearer-guarded, mirrors the CRUD surface behind the auth guard)
	s.RegisterRouteHandler("GET "+RouteUserProfile, ChainMiddleware(s.ProfileHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteUser, ChainMiddleware(s.CreateUserHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUser, ChainMiddleware(s.ListUsersHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUserByID, ChainMiddleware(s.GetUserHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("PATCH "+RouteUserByID, ChainMiddleware(s.UpdateUserHandler(), s.ProtectedMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteUserByID, ChainMiddleware(s.DeleteUserHandler(), s.ProtectedMiddleware()...))
}
