package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/treebjjjapan/manager-dojo-marques/internal/domain/session"
	"github.com/treebjjjapan/manager-dojo-marques/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// sessionClaims are the JWT claims carried by operator session tokens.
type sessionClaims struct {
	Email string       `json:"email"`
	Name  string       `json:"name"`
	Role  session.Role `json:"role"`
	jwt.RegisteredClaims
}

// login performs the static credential check and opens the operator
// session: the session value is written to the store's user slot and a
// signed token is handed to the UI.
func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "email and password are required")
	}

	auth := s.cfg.Auth
	emailOK := strings.EqualFold(strings.TrimSpace(req.Email), auth.AdminEmail)
	passErr := bcrypt.CompareHashAndPassword([]byte(auth.AdminPasswordHash), []byte(req.Password))
	if !emailOK || passErr != nil {
		s.log.Warn("login refused", logger.String("email", req.Email))
		return errJSON(c, http.StatusUnauthorized, session.ErrInvalidCredentials.Error())
	}

	user := session.User{
		ID:    "1",
		Email: auth.AdminEmail,
		Name:  auth.AdminName,
		Role:  session.RoleAdmin,
	}
	if err := s.store.SetCurrentUser(user); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not persist session")
	}

	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(auth.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(auth.JWTSecret))
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not sign session token")
	}

	s.log.Info("operator logged in", logger.String("email", user.Email))
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// logout clears the operator session.
func (s *Server) logout(c echo.Context) error {
	if err := s.store.ClearCurrentUser(); err != nil {
		return errJSON(c, http.StatusInternalServerError, "could not clear session")
	}
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// me returns the logged-in operator from the store's user slot.
func (s *Server) me(c echo.Context) error {
	user, ok := s.store.CurrentUser()
	if !ok {
		return errJSON(c, http.StatusUnauthorized, "no active session")
	}
	return c.JSON(http.StatusOK, user)
}

// requireSession validates the Bearer token on every protected route.
func (s *Server) requireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found || raw == "" {
				return errJSON(c, http.StatusUnauthorized, "missing session token")
			}

			claims := &sessionClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(s.cfg.Auth.JWTSecret), nil
			})
			if err != nil || !token.Valid {
				return errJSON(c, http.StatusUnauthorized, "invalid session token")
			}

			c.Set("session_email", claims.Email)
			c.Set("session_name", claims.Name)
			return next(c)
		}
	}
}

// operatorName returns the display name of the current operator for audit
// fields such as graduation history authorship.
func operatorName(c echo.Context) string {
	if name, ok := c.Get("session_name").(string); ok && name != "" {
		return name
	}
	return "Admin"
}
