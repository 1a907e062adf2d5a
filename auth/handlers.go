package auth

import (
	"net/http"

	"github.com/user/bookshelf-go/apperror"
)

// Handlers exposes the authentication HTTP endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleToken godoc
// @Summary Issue an access token
// @Description Authenticates the configured user with a form-encoded username and password and returns a bearer token.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} auth.TokenResponse "Token issued"
// @Failure 401 {object} apperror.ErrorResponse "Incorrect username or password"
// @Router /token [post]
func (h *Handlers) HandleToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			apperror.WriteError(w, r, apperror.NewBadRequestError("invalid form body", err))
			return
		}

		username := r.PostFormValue("username")
		password := r.PostFormValue("password")
		var missing []string
		if username == "" {
			missing = append(missing, "username")
		}
		if password == "" {
			missing = append(missing, "password")
		}
		if len(missing) > 0 {
			apperror.WriteError(w, r, apperror.NewFieldValidationError(missing...))
			return
		}

		resp, err := h.service.Login(username, password)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, resp)
	}
}
