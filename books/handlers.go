package books

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/bookshelf-go/apperror"
)

// Handlers exposes the book HTTP endpoints.
type Handlers struct {
	service  *Service
	validate *validator.Validate
}

// NewHandlers creates a Handlers instance with a validator that reports
// fields by their JSON names.
func NewHandlers(service *Service) *Handlers {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handlers{service: service, validate: v}
}

// RegisterRoutes mounts the book endpoints on the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/read", h.HandleList())
	r.Post("/create", h.HandleCreate())
	r.Put("/update/{book_id}", h.HandleUpdate())
	r.Delete("/delete/{book_id}", h.HandleDelete())
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// HandleList godoc
// @Summary List books
// @Description Returns a page of books ordered by id, with pagination totals.
// @Tags Books
// @Produce json
// @Param page query int false "Page number (1-based)" default(1) minimum(1)
// @Param per_page query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} books.PaginatedBooks "Page of books"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 422 {object} apperror.FieldErrorResponse "Invalid pagination parameters"
// @Security BearerAuth
// @Router /read [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 1)
		if err != nil || page < 1 {
			apperror.WriteError(w, r, apperror.NewFieldValidationError("page"))
			return
		}
		perPage, err := queryInt(r, "per_page", 10)
		if err != nil || perPage < 1 || perPage > 100 {
			apperror.WriteError(w, r, apperror.NewFieldValidationError("per_page"))
			return
		}

		result, err := h.service.ListPage(r.Context(), page, perPage)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, result)
	}
}

// HandleCreate godoc
// @Summary Create a book
// @Description Stores a new book and returns it with its assigned id.
// @Tags Books
// @Accept json
// @Produce json
// @Param book body books.Book true "Book to create"
// @Success 201 {object} books.Book "Created book"
// @Failure 400 {object} apperror.ErrorResponse "Malformed request body"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 422 {object} apperror.FieldErrorResponse "Invalid field values"
// @Security BearerAuth
// @Router /create [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var book Book
		if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
			apperror.WriteError(w, r, decodeError(err))
			return
		}

		if err := h.validate.Struct(book); err != nil {
			apperror.WriteError(w, r, validationError(err))
			return
		}

		created, err := h.service.Insert(r.Context(), book)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusCreated, created)
	}
}

// HandleUpdate godoc
// @Summary Update a book
// @Description Applies a partial update to the named fields of a book. The
// @Description whole request is rejected if any field name or value is invalid.
// @Tags Books
// @Accept json
// @Produce json
// @Param book_id path int true "Book id"
// @Param request body books.UpdateRequest true "Fields to update"
// @Success 200 {object} books.Book "Updated book"
// @Failure 400 {object} apperror.ErrorResponse "Invalid field name"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 404 {object} apperror.ErrorResponse "Book not found"
// @Failure 422 {object} apperror.FieldErrorResponse "Invalid field values"
// @Security BearerAuth
// @Router /update/{book_id} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "book_id"), 10, 64)
		if err != nil {
			apperror.WriteError(w, r, apperror.NewFieldValidationError("book_id"))
			return
		}

		var req UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, r, decodeError(err))
			return
		}

		updated, err := h.service.UpdateFields(r.Context(), id, req.Updates)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, updated)
	}
}

// HandleDelete godoc
// @Summary Delete a book
// @Description Removes a book by id.
// @Tags Books
// @Produce json
// @Param book_id path int true "Book id"
// @Success 200 {object} books.DeleteResponse "Book deleted"
// @Failure 401 {object} apperror.ErrorResponse "Not authenticated"
// @Failure 404 {object} apperror.ErrorResponse "Book not found"
// @Security BearerAuth
// @Router /delete/{book_id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "book_id"), 10, 64)
		if err != nil {
			apperror.WriteError(w, r, apperror.NewFieldValidationError("book_id"))
			return
		}

		if err := h.service.Delete(r.Context(), id); err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		apperror.WriteJSON(w, http.StatusOK, DeleteResponse{Detail: "Book deleted successfully"})
	}
}

// decodeError maps a JSON decoding failure to an application error. Type
// mismatches and bad dates identify the offending field; anything else is a
// generic malformed-body error.
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperror.NewFieldValidationError(typeErr.Field)
	}
	if errors.Is(err, ErrInvalidDate) {
		return apperror.NewFieldValidationError("published_date")
	}
	return apperror.NewBadRequestError("invalid request body", err)
}

// validationError converts validator failures into a per-field validation
// error listing the JSON names of the offending fields.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return apperror.NewFieldValidationError(fields...)
	}
	return apperror.NewBadRequestError("invalid request body", err)
}
