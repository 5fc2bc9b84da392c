package controllers

import (
	"net/http"
	"strings"

	"github.com/graamkart/graamkart-backend/api/responses"
	"github.com/graamkart/graamkart-backend/api/validators"
	"github.com/graamkart/graamkart-backend/internal/users"
	pkgerrors "github.com/graamkart/graamkart-backend/pkg/errors"
	"github.com/graamkart/graamkart-backend/pkg/logger"
)

// profileImageUpload reads the optional profile image out of an
// already-parsed multipart form.
func profileImageUpload(r *http.Request) (*users.ImageUpload, error) {
	file, header, err := formFile(r, "profileImage")
	if err != nil {
		return nil, err
	}
	if file == nil {
		if file, header, err = formFile(r, "img"); err != nil || file == nil {
			return nil, err
		}
	}
	return &users.ImageUpload{ContentType: headerContentType(header), Reader: file}, nil
}

// UsersList returns all registered users; this is the admin view.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		items, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Users retrieved successfully.", items)
	}
}

func UserGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		user, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "User retrieved successfully.", user)
	}
}

// UserRegister creates an account and returns the user plus a fresh
// access token. Mobile clients send multipart with an optional profile
// image; JSON works too.
func UserRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		var input users.RegisterInput
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
				return
			}
			input.Name = validators.SanitizeString(r.FormValue("name"), 120)
			input.Email = strings.ToLower(strings.TrimSpace(r.FormValue("email")))
			input.Password = r.FormValue("password")
			if phone := validators.SanitizeString(r.FormValue("phone"), 20); phone != "" {
				input.Phone = &phone
			}
			image, err := profileImageUpload(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Image = image
		} else {
			var body struct {
				Name     string  `json:"name" validate:"required"`
				Email    string  `json:"email" validate:"required,email"`
				Password string  `json:"password" validate:"required,min=6"`
				Phone    *string `json:"phone"`
			}
			if err := validators.DecodeJSON(r, &body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			body.Email = strings.ToLower(strings.TrimSpace(body.Email))
			if err := validators.ValidateStruct(&body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Name = validators.SanitizeString(body.Name, 120)
			input.Email = body.Email
			input.Password = body.Password
			input.Phone = body.Phone
		}

		result, err := svc.Register(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "User registered successfully.", result)
	}
}

// UserLogin exchanges credentials for an access token. Wrong email and
// wrong password are indistinguishable to the caller.
func UserLogin(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		var input users.LoginInput
		if err := validators.DecodeJSON(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		if err := validators.ValidateStruct(&input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Login successful.", result)
	}
}

// UserProfile aggregates the caller's account with their orders, cart,
// favorites and addresses in one response.
func UserProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		profile, err := svc.Profile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Profile retrieved successfully.", profile)
	}
}

// UserProfileUpdate applies the profile fields the caller sent;
// multipart carries an optional replacement profile image.
func UserProfileUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var input users.UpdateProfileInput
		if isMultipart(r) {
			if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
				return
			}
			if name := validators.SanitizeString(r.FormValue("name"), 120); name != "" {
				input.Name = &name
			}
			if email := strings.ToLower(strings.TrimSpace(r.FormValue("email"))); email != "" {
				input.Email = &email
			}
			if phone := validators.SanitizeString(r.FormValue("phone"), 20); phone != "" {
				input.Phone = &phone
			}
			if password := r.FormValue("password"); password != "" {
				input.Password = &password
			}
			image, err := profileImageUpload(r)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Image = image
		} else {
			var body struct {
				Name     *string `json:"name"`
				Email    *string `json:"email"`
				Phone    *string `json:"phone"`
				Password *string `json:"password"`
			}
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Name = body.Name
			input.Phone = body.Phone
			input.Password = body.Password
			if body.Email != nil {
				email := strings.ToLower(strings.TrimSpace(*body.Email))
				input.Email = &email
			}
		}

		user, err := svc.UpdateProfile(ctx, userID, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Profile updated successfully.", user)
	}
}

// UserChangePassword verifies the old password before accepting a new
// one.
func UserChangePassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var input users.ChangePasswordInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.ChangePassword(ctx, userID, input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "Password changed successfully.", nil)
	}
}

// UserFCMToken stores the device token push notifications are sent to.
func UserFCMToken(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		var body struct {
			FCMToken string `json:"fcmToken" validate:"required"`
		}
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.UpdateFCMToken(ctx, userID, body.FCMToken); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "FCM token updated successfully.", nil)
	}
}

func UserDelete(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, "User deleted successfully.", nil)
	}
}
