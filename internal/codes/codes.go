// Package codes defines the numeric error taxonomy shared by every
// Fenrir endpoint. Responses always carry {"error": <code>}; 0 means
// success and every failure condition has its own code so clients can
// branch without parsing messages.
package codes

import "net/http"

const (
	OK                 = 0
	MissingData        = 1
	EmptyData          = 2
	MissingToken       = 3
	InvalidToken       = 4
	InvalidCredentials = 5
	AccessDenied       = 6
	NoSuchUser         = 7
	NoSuchWorkout      = 8
	WorkoutFull        = 9
	WorkoutExists      = 10
	InvalidDateTime    = 11
	InvalidPassword    = 12
	InvalidKennitala   = 13
	UserExists         = 14
	InvalidRole        = 15
)

// Error couples an error code with the HTTP status the API surface
// should answer with. The status is presentation only; the code is the
// contract.
type Error struct {
	Code    int
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrInvalidDateTime and ErrMalformedDate share one numeric code: a
// lookup miss answers 404 while a date the caller wrote wrong answers
// 400, but clients branch on the code either way.
var (
	ErrMissingData        = &Error{MissingData, http.StatusBadRequest, "required field missing"}
	ErrEmptyData          = &Error{EmptyData, http.StatusBadRequest, "field present but empty"}
	ErrMissingToken       = &Error{MissingToken, http.StatusUnauthorized, "no token supplied"}
	ErrInvalidToken       = &Error{InvalidToken, http.StatusUnauthorized, "token invalid or expired"}
	ErrInvalidCredentials = &Error{InvalidCredentials, http.StatusUnauthorized, "invalid credentials"}
	ErrAccessDenied       = &Error{AccessDenied, http.StatusForbidden, "access denied"}
	ErrNoSuchUser         = &Error{NoSuchUser, http.StatusNotFound, "no such user"}
	ErrNoSuchWorkout      = &Error{NoSuchWorkout, http.StatusNotFound, "no such workout"}
	ErrWorkoutFull        = &Error{WorkoutFull, http.StatusConflict, "workout is full"}
	ErrWorkoutExists      = &Error{WorkoutExists, http.StatusConflict, "a workout already occupies that time"}
	ErrInvalidDateTime    = &Error{InvalidDateTime, http.StatusNotFound, "no workout at that date and time"}
	ErrMalformedDate      = &Error{InvalidDateTime, http.StatusBadRequest, "unparseable date or time"}
	ErrInvalidPassword    = &Error{InvalidPassword, http.StatusBadRequest, "password too short"}
	ErrInvalidKennitala   = &Error{InvalidKennitala, http.StatusBadRequest, "invalid kennitala"}
	ErrUserExists         = &Error{UserExists, http.StatusConflict, "kennitala already registered"}
	ErrInvalidRole        = &Error{InvalidRole, http.StatusBadRequest, "unknown role"}
)
