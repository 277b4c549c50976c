package weather

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed upstream call.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorInvalidURL
	ErrorHTTP
	ErrorAPI
	ErrorInvalidResponse
	ErrorDecoding
)

// APIError is the classified error for a WeatherAPI call. Its Error text is
// the user-facing message; API-kind errors carry the upstream message verbatim.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	switch e.Kind {
	case ErrorInvalidURL:
		return "Неверный URL адрес"
	case ErrorHTTP:
		return fmt.Sprintf("Ошибка сервера: %d", e.Status)
	case ErrorAPI:
		return e.Message
	case ErrorInvalidResponse:
		return "Некорректный ответ от сервера"
	case ErrorDecoding:
		return "Ошибка обработки данных"
	default:
		return "Неизвестная ошибка"
	}
}

// ErrInvalidTimezone marks a current-weather response whose tz_id does not
// resolve. It fails the whole refresh, never a fallback to a default zone.
var ErrInvalidTimezone = errors.New("Invalid timezone")

// MsgSomethingWentWrong is presented for failures outside the classified set.
const MsgSomethingWentWrong = "Что-то пошло не так... Попробуйте еще раз"

// PresentableMessage maps a refresh failure to its single user-facing message.
func PresentableMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, ErrInvalidTimezone) {
		return ErrInvalidTimezone.Error()
	}
	return MsgSomethingWentWrong
}
