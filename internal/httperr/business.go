package httperr

import (
	"errors"
	"strings"
)

// Kind agrupa os códigos de negócio em categorias corrigíveis pelo usuário.
type Kind string

const (
	KindInvalidSlot          Kind = "invalid_slot"
	KindTemporalRejection    Kind = "temporal_rejection"
	KindSlotConflict         Kind = "slot_conflict"
	KindDateRangeUnavailable Kind = "date_range_unavailable"
	KindNotFound             Kind = "not_found"
	KindInvalidState         Kind = "invalid_state"
	KindInvalidRequest       Kind = "invalid_request"
)

type BusinessError struct {
	Kind  Kind
	Code  string
	Dates []string
}

func (e BusinessError) Error() string {
	if len(e.Dates) > 0 {
		return e.Code + ": " + strings.Join(e.Dates, ",")
	}
	return e.Code
}

// ErrBusiness cria um erro de requisição inválida genérico.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindInvalidRequest, Code: code}
}

func ErrInvalidSlot(code string) error {
	return BusinessError{Kind: KindInvalidSlot, Code: code}
}

func ErrTemporal(code string) error {
	return BusinessError{Kind: KindTemporalRejection, Code: code}
}

func ErrSlotConflict(code string) error {
	return BusinessError{Kind: KindSlotConflict, Code: code}
}

// ErrDatesUnavailable lista todas as datas problemáticas, não só a primeira.
func ErrDatesUnavailable(dates []string) error {
	return BusinessError{
		Kind:  KindDateRangeUnavailable,
		Code:  "dates_unavailable",
		Dates: append([]string(nil), dates...),
	}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

func ErrInvalidState(code string) error {
	return BusinessError{Kind: KindInvalidState, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// AsBusiness extrai o BusinessError, se houver.
func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
