package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Kind    Kind     `json:"kind,omitempty"`
	Dates   []string `json:"dates,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func TooManyRequests(c *gin.Context) {
	Write(c, http.StatusTooManyRequests, "rate_limited", "Muitas requisições, tente novamente em instantes.")
}

// ======================================================
// Mapeamento de erros de negócio
// ======================================================

func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidSlot, KindInvalidRequest:
		return http.StatusBadRequest
	case KindTemporalRejection:
		return http.StatusUnprocessableEntity
	case KindSlotConflict, KindDateRangeUnavailable, KindInvalidState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

var messages = map[string]string{
	"past_date":           "Data já passou.",
	"too_far_in_advance":  "Data além do limite de antecedência.",
	"time_already_passed": "Horário já passou.",
	"insufficient_notice": "Antecedência mínima não respeitada.",
	"stay_too_short":      "Número de noites abaixo do mínimo.",
	"stay_too_long":       "Número de noites acima do máximo.",
	"closed_check_in_day": "Check-in não permitido neste dia da semana.",
	"time_conflict":       "Conflito de horário.",
	"dates_unavailable":   "Uma ou mais datas estão indisponíveis.",
	"date_blocked":        "Data bloqueada.",
	"no_schedule":         "Sem expediente neste dia.",
	"outside_schedule":    "Fora do horário de atendimento.",
	"invalid_date":        "Data inválida.",
	"invalid_time":        "Hora inválida.",
	"invalid_stay_range":  "Check-out deve ser depois do check-in.",
	"range_too_large":     "Intervalo de datas muito grande.",
	"service_not_found":   "Serviço não encontrado.",
	"tenant_not_found":    "Estabelecimento não encontrado.",
	"booking_not_found":   "Agendamento não encontrado.",
	"branch_not_found":    "Unidade não encontrada.",
	"invalid_transition":  "Transição de status inválida.",
	"invalid_date_range":  "Data final antes da inicial.",
	"invalid_status":      "Status inválido.",
	"slot_busy":           "Horário sendo reservado por outra pessoa, tente novamente.",
	"invalid_request":     "Requisição inválida.",
	"invalid_month":       "Mês inválido.",
}

func MessageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return "Requisição inválida."
}

// Respond escreve o erro de negócio como veio; falhas de infraestrutura
// são logadas e devolvidas como erro genérico.
func Respond(c *gin.Context, logger *zerolog.Logger, err error) {
	if be, ok := AsBusiness(err); ok {
		c.JSON(StatusFor(be.Kind), HTTPError{
			Code:    be.Code,
			Message: MessageFor(be.Code),
			Kind:    be.Kind,
			Dates:   be.Dates,
		})
		return
	}

	if IsStorageConflict(err) {
		c.JSON(http.StatusConflict, HTTPError{
			Code:    "time_conflict",
			Message: MessageFor("time_conflict"),
			Kind:    KindSlotConflict,
		})
		return
	}

	if logger != nil {
		logger.Error().Err(err).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Msg("request failed")
	}
	Internal(c, "internal_error", "Erro interno.")
}

// IsStorageConflict reconhece violações de unicidade/exclusão do Postgres,
// que significam que outra reserva venceu a corrida.
func IsStorageConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "23P01"
	}
	return false
}
