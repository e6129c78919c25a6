package booking

import (
	"context"
	"errors"
	"fmt"
)

// ======================================================
// Cache de disponibilidade
// ======================================================

// SlotKey identifica a grade bruta (antes do filtro de antecedência) de um dia.
type SlotKey struct {
	TenantID  uint
	BranchID  *uint
	ServiceID uint
	Date      string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%d:%d:%s", branchOrZero(k.BranchID), k.ServiceID, k.Date)
}

// SlotCache é versionado por estabelecimento. GetSlots devolve a versão lida
// e SetSlots grava sob ela: uma grade calculada antes de uma invalidação
// cai na versão morta em vez de voltar a ser servida.
type SlotCache interface {
	GetSlots(ctx context.Context, key SlotKey) (slots []Slot, version string, ok bool)
	SetSlots(ctx context.Context, key SlotKey, version string, slots []Slot)
	// Invalidate descarta toda a grade do estabelecimento.
	Invalidate(ctx context.Context, tenantID uint)
}

type NopCache struct{}

func (NopCache) GetSlots(context.Context, SlotKey) ([]Slot, string, bool) { return nil, "", false }
func (NopCache) SetSlots(context.Context, SlotKey, string, []Slot)       {}
func (NopCache) Invalidate(context.Context, uint)                        {}

// ======================================================
// Trava por agenda
// ======================================================

var ErrLockBusy = errors.New("booking lock busy")

// Locker serializa criações concorrentes na mesma agenda/dia.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

func LockKey(scope Scope, date string) string {
	return fmt.Sprintf("%d:%d:%s", scope.TenantID, branchOrZero(scope.BranchID), date)
}

func branchOrZero(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
