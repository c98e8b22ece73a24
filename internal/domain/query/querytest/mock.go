// Package querytest содержит mock сервиса проекций для тестов HTTP-обработчиков.
package querytest

import (
	"context"

	"antaracc/internal/domain/chain"
	"antaracc/internal/domain/query"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

var _ query.Servicer = (*Service)(nil)

func (m *Service) TokenInfo(ctx context.Context, tokenID chainhash.Hash) (*query.TokenInfo, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.TokenInfo), args.Error(1)
}

func (m *Service) TokenList(ctx context.Context) (*query.TokenList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.TokenList), args.Error(1)
}

func (m *Service) TokenBalance(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (*query.Balance, error) {
	args := m.Called(ctx, tokenID, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.Balance), args.Error(1)
}

func (m *Service) TokenOwners(ctx context.Context, tokenID chainhash.Hash, minBalance int64) (*query.TokenOwners, error) {
	args := m.Called(ctx, tokenID, minBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.TokenOwners), args.Error(1)
}

func (m *Service) TokenInventory(ctx context.Context, pubkey []byte, minBalance int64) (*query.TokenInventory, error) {
	args := m.Called(ctx, pubkey, minBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.TokenInventory), args.Error(1)
}

func (m *Service) TokenUpdates(ctx context.Context, tokenID chainhash.Hash, opts chain.HistoryOptions) ([]query.TokenUpdateView, error) {
	args := m.Called(ctx, tokenID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.TokenUpdateView), args.Error(1)
}

func (m *Service) TokenOwnershipPercent(ctx context.Context, tokenID chainhash.Hash, pubkey []byte) (float64, error) {
	args := m.Called(ctx, tokenID, pubkey)
	return args.Get(0).(float64), args.Error(1)
}

func (m *Service) TokenOwnerHistory(ctx context.Context, tokenID chainhash.Hash) ([]chain.Owner, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]chain.Owner), args.Error(1)
}

func (m *Service) TokenTagAddress(pubkey []byte) (string, error) {
	args := m.Called(pubkey)
	return args.String(0), args.Error(1)
}

func (m *Service) AgreementInfo(ctx context.Context, id chainhash.Hash) (*query.AgreementInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.AgreementInfo), args.Error(1)
}

func (m *Service) AgreementList(ctx context.Context) (*query.AgreementList, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.AgreementList), args.Error(1)
}

func (m *Service) AgreementInventory(ctx context.Context, pubkey []byte) (*query.AgreementList, error) {
	args := m.Called(ctx, pubkey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.AgreementList), args.Error(1)
}

func (m *Service) AgreementStatus(ctx context.Context, id chainhash.Hash) (*query.AgreementStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*query.AgreementStatus), args.Error(1)
}

func (m *Service) AgreementUpdates(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]query.RecordView, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.RecordView), args.Error(1)
}

func (m *Service) AgreementDisputes(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]query.DisputeView, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.DisputeView), args.Error(1)
}

func (m *Service) ProposalHistory(ctx context.Context, id chainhash.Hash, opts chain.HistoryOptions) ([]query.RecordView, error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]query.RecordView), args.Error(1)
}
