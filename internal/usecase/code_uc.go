// File: internal/usecase/code_uc.go
package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tutoring-checkin/internal/domain"
	"tutoring-checkin/internal/domain/model"
	"tutoring-checkin/internal/domain/ports/repository"
	"tutoring-checkin/internal/infra/metrics"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

type CodeUseCase interface {
	// Issue creates or reissues the scan code for a customer. A customer holds
	// one code; reissuing invalidates the previous value.
	Issue(ctx context.Context, customerID string) (*model.ScanCode, error)
	// Validate resolves an active code value to its customer id and records
	// the use. Unknown and deactivated values fail identically with
	// domain.ErrCodeNotFound so callers cannot probe registry state.
	Validate(ctx context.Context, codeValue string) (customerID string, err error)
}

type codeUC struct {
	codes     repository.ScanCodeRepository
	customers repository.CustomerRepository
	log       *zerolog.Logger
}

func NewCodeUseCase(codes repository.ScanCodeRepository, customers repository.CustomerRepository, logger *zerolog.Logger) *codeUC {
	l := logger.With().Str("component", "CodeUC").Logger()
	return &codeUC{codes: codes, customers: customers, log: &l}
}

func (u *codeUC) Issue(ctx context.Context, customerID string) (*model.ScanCode, error) {
	if customerID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.customers.FindByID(ctx, nil, customerID); err != nil {
		return nil, err
	}

	// The value is unique-constrained in storage; a collision surfaces as
	// ErrDependencyUnavailable, so take a couple of tries with fresh values.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		value, err := generateCodeValue()
		if err != nil {
			return nil, err
		}
		code, err := model.NewScanCode("", customerID, value)
		if err != nil {
			return nil, err
		}
		if err := u.codes.Upsert(ctx, nil, code); err != nil {
			if errors.Is(err, domain.ErrDependencyUnavailable) {
				lastErr = err
				continue
			}
			return nil, err
		}
		metrics.IncCodeIssued()
		u.log.Info().Str("customer_id", customerID).Msg("scan code issued")
		return code, nil
	}
	return nil, lastErr
}

func (u *codeUC) Validate(ctx context.Context, codeValue string) (string, error) {
	if codeValue == "" {
		return "", domain.ErrInvalidArgument
	}
	code, err := u.codes.FindActiveByValue(ctx, nil, codeValue)
	if err != nil {
		return "", err
	}
	if err := u.codes.TouchLastUsed(ctx, nil, code.ID); err != nil {
		// The validation itself succeeded; a failed timestamp bump is not
		// grounds to reject the scan.
		u.log.Warn().Err(err).Str("code_id", code.ID).Msg("failed to update last_used_at")
	}
	return code.CustomerID, nil
}
