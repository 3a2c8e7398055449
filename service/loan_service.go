package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"loan-engine/domain"
	"loan-engine/repository"
	"loan-engine/variant"
)

// Options tunes a LoanService. Zero values fall back to defaults.
type Options struct {
	Limits   Limits
	CacheTTL time.Duration
	Logger   *zap.Logger
}

type LoanService struct {
	lib     variant.Library
	history repository.CalculationRepository
	cache   repository.CacheRepository
	limits  Limits
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewLoanService creates a new LoanService over the given variant library
// and repositories.
func NewLoanService(
	lib variant.Library,
	history repository.CalculationRepository,
	cache repository.CacheRepository,
	opts Options,
) *LoanService {
	if opts.Limits == (Limits{}) {
		opts.Limits = DefaultLimits
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &LoanService{
		lib:     lib,
		history: history,
		cache:   cache,
		limits:  opts.Limits,
		ttl:     opts.CacheTTL,
		logger:  opts.Logger,
		now:     time.Now,
	}
}

type stamped[T any] interface {
	*T
	Stamp(id string)
	ID() string
}

// calculate serves a response from the cache, or computes it, stamps it with
// a new calculation ID, records it and caches it. Cache and history failures
// are logged and never fail the request.
func calculate[T any, PT stamped[T]](
	ctx context.Context,
	s *LoanService,
	kind string,
	req any,
	compute func() (T, error),
) (T, error) {
	key, keyErr := cacheKey(kind, req)
	if keyErr == nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var hit T
			if err := json.Unmarshal([]byte(raw), &hit); err == nil {
				s.logger.Debug("cache hit", zap.String("op", kind), zap.String("key", key))
				return hit, nil
			}
			s.logger.Warn("discarding unreadable cache entry", zap.String("op", kind), zap.String("key", key))
		}
	}

	res, err := compute()
	if err != nil {
		return res, err
	}
	PT(&res).Stamp(uuid.NewString())

	calc := domain.Calculation{
		ID:        PT(&res).ID(),
		Kind:      kind,
		CreatedAt: s.now().UTC(),
		Request:   req,
		Response:  res,
	}
	// Record the result; a failure here is not fatal
	if err := s.history.Save(ctx, calc); err != nil {
		s.logger.Warn("failed to save calculation", zap.String("op", kind), zap.Error(err))
	}

	if keyErr != nil {
		return res, nil
	}
	payload, err := json.Marshal(res)
	if err != nil {
		s.logger.Warn("failed to encode response for cache", zap.String("op", kind), zap.Error(err))
		return res, nil
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logger.Warn("failed to cache response", zap.String("op", kind), zap.Error(err))
	}
	return res, nil
}

func cacheKey(kind string, req any) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return kind + ":" + hex.EncodeToString(sum[:]), nil
}

// GetCalculation looks up a recorded calculation.
func (s *LoanService) GetCalculation(ctx context.Context, id string) (domain.Calculation, bool) {
	return s.history.Get(ctx, id)
}

// CalculateEMI runs a standard level-EMI loan.
func (s *LoanService) CalculateEMI(ctx context.Context, req domain.EMIRequest) (domain.EMIResponse, error) {
	terms, err := s.limits.terms(req.LoanTerms)
	if err != nil {
		return domain.EMIResponse{}, err
	}
	if req.Calendar, err = calendar(req.Calendar, s.now()); err != nil {
		return domain.EMIResponse{}, err
	}

	return calculate(ctx, s, "emi", req, func() (domain.EMIResponse, error) {
		res, err := s.lib.Standard(terms, req.EMIAdvance, toVariant(req.Calendar))
		if err != nil {
			return domain.EMIResponse{}, err
		}
		return domain.EMIResponse{
			EMI:           res.EMI,
			LoanAmount:    req.LoanAmount,
			TenureMonths:  terms.Months,
			TotalInterest: res.Summary.TotalInterest,
			TotalAmount:   res.Summary.TotalPayment,
			Schedule:      res.Years,
		}, nil
	})
}
