package remap

import (
	"remap/cache"
	"remap/events"
	"remap/options"
	"remap/profile"
)

type settings struct {
	strict       bool
	skipMissing  bool
	metrics      bool
	store        cache.Cache
	hooks        []events.Hook
	validators   []Validator
	profiles     []*profile.File
	profilePaths []string

	categories    options.CategoryEnum
	hasCategories bool
}

// Option configures a Mapper at construction time.
type Option func(*settings)

// Strict makes unrecognized source keys errors instead of being
// silently ignored.
func Strict() Option {
	return func(s *settings) { s.strict = true }
}

// SkipMissing suppresses missing-required-field errors; absent data
// leaves zero values behind.
func SkipMissing() Option {
	return func(s *settings) { s.skipMissing = true }
}

// WithCategories restricts the permitted coercion families.
func WithCategories(cats options.CategoryEnum) Option {
	return func(s *settings) {
		s.categories = cats
		s.hasCategories = true
	}
}

// WithCache swaps the descriptor cache backend.
func WithCache(store cache.Cache) Option {
	return func(s *settings) { s.store = store }
}

// WithHooks appends hooks run around every denormalize call, in order.
func WithHooks(hooks ...events.Hook) Option {
	return func(s *settings) { s.hooks = append(s.hooks, hooks...) }
}

// WithValidators appends post-mapping validators.
func WithValidators(vs ...Validator) Option {
	return func(s *settings) { s.validators = append(s.validators, vs...) }
}

// WithProfile applies an already parsed mapping profile.
func WithProfile(f *profile.File) Option {
	return func(s *settings) { s.profiles = append(s.profiles, f) }
}

// WithProfileFile loads and applies a YAML mapping profile from disk.
func WithProfileFile(path string) Option {
	return func(s *settings) { s.profilePaths = append(s.profilePaths, path) }
}

// WithMetrics publishes per-call Prometheus metrics.
func WithMetrics() Option {
	return func(s *settings) { s.metrics = true }
}
