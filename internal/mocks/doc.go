// Package mocks provides centralized mock implementations for testing.
//
// MockGenerator is a hand-written mock with function fields and call tracking,
// safe for concurrent use. The provider mocks embed testify's mock.Mock and are
// configured with On(...).Return(...).
//
// Usage:
//
//	gen := mocks.NewMockGeneratorWithText("| word | meaning |")
//	svc, err := service.NewDerivationService(stores, gen, logger)
//	// ...
//	assert.Equal(t, 1, gen.CallCount())
package mocks
