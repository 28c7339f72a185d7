// Package mocks provides mock implementations for testing the extraction services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the ports in internal/core.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	client := mocks.NewMockHarvestClient(ctrl)
//	client.EXPECT().Get(gomock.Any(), "candidates/12").Return(doc, nil)
package mocks

// Generate mock for HarvestClient interface from internal/core package.
// This creates MockHarvestClient with methods for all HarvestClient interface methods:
// List, Get, Download
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=harvest_client_mock.go github.com/target/harvest-extract/internal/core HarvestClient

// Generate mock for RecordRepository interface from internal/core package.
// This creates MockRecordRepository with methods for all RecordRepository interface methods:
// Put, Get, Exists, List, PutActivityFeed, HasActivityFeed, ActivityFeedIDs
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=record_repository_mock.go github.com/target/harvest-extract/internal/core RecordRepository
