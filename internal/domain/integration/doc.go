// Package integration contains the Integration bounded context.
// This context manages the connection to the upstream e-commerce store.
//
// Key concepts:
//   - StorePlatform: Port interface for talking to the upstream store API
//   - RemoteVariant / RemoteCustomer: Value objects describing upstream resources
//   - OrderRequest / OrderResult: Value objects for committing in-store sales upstream
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
